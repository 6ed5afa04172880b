package config_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Anon10214/cypherc/cmd/config"
	"github.com/Anon10214/cypherc/dbms"
	"github.com/Anon10214/cypherc/models/mock"
	"github.com/Anon10214/cypherc/models/neo4j"
	opencypherconfig "github.com/Anon10214/cypherc/models/opencypher/config"
	"github.com/Anon10214/cypherc/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const targetsConfigPath = "../../targets-config.yml"

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "targets-config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return configPath
}

func TestGetConfigForTarget_AllTargets(t *testing.T) {
	for _, target := range config.Targets {
		t.Run(target, func(t *testing.T) {
			conf, err := config.GetConfigForTarget(target, targetsConfigPath)
			require.NoError(t, err)

			assert.Equal(t, target, conf.TargetDB)
			assert.NotNil(t, conf.DB)
			assert.NotNil(t, conf.ErrorMessageRegex, "Shipped config has no ignored errors for target")
			assert.Equal(t, opencypherconfig.Default(), conf.Naming)
		})
	}
}

func TestGetConfigForTarget_Drivers(t *testing.T) {
	conf, err := config.GetConfigForTarget("neo4j", targetsConfigPath)
	require.NoError(t, err)
	assert.IsType(t, &neo4j.Driver{}, conf.DB)

	conf, err = config.GetConfigForTarget("mock", targetsConfigPath)
	require.NoError(t, err)
	assert.IsType(t, &mock.Driver{}, conf.DB)
}

func TestGetConfigForTarget_ReportTemplate(t *testing.T) {
	conf, err := config.GetConfigForTarget("neo4j", targetsConfigPath)
	require.NoError(t, err)
	require.NotNil(t, conf.ReportTemplate)

	data := scheduler.ReportMarkdownData{
		Document: "movies",
		Target:   "neo4j",
		Strategy: "NONE",
		Type:     dbms.Failed,
		IsFailed: true,
		Queries: []scheduler.ReportQueryData{{
			Text:        "MATCH (this0) RETURN this0",
			ParamsTable: "| Parameter | Value |",
			Params:      map[string]any{"param0": 1},
			Error:       "Neo.DatabaseError.General.UnknownError",
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, conf.ReportTemplate.Execute(&buf, data))

	assert.Contains(t, buf.String(), "# NEO4J: Failed result for document `movies`")
	assert.Contains(t, buf.String(), "## Build 1")
	assert.Contains(t, buf.String(), "MATCH (this0) RETURN this0")
	assert.Contains(t, buf.String(), "Neo.DatabaseError.General.UnknownError")
}

func TestGetConfigForTarget_IgnoredErrors(t *testing.T) {
	configPath := writeConfig(t, `
targets:
  mock:
    ignoredErrors: ["unknown function", "division by zero"]
`)
	conf, err := config.GetConfigForTarget("mock", configPath)
	require.NoError(t, err)

	assert.Equal(t, dbms.Invalid, dbms.ClassifyError(errors.New("division by zero"), conf.ErrorMessageRegex))
	assert.Equal(t, dbms.Failed, dbms.ClassifyError(errors.New("NullPointerException"), conf.ErrorMessageRegex))
	assert.Nil(t, conf.ReportTemplate)
}

func TestGetConfigForTarget_Errors(t *testing.T) {
	for name, tc := range map[string]struct {
		target  string
		content string
	}{
		"Target not in config": {"neo4j", "targets:\n  mock: {}\n"},
		"Unknown target":       {"arangodb", "targets:\n  arangodb: {}\n"},
		"Invalid regex":        {"mock", "targets:\n  mock:\n    ignoredErrors: [\"(\"]\n"},
		"Invalid template":     {"mock", "targets:\n  mock:\n    reportTemplate: \"{{ .Missing }\"\n"},
		"Template fails":       {"mock", "targets:\n  mock:\n    reportTemplate: \"{{ .Nope }}\"\n"},
		"Invalid naming":       {"mock", "naming:\n  node: \"1n\"\ntargets:\n  mock: {}\n"},
		"Invalid YAML":         {"mock", "targets: [\n"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := config.GetConfigForTarget(tc.target, writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}

	_, err := config.GetConfigForTarget("mock", filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestGetNamingConfig(t *testing.T) {
	naming, err := config.GetNamingConfig(writeConfig(t, "naming:\n  node: n\n  unsuffixedFirst: true\n"))
	require.NoError(t, err)

	expected := opencypherconfig.Default()
	expected.NodePrefix = "n"
	expected.UnsuffixedFirst = true
	assert.Equal(t, expected, naming)
}

func TestSetDefaultConfig(t *testing.T) {
	t.Cleanup(func() { config.SetDefaultConfig(scheduler.Config{}) })
	config.SetDefaultConfig(scheduler.Config{ReportsDirectory: "somewhere"})

	conf, err := config.GetConfigForTarget("mock", targetsConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "somewhere", conf.ReportsDirectory)
}

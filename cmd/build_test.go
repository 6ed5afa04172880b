package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"text/template"

	"github.com/Anon10214/cypherc/models/opencypher/config"
	"github.com/Masterminds/sprig/v3"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var outputs = []buildOutput{
	{Document: "heat", Text: "MATCH (this0:Movie {title: $param1})\nRETURN this0.title", Params: map[string]any{"param1": "Heat"}},
	{Document: "count", Text: "RETURN 1", Params: map[string]any{}},
}

func TestWriteBuilds_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBuilds(&buf, outputs, "text", nil, 100))

	out := buf.String()
	assert.Contains(t, out, "── heat ──\n\n  MATCH (this0:Movie {title: $param1})\n  RETURN this0.title\n")
	assert.Contains(t, out, "$param1")
	assert.Contains(t, out, `"Heat"`)
	assert.Contains(t, out, "── count ──\n\n  RETURN 1\n")
}

func TestWriteBuilds_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBuilds(&buf, outputs, "yaml", nil, 0))

	var decoded []buildOutput
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, outputs, decoded)
}

func TestWriteBuilds_Template(t *testing.T) {
	tmpl := template.Must(template.New("").Funcs(sprig.FuncMap()).Parse("{{ .Document | upper }}: {{ .Params | keys | sortAlpha | join \",\" }}\n"))

	var buf bytes.Buffer
	require.NoError(t, writeBuilds(&buf, outputs, "text", tmpl, 0))
	assert.Equal(t, "HEAT: param1\nCOUNT: \n", buf.String())
}

func TestWriteBuilds_InvalidOutput(t *testing.T) {
	assert.Error(t, writeBuilds(&bytes.Buffer{}, outputs, "json", nil, 0))
}

func TestApplyNamingFlags(t *testing.T) {
	c := &cobra.Command{}
	addNamingFlags(c)
	require.NoError(t, c.PersistentFlags().Set("node-prefix", "n"))
	require.NoError(t, c.PersistentFlags().Set("unsuffixed-first", "true"))

	base := config.Default()
	base.ParamPrefix = "arg"

	naming, err := applyNamingFlags(c.PersistentFlags(), base)
	require.NoError(t, err)

	expected := config.Default()
	expected.NodePrefix = "n"
	expected.ParamPrefix = "arg"
	expected.UnsuffixedFirst = true
	assert.Equal(t, expected, naming)

	require.NoError(t, c.PersistentFlags().Set("path-prefix", "0p"))
	_, err = applyNamingFlags(c.PersistentFlags(), base)
	assert.ErrorIs(t, err, config.ErrInvalidPrefix)
}

func TestBaseNaming_MissingConfig(t *testing.T) {
	naming, err := baseNaming(filepath.Join(t.TempDir(), "targets-config.yml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), naming)
}

func TestLoadDocuments(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"b.yml":    "name: b\nstatement:\n  - match:\n      pattern:\n        - node: {ref: n}\n",
		"a.yaml":   "name: a\nstatement:\n  - match:\n      pattern:\n        - node: {ref: n}\n",
		"notes.md": "not a document",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	docs, err := loadDocuments([]string{dir})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].Name)
	assert.Equal(t, "b", docs[1].Name)

	_, err = loadDocuments([]string{filepath.Join(dir, "missing.yml")})
	assert.Error(t, err)
}

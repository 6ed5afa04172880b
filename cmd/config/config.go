/*
Package config manages run configs for cobra-cli commands.

This package provides the ability to set a default run config
that gets used by the commands running documents against a target.

It additionally reads in the naming config of the target config file.
*/
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"text/template"

	"github.com/Anon10214/cypherc/dbms"
	"github.com/Anon10214/cypherc/models/apacheage"
	"github.com/Anon10214/cypherc/models/falkordb"
	"github.com/Anon10214/cypherc/models/memgraph"
	"github.com/Anon10214/cypherc/models/mock"
	"github.com/Anon10214/cypherc/models/neo4j"
	"github.com/Anon10214/cypherc/models/opencypher/config"
	"github.com/Anon10214/cypherc/models/redisgraph"
	"github.com/Anon10214/cypherc/scheduler"
	"github.com/Masterminds/sprig/v3"
	"gopkg.in/yaml.v3"
)

// Targets lists all targets a config can be created for
var Targets = []string{"neo4j", "memgraph", "falkordb", "redisgraph", "apache-age", "mock"}

type targetsConfig struct {
	Naming  config.Config           `yaml:"naming"`
	Targets map[string]targetConfig `yaml:"targets"`
}

type targetConfig struct {
	IgnoredErrorMessages []string `yaml:"ignoredErrors"`
	ReportTemplate       string   `yaml:"reportTemplate"`
}

var defaultConfig scheduler.Config

// SetDefaultConfig can be used to set the default run config to be used by the cobra-cli commands
func SetDefaultConfig(conf scheduler.Config) {
	defaultConfig = conf
}

func readTargetsConfig(configPath string) (targetsConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return targetsConfig{}, errors.Join(errors.New("failed to read passed target config"), err)
	}
	conf := targetsConfig{}
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return targetsConfig{}, errors.Join(errors.New("failed to unmarshal target config"), err)
	}
	return conf, nil
}

// GetNamingConfig returns the naming config of the target config at the passed path.
//
// Prefixes missing from the file are set to their defaults.
func GetNamingConfig(configPath string) (config.Config, error) {
	conf, err := readTargetsConfig(configPath)
	if err != nil {
		return config.Config{}, err
	}
	naming := conf.Naming.WithDefaults()
	if err := naming.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid naming in target config at %s: %w", configPath, err)
	}
	return naming, nil
}

// GetConfigForTarget returns the run config associated with a given target
func GetConfigForTarget(target string, configPath string) (scheduler.Config, error) {
	conf := defaultConfig

	targetsConf, err := readTargetsConfig(configPath)
	if err != nil {
		return scheduler.Config{}, err
	}

	curTargetConf, ok := targetsConf.Targets[target]
	if !ok {
		return scheduler.Config{}, fmt.Errorf("target %s not found in target config at %s", target, configPath)
	}

	if conf.Naming, err = GetNamingConfig(configPath); err != nil {
		return scheduler.Config{}, err
	}

	// Create the ignored error message regexp
	if len(curTargetConf.IgnoredErrorMessages) != 0 {
		var ignoredErrorMessages []string
		for _, msg := range curTargetConf.IgnoredErrorMessages {
			ignoredErrorMessages = append(ignoredErrorMessages, fmt.Sprintf("(%s)", msg))
		}
		ignoredErrorMessagesRegexp, err := regexp.Compile(strings.Join(ignoredErrorMessages, "|"))
		if err != nil {
			return scheduler.Config{}, errors.Join(errors.New("failed to read the regexp for ignored error messages"), err)
		}
		conf.ErrorMessageRegex = &dbms.ErrorMessageRegex{Ignored: ignoredErrorMessagesRegexp}
	}

	if curTargetConf.ReportTemplate != "" {
		if conf.ReportTemplate, err = template.New("report-markdown").Funcs(sprig.FuncMap()).Parse(curTargetConf.ReportTemplate); err != nil {
			return scheduler.Config{}, errors.Join(errors.New("failed to parse the report template"), err)
		}

		// Make sure the template can generate a report
		if err := conf.ReportTemplate.Execute(&bytes.Buffer{}, scheduler.ReportMarkdownData{}); err != nil {
			return scheduler.Config{}, errors.Join(errors.New("failed to execute the report template, is the template valid?"), err)
		}
	}

	conf.TargetDB = target

	// Set the target
	switch target {
	case "neo4j":
		conf.DB = &neo4j.Driver{}
	case "memgraph":
		conf.DB = &memgraph.Driver{}
	case "falkordb":
		conf.DB = &falkordb.Driver{}
	case "redisgraph":
		conf.DB = &redisgraph.Driver{}
	case "apache-age":
		conf.DB = &apacheage.Driver{}
	case "mock":
		conf.DB = &mock.Driver{}
	default:
		return conf, fmt.Errorf("invalid target %s", target)
	}
	return conf, nil
}

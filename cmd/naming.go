package cmd

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	cmdconfig "github.com/Anon10214/cypherc/cmd/config"
	"github.com/Anon10214/cypherc/models/opencypher/config"
	"github.com/Anon10214/cypherc/models/opencypher/document"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var namingFlags config.Config

func addNamingFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&namingFlags.NodePrefix, "node-prefix", "", "Prefix of node labels, overrides the target config")
	cmd.PersistentFlags().StringVar(&namingFlags.RelationshipPrefix, "relationship-prefix", "", "Prefix of relationship labels, overrides the target config")
	cmd.PersistentFlags().StringVar(&namingFlags.VariablePrefix, "variable-prefix", "", "Prefix of variable labels, overrides the target config")
	cmd.PersistentFlags().StringVar(&namingFlags.PathPrefix, "path-prefix", "", "Prefix of path labels, overrides the target config")
	cmd.PersistentFlags().StringVar(&namingFlags.ParamPrefix, "param-prefix", "", "Prefix of parameter keys, overrides the target config")
	cmd.PersistentFlags().BoolVar(&namingFlags.UnsuffixedFirst, "unsuffixed-first", false, "Render the first identifier of a query without its index, e.g. this instead of this0")
}

// applyNamingFlags returns the passed naming with every naming flag that was set applied to it
func applyNamingFlags(flags *pflag.FlagSet, naming config.Config) (config.Config, error) {
	for flag, apply := range map[string]func(){
		"node-prefix":         func() { naming.NodePrefix = namingFlags.NodePrefix },
		"relationship-prefix": func() { naming.RelationshipPrefix = namingFlags.RelationshipPrefix },
		"variable-prefix":     func() { naming.VariablePrefix = namingFlags.VariablePrefix },
		"path-prefix":         func() { naming.PathPrefix = namingFlags.PathPrefix },
		"param-prefix":        func() { naming.ParamPrefix = namingFlags.ParamPrefix },
		"unsuffixed-first":    func() { naming.UnsuffixedFirst = namingFlags.UnsuffixedFirst },
	} {
		if flags.Changed(flag) {
			apply()
		}
	}
	naming = naming.WithDefaults()
	return naming, naming.Validate()
}

// baseNaming returns the naming of the target config, or the default naming if there is no target config
func baseNaming(configPath string) (config.Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cmdconfig.GetNamingConfig(configPath)
}

// loadDocuments loads the documents at the passed paths.
// Directories are searched for .yml and .yaml files, which get loaded in lexical order.
func loadDocuments(paths []string) ([]*document.Document, error) {
	var files []string
	for _, path := range paths {
		stat, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !stat.IsDir() {
			files = append(files, path)
			continue
		}

		var found []string
		for _, pattern := range []string{"*.yml", "*.yaml"} {
			matches, err := filepath.Glob(filepath.Join(path, pattern))
			if err != nil {
				return nil, err
			}
			found = append(found, matches...)
		}
		slices.Sort(found)
		files = append(files, found...)
	}

	docs := make([]*document.Document, 0, len(files))
	for _, file := range files {
		doc, err := document.Load(file)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

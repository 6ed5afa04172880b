/*
Package config provides the naming config used when compiling clause trees.

The config decides which prefixes the compile environment uses when it assigns
labels to references and keys to parameters. It is passed explicitly to every
build, there is no globally set config.
*/
package config

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"
)

// The Config for OpenCypher query compilation
type Config struct {
	// Prefix of labels allocated for node references
	NodePrefix string `yaml:"node"`
	// Prefix of labels allocated for relationship references
	RelationshipPrefix string `yaml:"relationship"`
	// Prefix of labels allocated for variables, e.g. projection aliases
	VariablePrefix string `yaml:"variable"`
	// Prefix of labels allocated for path references
	PathPrefix string `yaml:"path"`
	// Prefix of the keys allocated for parameters
	ParamPrefix string `yaml:"param"`
	// If set, the very first allocated identifier of a compile is rendered without its index,
	// e.g. `this` instead of `this0`. Later identifiers always carry their index.
	UnsuffixedFirst bool `yaml:"unsuffixedFirst"`
}

// Default returns the config used if nothing else is specified.
func Default() Config {
	return Config{
		NodePrefix:         "this",
		RelationshipPrefix: "this",
		VariablePrefix:     "var",
		PathPrefix:         "p",
		ParamPrefix:        "param",
	}
}

// WithDefaults returns a copy of the config where every empty prefix is replaced by its default.
func (c Config) WithDefaults() Config {
	def := Default()
	if c.NodePrefix == "" {
		c.NodePrefix = def.NodePrefix
	}
	if c.RelationshipPrefix == "" {
		c.RelationshipPrefix = def.RelationshipPrefix
	}
	if c.VariablePrefix == "" {
		c.VariablePrefix = def.VariablePrefix
	}
	if c.PathPrefix == "" {
		c.PathPrefix = def.PathPrefix
	}
	if c.ParamPrefix == "" {
		c.ParamPrefix = def.ParamPrefix
	}
	return c
}

var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ErrInvalidPrefix is returned by [Config.Validate] if a prefix can't be used as part of an identifier.
var ErrInvalidPrefix = errors.New("invalid prefix")

// Validate checks that all prefixes can be used as the start of a Cypher identifier
// and that none of them ends in a digit.
// Empty prefixes are valid, they get replaced by [Config.WithDefaults].
func (c Config) Validate() error {
	var errs []error
	for _, prefix := range []struct {
		name  string
		value string
	}{
		{"node", c.NodePrefix},
		{"relationship", c.RelationshipPrefix},
		{"variable", c.VariablePrefix},
		{"path", c.PathPrefix},
		{"param", c.ParamPrefix},
	} {
		if prefix.value != "" && !IsPrefix(prefix.value) {
			errs = append(errs, fmt.Errorf("%w for %s: %q", ErrInvalidPrefix, prefix.name, prefix.value))
		}
	}
	return errors.Join(errs...)
}

// IsIdentifier reports whether the passed name can be used in a query without escaping.
func IsIdentifier(name string) bool {
	return identifierRegex.MatchString(name)
}

// IsPrefix reports whether the passed name can be followed by an allocation index.
//
// A prefix ending in a digit is rejected, as `n1` followed by index 0 would
// collide with `n` followed by index 10.
func IsPrefix(name string) bool {
	return IsIdentifier(name) && !unicode.IsDigit(rune(name[len(name)-1]))
}

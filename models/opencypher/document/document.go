/*
Package document decodes YAML query documents into clause trees.

A document declares its references by name and describes a statement
as a list of clauses or a union of such lists. Every name maps to exactly
one [translator.Reference] for the whole document, so a name used in
several union branches resolves to the same label in each of them.

	references:
	  alias: {kind: variable}
	statement:
	  union:
	    branches:
	      - - match:
	            pattern:
	              - node: {ref: m, labels: [Movie]}
	            return:
	              items: [{expr: m, as: alias}]
	      - - match:
	            pattern:
	              - node: {ref: s, labels: [Series]}
	            return:
	              items: [{expr: s, as: alias}]
*/
package document

import (
	"errors"
	"fmt"
	"os"

	"github.com/Anon10214/cypherc/translator"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ErrKindMismatch is returned when a name is used for references of different kinds.
var ErrKindMismatch = errors.New("reference used with conflicting kinds")

// A Document is a decoded query document.
type Document struct {
	// Name of the document, the file name if loaded without an explicit name
	Name string
	// The root of the clause tree
	Statement translator.Clause
	// References declared by the document, by name
	References map[string]*translator.Reference
}

type rawDocument struct {
	Name       string                  `yaml:"name"`
	References map[string]rawReference `yaml:"references"`
	Statement  yaml.Node               `yaml:"statement"`
}

type rawReference struct {
	Kind   string `yaml:"kind"`
	Prefix string `yaml:"prefix"`
}

// Load reads and parses the document at the passed path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("couldn't read document %s", path), err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = path
	}
	logrus.Debugf("Loaded document %s", doc.Name)
	return doc, nil
}

// Parse decodes a document.
func Parse(data []byte) (*Document, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Join(errors.New("couldn't decode document"), err)
	}

	if raw.Statement.Kind == 0 {
		return nil, errors.New("document has no statement")
	}

	p := newParser()
	if err := p.declareAll(raw.References); err != nil {
		return nil, err
	}

	statement, err := p.statement(&raw.Statement, "statement")
	if err != nil {
		return nil, err
	}

	return &Document{
		Name:       raw.Name,
		Statement:  statement,
		References: p.refs,
	}, nil
}

/*
Package translator provides translations from clause trees to concrete queries.

The translator package holds everything related to clause tree nodes ([Clause])
and handles the compilation of a tree into query text. Every compilation
owns exactly one [Environment], which assigns labels to references and keys to
parameters in the order they are first encountered.
*/
package translator

import (
	"fmt"
	"strings"

	"github.com/Anon10214/cypherc/models/opencypher/config"
	"github.com/sirupsen/logrus"
)

// A Clause from a query, makes up an element in the clause tree
type Clause interface {
	// Returns the clause's subclauses in the order they appear in the query text
	Subclauses() []Clause
}

// A Templater is a clause that combines its subclauses in a non-straightforward way.
type Templater interface {
	Clause
	// The template string as passed to fmt.Sprintf with the compiled subclauses as arguments
	TemplateString() string
}

// A Resolver is a clause whose text depends on the compile environment.
//
// References and parameters are resolvers, as are clauses which have to
// post-process the text of their subclauses.
// The subclauses of a resolver are not compiled by the translator, the resolver
// has to do so itself using [Compile].
type Resolver interface {
	Clause
	// Returns the clause's text, consulting the environment
	Resolve(*Environment) string
}

// Result of a build, the query text and the parameters it references.
type Result struct {
	Text   string         `yaml:"text"`
	Params map[string]any `yaml:"params"`
}

// Build compiles the passed clause tree using a fresh [Environment] created from the passed config.
//
// Building never fails for a config passing [config.Config.Validate]. Two builds of structurally identical trees return identical results,
// since labels and keys are local to a single build.
func Build(root Clause, conf config.Config) Result {
	env := NewEnvironment(conf)
	text := Compile(env, root)
	logrus.Tracef("Built query with %d parameters", len(env.params))
	return Result{
		Text:   text,
		Params: env.Parameters(),
	}
}

// Compile returns the text of the passed clause, compiling its subclauses depth first
// from left to right against the passed environment.
//
// A nil clause compiles to the empty string.
func Compile(env *Environment, clause Clause) string {
	if clause == nil {
		return ""
	}

	if resolver, ok := clause.(Resolver); ok {
		return resolver.Resolve(env)
	}

	logrus.Tracef("Compiling %T", clause)

	subclauses := clause.Subclauses()

	// Get the template string, simply combining subclauses if none is given
	var templateString string
	switch c := clause.(type) {
	case Templater:
		templateString = c.TemplateString()
	default:
		templateString = strings.Repeat("%s", len(subclauses))
	}

	subclausesAsStrings := make([]any, 0, len(subclauses)) // Needs to be of type []any s.t. fmt.Sprintf can accept it
	for _, subclause := range subclauses {
		subclausesAsStrings = append(subclausesAsStrings, Compile(env, subclause))
	}

	logrus.Tracef("Done compiling %T", clause)

	return fmt.Sprintf(templateString, subclausesAsStrings...)
}

// EscapeTemplate escapes the passed string so it can be embedded into a template string verbatim.
func EscapeTemplate(val string) string {
	return strings.ReplaceAll(val, "%", "%%")
}

package translator

import (
	"github.com/Anon10214/cypherc/models/opencypher/config"
	"github.com/sirupsen/logrus"
)

// A Kind is the semantic kind of a [Reference].
type Kind int

const (
	// NodeKind references a node of a pattern
	NodeKind Kind = iota
	// RelationshipKind references a relationship of a pattern
	RelationshipKind
	// VariableKind references a plain variable, e.g. a projection alias
	VariableKind
	// PathKind references a whole path a pattern got bound to
	PathKind
)

// ToString converts a kind to its human-readable string representation
func (k Kind) ToString() string {
	switch k {
	case NodeKind:
		return "node"
	case RelationshipKind:
		return "relationship"
	case VariableKind:
		return "variable"
	case PathKind:
		return "path"
	}
	return "UNDEFINED KIND"
}

// A Reference is a handle to a graph element or a variable.
//
// It has no text form of its own, its label gets assigned by the [Environment]
// of the compilation it appears in. References are compared by identity,
// so every reference must be created using one of the constructors and then
// passed around by pointer.
type Reference struct {
	kind   Kind
	prefix string
}

// NewReference returns a new reference of the passed kind.
func NewReference(kind Kind) *Reference {
	return &Reference{kind: kind}
}

// NewReferenceWithPrefix returns a new reference of the passed kind whose label will start with the passed prefix.
// Panics if the prefix is not accepted by [config.IsPrefix].
func NewReferenceWithPrefix(kind Kind, prefix string) *Reference {
	mustBePrefix(prefix)
	return &Reference{kind: kind, prefix: prefix}
}

// NewNode returns a new node reference.
func NewNode() *Reference { return NewReference(NodeKind) }

// NewRelationship returns a new relationship reference.
func NewRelationship() *Reference { return NewReference(RelationshipKind) }

// NewVariable returns a new variable reference.
func NewVariable() *Reference { return NewReference(VariableKind) }

// NewPath returns a new path reference.
func NewPath() *Reference { return NewReference(PathKind) }

// Kind returns the reference's kind.
func (r *Reference) Kind() Kind {
	return r.kind
}

// Prefix returns the suggested label prefix, or the empty string if the default for the kind is used.
func (r *Reference) Prefix() string {
	return r.prefix
}

// Subclauses of a reference, always nil
func (r *Reference) Subclauses() []Clause {
	return nil
}

// Resolve returns the reference's label, a nil reference resolves to the empty string.
func (r *Reference) Resolve(env *Environment) string {
	if r == nil {
		return ""
	}
	return env.LabelFor(r)
}

// A Param wraps a literal value which is passed to the database separately from the query text.
//
// Like references, params are compared by identity. Two params holding equal
// values still receive distinct keys.
type Param struct {
	value  any
	prefix string
}

// NewParam returns a new param holding the passed value.
func NewParam(value any) *Param {
	return &Param{value: value}
}

// NewParamWithPrefix returns a new param holding the passed value whose key will start with the passed prefix.
// Panics if the prefix is not accepted by [config.IsPrefix].
func NewParamWithPrefix(value any, prefix string) *Param {
	mustBePrefix(prefix)
	return &Param{value: value, prefix: prefix}
}

// mustBePrefix panics on a non-empty prefix which isn't a valid prefix.
// The empty prefix stands for the default of the config.
func mustBePrefix(prefix string) {
	if prefix != "" && !config.IsPrefix(prefix) {
		logrus.Panicf("%v: %q", config.ErrInvalidPrefix, prefix)
	}
}

// Value returns the param's value.
func (p *Param) Value() any {
	return p.value
}

// Subclauses of a param, always nil
func (p *Param) Subclauses() []Clause {
	return nil
}

// Resolve returns the placeholder for the param, its key prefixed with a dollar sign.
func (p *Param) Resolve(env *Environment) string {
	return "$" + env.KeyFor(p)
}

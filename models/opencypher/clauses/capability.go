package clauses

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Anon10214/cypherc/translator"
	"github.com/Anon10214/cypherc/translator/helperclauses"
	"github.com/sirupsen/logrus"
)

// A Capability is an optional grammar fragment a clause variant may support.
//
// The value of a capability is its slot, populated fragments are rendered in
// the order of their variant's manifest.
type Capability int

const (
	// PathAssign binds the clause's pattern to a path variable, `p0 = (...)`
	PathAssign Capability = iota
	// Where filters the matched rows
	Where
	// Set mutates properties
	Set
	// Remove removes properties or labels
	Remove
	// Delete deletes nodes or relationships
	Delete
	// With projects rows into the next query part
	With
	// Return projects the rows returned by the query
	Return
)

// ToString converts a capability to its human-readable string representation
func (c Capability) ToString() string {
	switch c {
	case PathAssign:
		return "path"
	case Where:
		return "where"
	case Set:
		return "set"
	case Remove:
		return "remove"
	case Delete:
		return "delete"
	case With:
		return "with"
	case Return:
		return "return"
	}
	return "UNDEFINED CAPABILITY"
}

// ParseCapability returns the capability whose string representation equals the passed string.
func ParseCapability(s string) (Capability, error) {
	for c := PathAssign; c <= Return; c++ {
		if strings.EqualFold(c.ToString(), s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown capability %q", s)
}

// UnsupportedCapabilityError is returned when a capability gets invoked on a clause
// variant whose manifest doesn't declare it.
type UnsupportedCapabilityError struct {
	Clause     string
	Capability Capability
}

func (e *UnsupportedCapabilityError) Error() string {
	return fmt.Sprintf("%s clause does not support %s", e.Clause, e.Capability.ToString())
}

// A Composite is a clause variant assembled from a mandatory base and optional capabilities.
type Composite interface {
	translator.Clause
	// Manifest returns the capabilities the variant supports, in the order they are rendered
	Manifest() []Capability
	// Supports returns true if the capability is part of the variant's manifest
	Supports(Capability) bool

	fragmentSet() *fragments
}

// fragments holds the populated capabilities of a single clause.
type fragments struct {
	// The clause name used in errors
	name     string
	manifest []Capability

	populated map[Capability]translator.Clause
}

func newFragments(name string, manifest ...Capability) fragments {
	return fragments{
		name:      name,
		manifest:  manifest,
		populated: make(map[Capability]translator.Clause),
	}
}

// Manifest returns the capabilities the clause supports, in the order they are rendered
func (f *fragments) Manifest() []Capability {
	return slices.Clone(f.manifest)
}

// Supports returns true if the capability is part of the clause's manifest
func (f *fragments) Supports(c Capability) bool {
	return slices.Contains(f.manifest, c)
}

func (f *fragments) fragmentSet() *fragments {
	return f
}

// populate replaces the fragment of the passed capability with the result of merge,
// which gets passed the currently populated fragment or nil.
func (f *fragments) populate(c Capability, merge func(existing translator.Clause) translator.Clause) error {
	if !f.Supports(c) {
		return &UnsupportedCapabilityError{Clause: f.name, Capability: c}
	}
	f.populated[c] = merge(f.populated[c])
	return nil
}

// must is used by the typed builders of a variant, which only exist for declared capabilities.
func must(err error) {
	if err != nil {
		logrus.Panicf("Populating a declared capability failed: %v", err)
	}
}

// pathPrefix returns the path assignment, which is rendered in front of the pattern.
func (f *fragments) pathPrefix() translator.Clause {
	if path, ok := f.populated[PathAssign]; ok {
		return path
	}
	return &helperclauses.EmptyClause{}
}

// trailing returns the populated fragments following the pattern, in manifest order.
// Each fragment is preceded by a line break, unless it compiles to the empty string.
func (f *fragments) trailing() []translator.Clause {
	var subclauses []translator.Clause
	for _, c := range f.manifest {
		if c == PathAssign {
			continue
		}
		if fragment, ok := f.populated[c]; ok {
			subclauses = append(subclauses, helperclauses.CreatePrefixed("\n", fragment))
		}
	}
	return subclauses
}

// Fragment returns the populated fragment of the passed capability, or nil if it is absent.
func Fragment(c Composite, capability Capability) translator.Clause {
	return c.fragmentSet().populated[capability]
}

// AddWhere conjoins the predicate to the clause's filter, creating the filter if absent.
func AddWhere(c Composite, predicate Expression) error {
	return c.fragmentSet().populate(Where, func(existing translator.Clause) translator.Clause {
		return mergeWhere(existing, predicate, andOperator)
	})
}

// AddOrWhere disjoins the predicate to the clause's filter, creating the filter if absent.
func AddOrWhere(c Composite, predicate Expression) error {
	return c.fragmentSet().populate(Where, func(existing translator.Clause) translator.Clause {
		return mergeWhere(existing, predicate, orOperator)
	})
}

// AddSet appends the items to the clause's SET fragment.
func AddSet(c Composite, items ...SetItem) error {
	return c.fragmentSet().populate(Set, func(existing translator.Clause) translator.Clause {
		set, _ := existing.(*SetClause)
		if set == nil {
			set = &SetClause{}
		}
		set.items = append(set.items, items...)
		return set
	})
}

// SetRemove replaces the clause's REMOVE fragment.
func SetRemove(c Composite, targets ...Expression) error {
	return c.fragmentSet().populate(Remove, func(translator.Clause) translator.Clause {
		return &RemoveClause{targets: targets}
	})
}

// SetDelete replaces the clause's DELETE fragment.
func SetDelete(c Composite, detach bool, targets ...Expression) error {
	return c.fragmentSet().populate(Delete, func(translator.Clause) translator.Clause {
		return &DeleteClause{targets: targets, detach: detach}
	})
}

// SetWith replaces the clause's WITH fragment. A nil projection projects everything.
func SetWith(c Composite, projection *Projection) error {
	if projection == nil {
		projection = Project()
	}
	return c.fragmentSet().populate(With, func(translator.Clause) translator.Clause {
		return &WithClause{projection: projection}
	})
}

// SetReturn replaces the clause's RETURN fragment. A nil projection projects everything.
func SetReturn(c Composite, projection *Projection) error {
	if projection == nil {
		projection = Project()
	}
	return c.fragmentSet().populate(Return, func(translator.Clause) translator.Clause {
		return &ReturnClause{projection: projection}
	})
}

// SetPath binds the clause's pattern to the passed path reference.
func SetPath(c Composite, path *translator.Reference) error {
	if path == nil {
		return errors.New("path reference must not be nil")
	}
	return c.fragmentSet().populate(PathAssign, func(translator.Clause) translator.Clause {
		return &PathAssignment{path: path}
	})
}

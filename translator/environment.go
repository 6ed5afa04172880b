package translator

import (
	"maps"
	"strconv"

	"github.com/Anon10214/cypherc/models/opencypher/config"
	"github.com/sirupsen/logrus"
)

// The Environment of a single compilation.
//
// It assigns labels to references and keys to parameters. Both are drawn from
// one shared counter, so identifiers interleave in the order they are first
// encountered. Lookups are keyed by identity: two distinct references with the
// same content always receive distinct labels.
//
// An environment is append-only and must not be shared between concurrent compilations.
type Environment struct {
	conf config.Config

	// The next index to allocate
	counter int

	labels map[*Reference]string
	keys   map[*Param]string

	// The resulting parameter map, keyed by allocated parameter key
	params map[string]any
}

// NewEnvironment returns a fresh environment using the passed naming config.
// Empty prefixes in the config are replaced by their defaults.
//
// Panics if the config doesn't pass [config.Config.Validate], its labels could collide otherwise.
func NewEnvironment(conf config.Config) *Environment {
	if err := conf.Validate(); err != nil {
		logrus.Panicf("Invalid naming config: %v", err)
	}
	return &Environment{
		conf:   conf.WithDefaults(),
		labels: make(map[*Reference]string),
		keys:   make(map[*Param]string),
		params: make(map[string]any),
	}
}

// LabelFor returns the label of the passed reference.
//
// If the reference was already encountered during this compilation, the memoized
// label is returned. Otherwise the next index gets allocated.
func (e *Environment) LabelFor(ref *Reference) string {
	if label, ok := e.labels[ref]; ok {
		return label
	}

	prefix := ref.prefix
	if prefix == "" {
		prefix = e.prefixForKind(ref.kind)
	}

	label := e.allocate(prefix)
	e.labels[ref] = label
	logrus.Tracef("Allocated label %s for %s reference", label, ref.kind.ToString())
	return label
}

// KeyFor returns the parameter key of the passed param, registering its value
// in the parameter map the first time the param is encountered.
//
// Params are never deduplicated by value.
func (e *Environment) KeyFor(param *Param) string {
	if key, ok := e.keys[param]; ok {
		return key
	}

	prefix := param.prefix
	if prefix == "" {
		prefix = e.conf.ParamPrefix
	}

	key := e.allocate(prefix)
	e.keys[param] = key
	e.params[key] = param.value
	logrus.Tracef("Allocated parameter key %s", key)
	return key
}

// Parameters returns a copy of the parameters registered so far.
// The returned map is never nil.
func (e *Environment) Parameters() map[string]any {
	return maps.Clone(e.params)
}

// allocate returns the identifier for the next index, using the passed prefix.
func (e *Environment) allocate(prefix string) string {
	index := e.counter
	e.counter++

	if index == 0 && e.conf.UnsuffixedFirst {
		return prefix
	}
	return prefix + strconv.Itoa(index)
}

func (e *Environment) prefixForKind(kind Kind) string {
	switch kind {
	case NodeKind:
		return e.conf.NodePrefix
	case RelationshipKind:
		return e.conf.RelationshipPrefix
	case PathKind:
		return e.conf.PathPrefix
	}
	return e.conf.VariablePrefix
}

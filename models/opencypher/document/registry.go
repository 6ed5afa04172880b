package document

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Anon10214/cypherc/models/opencypher/config"
	"github.com/Anon10214/cypherc/translator"
)

var kinds = []translator.Kind{translator.NodeKind, translator.RelationshipKind, translator.VariableKind, translator.PathKind}

// ParseKind returns the reference kind whose string representation equals the passed string.
func ParseKind(s string) (translator.Kind, error) {
	for _, kind := range kinds {
		if strings.EqualFold(kind.ToString(), s) {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown reference kind %q", s)
}

// parser holds the state of decoding a single document.
type parser struct {
	refs map[string]*translator.Reference
	// Names whose kind was fixed by their first use inside an expression
	implied map[string]bool
}

func newParser() *parser {
	return &parser{
		refs:    make(map[string]*translator.Reference),
		implied: make(map[string]bool),
	}
}

func (p *parser) declareAll(declarations map[string]rawReference) error {
	// Sorted for deterministic error messages
	names := make([]string, 0, len(declarations))
	for name := range declarations {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		declaration := declarations[name]
		kind, err := ParseKind(declaration.Kind)
		if err != nil {
			return fmt.Errorf("references.%s: %w", name, err)
		}
		if declaration.Prefix != "" && !config.IsPrefix(declaration.Prefix) {
			return fmt.Errorf("references.%s: %w %q, must be an identifier not ending in a digit", name, config.ErrInvalidPrefix, declaration.Prefix)
		}
		p.refs[name] = translator.NewReferenceWithPrefix(kind, declaration.Prefix)
	}
	return nil
}

// reference returns the reference of the passed name, declaring it with the passed kind on first use.
func (p *parser) reference(name string, kind translator.Kind) (*translator.Reference, error) {
	if ref, ok := p.refs[name]; ok {
		if ref.Kind() != kind {
			if p.implied[name] {
				return nil, fmt.Errorf("%w: %q was first used in an expression, which made it a %s, used as a %s (declare it under references with kind %s)",
					ErrKindMismatch, name, ref.Kind().ToString(), kind.ToString(), kind.ToString())
			}
			return nil, fmt.Errorf("%w: %q is a %s, used as a %s", ErrKindMismatch, name, ref.Kind().ToString(), kind.ToString())
		}
		return ref, nil
	}
	ref := translator.NewReference(kind)
	p.refs[name] = ref
	return ref, nil
}

// anyReference returns the reference of the passed name, declaring it as a variable on first use.
// Expressions don't imply a kind, so any kind is accepted.
func (p *parser) anyReference(name string) *translator.Reference {
	if ref, ok := p.refs[name]; ok {
		return ref
	}
	ref := translator.NewVariable()
	p.refs[name] = ref
	p.implied[name] = true
	return ref
}

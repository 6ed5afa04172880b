/*
Package helperclauses provides clauses that simplify the modelling of new clauses.

These clauses are not specific to any clause type and don't consult the
compile environment on their own, unless subclauses with such behavior are supplied.
*/
package helperclauses

import (
	"strings"

	"github.com/Anon10214/cypherc/translator"
)

// The EmptyClause simply results in an empty string during compilation.
type EmptyClause struct{}

// Subclauses of the EmptyClause, always nil
func (c *EmptyClause) Subclauses() []translator.Clause {
	return nil
}

// A Stringer has no subclauses and simply returns the saved string as its template string.
type Stringer struct {
	value string
}

// CreateStringer returns a stringer compiling to the passed string.
func CreateStringer(val string) *Stringer {
	return &Stringer{value: translator.EscapeTemplate(val)}
}

// Subclauses of the Stringer, always nil
func (c Stringer) Subclauses() []translator.Clause {
	return nil
}

// TemplateString returns the Stringer's template string, which is just its associated value
func (c Stringer) TemplateString() string {
	return c.value
}

// An Assembler returns the provided subclauses during compilation and the provided template string when prompted.
type Assembler struct {
	subclauses     []translator.Clause
	templateString string
}

// CreateAssembler returns an assembler given the passed subclauses and template string
func CreateAssembler(templateString string, subclauses ...translator.Clause) *Assembler {
	return &Assembler{
		subclauses:     subclauses,
		templateString: templateString,
	}
}

// CreateAssemblerWithoutTemplateString returns an assembler whose compiled result will consist of the subclauses concatenated.
func CreateAssemblerWithoutTemplateString(subclauses ...translator.Clause) *Assembler {
	return &Assembler{
		subclauses:     subclauses,
		templateString: strings.Repeat("%s", len(subclauses)),
	}
}

// Subclauses returns the subclauses the assembler was initialized with.
func (c Assembler) Subclauses() []translator.Clause {
	return c.subclauses
}

// TemplateString returns the template string the assembler was initialized with.
func (c Assembler) TemplateString() string {
	return c.templateString
}

// A Joiner joins its compiled subclauses with a separator.
type Joiner struct {
	subclauses []translator.Clause
	separator  string
}

// CreateJoiner returns a joiner separating the passed subclauses with the passed separator.
func CreateJoiner(separator string, subclauses ...translator.Clause) *Joiner {
	return &Joiner{
		subclauses: subclauses,
		separator:  separator,
	}
}

// Subclauses returns the subclauses the joiner was initialized with.
func (c Joiner) Subclauses() []translator.Clause {
	return c.subclauses
}

// TemplateString for Joiner
func (c Joiner) TemplateString() string {
	placeholders := make([]string, len(c.subclauses))
	for i := range placeholders {
		placeholders[i] = "%s"
	}
	return strings.Join(placeholders, translator.EscapeTemplate(c.separator))
}

// A Prefixed clause puts a prefix in front of its subclause, but only if the subclause compiles to a non-empty string.
//
// Clauses use this for optional fragments, where the separator must vanish together with the fragment.
type Prefixed struct {
	prefix string
	clause translator.Clause
}

// CreatePrefixed returns a clause compiling to the prefix followed by the passed clause,
// or to the empty string if the passed clause compiles to the empty string.
func CreatePrefixed(prefix string, clause translator.Clause) *Prefixed {
	return &Prefixed{
		prefix: prefix,
		clause: clause,
	}
}

// Subclauses of the Prefixed clause, the clause it wraps
func (c Prefixed) Subclauses() []translator.Clause {
	return []translator.Clause{c.clause}
}

// Resolve compiles the wrapped clause and prepends the prefix if the result is not empty.
func (c Prefixed) Resolve(env *translator.Environment) string {
	compiled := translator.Compile(env, c.clause)
	if compiled == "" {
		return ""
	}
	return c.prefix + compiled
}

// A HookClause calls provided hooks. It is supposed to be used for testing.
type HookClause struct {
	SubclausesHook     func() []translator.Clause
	TemplateStringHook func() string
}

// Subclauses returns nil and calls the SubclausesHook if defined
func (c HookClause) Subclauses() []translator.Clause {
	if c.SubclausesHook != nil {
		return c.SubclausesHook()
	}
	return nil
}

// TemplateString returns the empty string and calls the TemplateStringHook if defined.
func (c HookClause) TemplateString() string {
	if c.TemplateStringHook != nil {
		return c.TemplateStringHook()
	}
	return ""
}

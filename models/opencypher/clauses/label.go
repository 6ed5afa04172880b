package clauses

import (
	"strings"

	"github.com/Anon10214/cypherc/translator"
)

// A LabelExpression attaches labels to a reference, `this0:Movie:Film`
//
// In a WHERE it checks for the labels, in a SET it adds them and in a REMOVE it removes them.
type LabelExpression struct {
	subject Expression
	labels  []string
}

// HasLabels returns a predicate checking whether the subject carries all passed labels.
func HasLabels(subject Expression, labels ...string) *LabelExpression {
	return &LabelExpression{subject: subject, labels: labels}
}

// LabelsOf returns the labels of the subject as a REMOVE or SET target.
func LabelsOf(subject Expression, labels ...string) *LabelExpression {
	return HasLabels(subject, labels...)
}

// Subclauses of LabelExpression
func (c LabelExpression) Subclauses() []translator.Clause {
	return []translator.Clause{c.subject}
}

// TemplateString for LabelExpression
func (c LabelExpression) TemplateString() string {
	return "%s" + labelList(c.labels, ":")
}

// labelList renders the names, each preceded by a colon and joined by the separator,
// `:Movie:Film` for labels and `:ACTED_IN|DIRECTED` for relationship types.
func labelList(names []string, separator string) string {
	if len(names) == 0 {
		return ""
	}
	escaped := make([]string, len(names))
	for i, name := range names {
		escaped[i] = escapeName(name)
	}
	return ":" + strings.Join(escaped, separator)
}

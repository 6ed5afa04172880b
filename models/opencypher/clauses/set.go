package clauses

import (
	"strings"

	"github.com/Anon10214/cypherc/translator"
)

// A SetItem is a single mutation of a SET clause.
type SetItem struct {
	target Expression
	// Nil for label items
	value Expression
}

// Assign returns an item setting the target to the value, `this0.title = $param1`
func Assign(target, value Expression) SetItem {
	return SetItem{target: target, value: value}
}

// AssignParam returns an item setting the named property of the subject to a fresh parameter.
func AssignParam(subject Expression, property string, value any) SetItem {
	return Assign(Property(subject, property), translator.NewParam(value))
}

// AddLabels returns an item adding the labels to the subject, `this0:Movie`
func AddLabels(subject Expression, labels ...string) SetItem {
	return SetItem{target: LabelsOf(subject, labels...)}
}

// A SetClause mutates properties and labels, `SET this0.title = $param1, this0:Movie`
type SetClause struct {
	items []SetItem
}

// Subclauses of SetClause
func (c SetClause) Subclauses() []translator.Clause {
	var subclauses []translator.Clause
	for _, item := range c.items {
		subclauses = append(subclauses, item.target)
		if item.value != nil {
			subclauses = append(subclauses, item.value)
		}
	}
	return subclauses
}

// TemplateString for SetClause
func (c SetClause) TemplateString() string {
	if len(c.items) == 0 {
		return ""
	}
	items := make([]string, len(c.items))
	for i, item := range c.items {
		if item.value == nil {
			items[i] = "%s"
		} else {
			items[i] = "%s = %s"
		}
	}
	return "SET " + strings.Join(items, ", ")
}

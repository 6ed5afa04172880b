package clauses

import (
	"strings"

	"github.com/Anon10214/cypherc/translator"
)

// A ProjectionItem is a single projected expression, optionally aliased.
type ProjectionItem struct {
	expr  Expression
	alias *translator.Reference
}

// Item projects the expression as it is.
func Item(expr Expression) ProjectionItem {
	return ProjectionItem{expr: expr}
}

// As projects the expression under the alias, `this0 AS var1`
//
// Pass the same alias to every branch of a union to align their projections.
func As(expr Expression, alias *translator.Reference) ProjectionItem {
	return ProjectionItem{expr: expr, alias: alias}
}

type sortItem struct {
	expr       Expression
	descending bool
}

// A Projection is the body shared by RETURN and WITH.
//
// A projection without items projects everything, `RETURN *`
type Projection struct {
	items    []ProjectionItem
	distinct bool
	orderBy  []sortItem
	skip     *translator.Param
	limit    *translator.Param
}

// Project returns a projection of the passed items.
func Project(items ...ProjectionItem) *Projection {
	return &Projection{items: items}
}

// Distinct removes duplicate rows from the projection
func (p *Projection) Distinct() *Projection {
	p.distinct = true
	return p
}

// OrderBy sorts the projected rows ascending by the expression, after all previously passed sort keys.
func (p *Projection) OrderBy(expr Expression) *Projection {
	p.orderBy = append(p.orderBy, sortItem{expr: expr})
	return p
}

// OrderByDesc sorts the projected rows descending by the expression, after all previously passed sort keys.
func (p *Projection) OrderByDesc(expr Expression) *Projection {
	p.orderBy = append(p.orderBy, sortItem{expr: expr, descending: true})
	return p
}

// Skip skips the first n rows, n is passed as a parameter
func (p *Projection) Skip(n int) *Projection {
	p.skip = translator.NewParam(n)
	return p
}

// Limit limits the projection to n rows, n is passed as a parameter
func (p *Projection) Limit(n int) *Projection {
	p.limit = translator.NewParam(n)
	return p
}

// Subclauses of Projection
func (p Projection) Subclauses() []translator.Clause {
	var subclauses []translator.Clause
	for _, item := range p.items {
		subclauses = append(subclauses, item.expr)
		if item.alias != nil {
			subclauses = append(subclauses, item.alias)
		}
	}
	for _, item := range p.orderBy {
		subclauses = append(subclauses, item.expr)
	}
	if p.skip != nil {
		subclauses = append(subclauses, p.skip)
	}
	if p.limit != nil {
		subclauses = append(subclauses, p.limit)
	}
	return subclauses
}

// TemplateString for Projection
func (p Projection) TemplateString() string {
	var sb strings.Builder

	if p.distinct {
		sb.WriteString("DISTINCT ")
	}

	if len(p.items) == 0 {
		sb.WriteString("*")
	}
	for i, item := range p.items {
		if i > 0 {
			sb.WriteString(", ")
		}
		if item.alias != nil {
			sb.WriteString("%s AS %s")
		} else {
			sb.WriteString("%s")
		}
	}

	for i, item := range p.orderBy {
		if i == 0 {
			sb.WriteString("\nORDER BY ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString("%s")
		if item.descending {
			sb.WriteString(" DESC")
		}
	}

	if p.skip != nil {
		sb.WriteString("\nSKIP %s")
	}
	if p.limit != nil {
		sb.WriteString("\nLIMIT %s")
	}

	return sb.String()
}

// A ReturnClause projects the rows returned by the query, `RETURN this0 AS var1`
type ReturnClause struct {
	projection *Projection
}

// Subclauses of ReturnClause
func (c ReturnClause) Subclauses() []translator.Clause {
	return []translator.Clause{c.projection}
}

// TemplateString for ReturnClause
func (c ReturnClause) TemplateString() string {
	return "RETURN %s"
}

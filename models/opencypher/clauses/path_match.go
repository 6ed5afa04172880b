package clauses

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Anon10214/cypherc/translator"
	"github.com/sirupsen/logrus"
)

// A Direction of a relationship pattern
type Direction int

const (
	// Right renders as `-[]->`
	Right Direction = iota
	// Left renders as `<-[]-`
	Left
	// Undirected renders as `-[]-`
	Undirected
)

// ErrInvalidDirection is returned when parsing an unknown direction.
var ErrInvalidDirection = errors.New("invalid relationship direction")

// ErrInvalidLength is returned for a variable length whose lower bound exceeds its upper bound.
var ErrInvalidLength = errors.New("invalid relationship length")

// ValidateLength checks the bounds as passed to [RelationshipPattern.Length].
func ValidateLength(minHops, maxHops int) error {
	if minHops >= 0 && maxHops >= 0 && minHops > maxHops {
		return fmt.Errorf("%w: lower bound %d exceeds upper bound %d", ErrInvalidLength, minHops, maxHops)
	}
	return nil
}

// ToString converts a direction to its human-readable string representation
func (d Direction) ToString() string {
	switch d {
	case Right:
		return "right"
	case Left:
		return "left"
	case Undirected:
		return "undirected"
	}
	return "UNDEFINED DIRECTION"
}

// ParseDirection returns the direction whose string representation equals the passed string.
func ParseDirection(s string) (Direction, error) {
	for d := Right; d <= Undirected; d++ {
		if strings.EqualFold(d.ToString(), s) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

type propertyConstraint struct {
	name  string
	value *translator.Param
}

// propertyMap returns the template of the property constraints, ` {title: %s, released: %s}`
// The leading space is omitted if nothing precedes the map.
func propertyMap(properties []propertyConstraint, leadingSpace bool) string {
	if len(properties) == 0 {
		return ""
	}
	entries := make([]string, len(properties))
	for i, property := range properties {
		entries[i] = escapeName(property.name) + ": %s"
	}
	templateString := "{" + strings.Join(entries, ", ") + "}"
	if leadingSpace {
		templateString = " " + templateString
	}
	return templateString
}

func propertyValues(properties []propertyConstraint) []translator.Clause {
	values := make([]translator.Clause, len(properties))
	for i, property := range properties {
		values[i] = property.value
	}
	return values
}

// A NodePattern matches a single node, `(this0:Movie {title: $param1})`
type NodePattern struct {
	ref        *translator.Reference
	labels     []string
	properties []propertyConstraint
}

// Node returns a node pattern bound to the passed reference. A nil reference leaves the node anonymous.
func Node(ref *translator.Reference) *NodePattern {
	return &NodePattern{ref: ref}
}

// Labels appends label constraints to the node
func (n *NodePattern) Labels(labels ...string) *NodePattern {
	n.labels = append(n.labels, labels...)
	return n
}

// Property appends a property equality constraint, the value is passed as a fresh parameter.
func (n *NodePattern) Property(name string, value any) *NodePattern {
	return n.PropertyParam(name, translator.NewParam(value))
}

// PropertyParam appends a property equality constraint using the passed parameter.
func (n *NodePattern) PropertyParam(name string, param *translator.Param) *NodePattern {
	n.properties = append(n.properties, propertyConstraint{name: name, value: param})
	return n
}

// Ref returns the reference the node is bound to
func (n *NodePattern) Ref() *translator.Reference {
	return n.ref
}

// Subclauses of NodePattern
func (n NodePattern) Subclauses() []translator.Clause {
	return append([]translator.Clause{n.ref}, propertyValues(n.properties)...)
}

// TemplateString for NodePattern
func (n NodePattern) TemplateString() string {
	return "(%s" + labelList(n.labels, ":") + propertyMap(n.properties, n.ref != nil || len(n.labels) > 0) + ")"
}

// A RelationshipPattern matches a single relationship, `-[this1:ACTED_IN]->`
type RelationshipPattern struct {
	ref        *translator.Reference
	types      []string
	properties []propertyConstraint
	direction  Direction
	// Negative bounds are left open
	minHops, maxHops int
	variable         bool
}

// Relationship returns a relationship pattern bound to the passed reference, pointing right.
// A nil reference leaves the relationship anonymous.
func Relationship(ref *translator.Reference) *RelationshipPattern {
	return &RelationshipPattern{ref: ref, direction: Right}
}

// Types appends type alternatives to the relationship, `:ACTED_IN|DIRECTED`
func (r *RelationshipPattern) Types(types ...string) *RelationshipPattern {
	r.types = append(r.types, types...)
	return r
}

// Property appends a property equality constraint, the value is passed as a fresh parameter.
func (r *RelationshipPattern) Property(name string, value any) *RelationshipPattern {
	return r.PropertyParam(name, translator.NewParam(value))
}

// PropertyParam appends a property equality constraint using the passed parameter.
func (r *RelationshipPattern) PropertyParam(name string, param *translator.Param) *RelationshipPattern {
	r.properties = append(r.properties, propertyConstraint{name: name, value: param})
	return r
}

// Direction sets the direction of the relationship, panics on values other than Right, Left and Undirected.
func (r *RelationshipPattern) Direction(direction Direction) *RelationshipPattern {
	if direction < Right || direction > Undirected {
		logrus.Panicf("%v: %d", ErrInvalidDirection, direction)
	}
	r.direction = direction
	return r
}

// Length makes the relationship variable length, `*1..3`
// Pass a negative bound to leave it open, `Length(2, -1)` renders as `*2..`
// Panics if the bounds are rejected by [ValidateLength].
func (r *RelationshipPattern) Length(minHops, maxHops int) *RelationshipPattern {
	if err := ValidateLength(minHops, maxHops); err != nil {
		logrus.Panic(err)
	}
	r.variable = true
	r.minHops = minHops
	r.maxHops = maxHops
	return r
}

// Ref returns the reference the relationship is bound to
func (r *RelationshipPattern) Ref() *translator.Reference {
	return r.ref
}

// Subclauses of RelationshipPattern
func (r RelationshipPattern) Subclauses() []translator.Clause {
	return append([]translator.Clause{r.ref}, propertyValues(r.properties)...)
}

func (r RelationshipPattern) length() string {
	if !r.variable {
		return ""
	}
	if r.minHops < 0 && r.maxHops < 0 {
		return "*"
	}
	length := "*"
	if r.minHops >= 0 {
		length += strconv.Itoa(r.minHops)
	}
	if r.minHops != r.maxHops {
		length += ".."
		if r.maxHops >= 0 {
			length += strconv.Itoa(r.maxHops)
		}
	}
	return length
}

// TemplateString for RelationshipPattern
func (r RelationshipPattern) TemplateString() string {
	start, end := "-", "->"
	switch r.direction {
	case Left:
		start, end = "<-", "-"
	case Undirected:
		end = "-"
	}

	inner := labelList(r.types, "|") + r.length()
	inner += propertyMap(r.properties, r.ref != nil || inner != "")

	if r.ref == nil && inner == "" {
		// Still has to consume the nil reference
		return start + "%s" + end
	}
	return start + "[%s" + inner + "]" + end
}

type hop struct {
	relationship *RelationshipPattern
	node         *NodePattern
}

// A Pattern is a chain of nodes connected by relationships, `(this0)-[this1]->(this2)`
type Pattern struct {
	start *NodePattern
	hops  []hop
}

// NewPattern returns a pattern starting at the passed node, panics if the node is nil.
func NewPattern(start *NodePattern) *Pattern {
	if start == nil {
		logrus.Panicf("A pattern must start with a node")
	}
	return &Pattern{start: start}
}

// Related extends the pattern by a relationship to the next node, panics if either is nil.
func (p *Pattern) Related(relationship *RelationshipPattern, node *NodePattern) *Pattern {
	if relationship == nil || node == nil {
		logrus.Panicf("A pattern hop needs both a relationship and a node")
	}
	p.hops = append(p.hops, hop{relationship: relationship, node: node})
	return p
}

// Subclauses of Pattern, the elements concatenated without separators
func (p Pattern) Subclauses() []translator.Clause {
	subclauses := []translator.Clause{p.start}
	for _, h := range p.hops {
		subclauses = append(subclauses, h.relationship, h.node)
	}
	return subclauses
}

// A PathAssignment binds a pattern to a path variable, `p0 = `
type PathAssignment struct {
	path *translator.Reference
}

// Subclauses of PathAssignment
func (c PathAssignment) Subclauses() []translator.Clause {
	return []translator.Clause{c.path}
}

// TemplateString for PathAssignment
func (c PathAssignment) TemplateString() string {
	return "%s = "
}

package document

import (
	"fmt"
	"strings"

	"github.com/Anon10214/cypherc/models/opencypher/clauses"
	"gopkg.in/yaml.v3"
)

var binaryOperators = map[string]func(left, right clauses.Expression) *clauses.BinaryExpression{
	"eq":         clauses.Eq,
	"neq":        clauses.Neq,
	"lt":         clauses.Lt,
	"lte":        clauses.Lte,
	"gt":         clauses.Gt,
	"gte":        clauses.Gte,
	"in":         clauses.In,
	"contains":   clauses.Contains,
	"startsWith": clauses.StartsWith,
	"endsWith":   clauses.EndsWith,
}

var booleanOperators = map[string]func(operands ...clauses.Expression) *clauses.BooleanExpression{
	"and": clauses.And,
	"or":  clauses.Or,
	"xor": clauses.Xor,
}

var unaryOperators = map[string]func(operand clauses.Expression) *clauses.UnaryExpression{
	"not":       clauses.Not,
	"isNull":    clauses.IsNull,
	"isNotNull": clauses.IsNotNull,
}

// expression decodes an expression.
//
// A string is a name, `m` or `m.title`, any other scalar is passed as a parameter.
// Mappings apply an operator or function, `{gt: [m.released, {param: 1990}]}`
func (p *parser) expression(node *yaml.Node, path string) (clauses.Expression, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!str" {
			expr, err := p.name(node.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: line %d: %w", path, node.Line, err)
			}
			return expr, nil
		}
		return param(node, path)
	case yaml.MappingNode:
		return p.operation(node, path)
	}
	return nil, fmt.Errorf("%s: line %d: expected a name, a scalar or an operation", path, node.Line)
}

func (p *parser) expressions(nodes []yaml.Node, path string) ([]clauses.Expression, error) {
	expressions := make([]clauses.Expression, len(nodes))
	for i := range nodes {
		expr, err := p.expression(&nodes[i], fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		expressions[i] = expr
	}
	return expressions, nil
}

// name decodes a reference, `m`, or a property of a reference, `m.title`
func (p *parser) name(name string) (clauses.Expression, error) {
	refName, property, hasProperty := strings.Cut(name, ".")
	if refName == "" || (hasProperty && property == "") {
		return nil, fmt.Errorf("invalid name %q", name)
	}
	ref := p.anyReference(refName)
	if hasProperty {
		return clauses.Property(ref, property), nil
	}
	return ref, nil
}

func param(node *yaml.Node, path string) (clauses.Expression, error) {
	var value any
	if err := node.Decode(&value); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return clauses.Param(value), nil
}

func (p *parser) operation(node *yaml.Node, path string) (clauses.Expression, error) {
	fields := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i < len(node.Content); i += 2 {
		fields[node.Content[i].Value] = node.Content[i+1]
	}

	// Functions are the only operation with more than one key
	if fn, ok := fields["fn"]; ok {
		return p.function(fn, fields, path)
	}

	key, value, err := singleKey(node, path)
	if err != nil {
		return nil, err
	}
	path += "." + key

	if binary, ok := binaryOperators[key]; ok {
		operands, err := p.operands(value, path)
		if err != nil {
			return nil, err
		}
		if len(operands) != 2 {
			return nil, fmt.Errorf("%s: line %d: expected two operands, got %d", path, value.Line, len(operands))
		}
		return binary(operands[0], operands[1]), nil
	}

	if boolean, ok := booleanOperators[key]; ok {
		operands, err := p.operands(value, path)
		if err != nil {
			return nil, err
		}
		if len(operands) == 0 {
			return nil, fmt.Errorf("%s: line %d: expected at least one operand", path, value.Line)
		}
		return boolean(operands...), nil
	}

	if unary, ok := unaryOperators[key]; ok {
		operand, err := p.expression(value, path)
		if err != nil {
			return nil, err
		}
		return unary(operand), nil
	}

	switch key {
	case "param":
		return param(value, path)
	case "literal":
		return clauses.Literal(value.Value), nil
	case "hasLabels":
		var raw struct {
			Ref    string   `yaml:"ref"`
			Labels []string `yaml:"labels"`
		}
		if err := value.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if raw.Ref == "" || len(raw.Labels) == 0 {
			return nil, fmt.Errorf("%s: line %d: expected a reference and at least one label", path, value.Line)
		}
		return clauses.HasLabels(p.anyReference(raw.Ref), raw.Labels...), nil
	}

	return nil, fmt.Errorf("%s: line %d: unknown operation %q", path, node.Line, key)
}

func (p *parser) operands(node *yaml.Node, path string) ([]clauses.Expression, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%s: line %d: expected a list of operands", path, node.Line)
	}
	operands := make([]clauses.Expression, len(node.Content))
	for i, operandNode := range node.Content {
		operand, err := p.expression(operandNode, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		operands[i] = operand
	}
	return operands, nil
}

// function decodes `{fn: count, args: [m], distinct: true}`
func (p *parser) function(fn *yaml.Node, fields map[string]*yaml.Node, path string) (clauses.Expression, error) {
	path += ".fn"
	for key := range fields {
		if key != "fn" && key != "args" && key != "distinct" {
			return nil, fmt.Errorf("%s: line %d: unexpected key %q in function call", path, fn.Line, key)
		}
	}
	if fn.Kind != yaml.ScalarNode || fn.Value == "" {
		return nil, fmt.Errorf("%s: line %d: expected a function name", path, fn.Line)
	}

	var args []clauses.Expression
	if argsNode, ok := fields["args"]; ok {
		var err error
		if args, err = p.operands(argsNode, path+".args"); err != nil {
			return nil, err
		}
	}

	function := clauses.Function(fn.Value, args...)
	if distinct, ok := fields["distinct"]; ok {
		var isDistinct bool
		if err := distinct.Decode(&isDistinct); err != nil {
			return nil, fmt.Errorf("%s.distinct: %w", path, err)
		}
		if isDistinct {
			function.Distinct()
		}
	}
	return function, nil
}

package document

import (
	"fmt"

	"github.com/Anon10214/cypherc/models/opencypher/clauses"
	"github.com/Anon10214/cypherc/translator"
	"gopkg.in/yaml.v3"
)

type rawElement struct {
	Node         *rawNode         `yaml:"node"`
	Relationship *rawRelationship `yaml:"relationship"`
}

type rawNode struct {
	Ref        string    `yaml:"ref"`
	Labels     []string  `yaml:"labels"`
	Properties yaml.Node `yaml:"properties"`
}

type rawRelationship struct {
	Ref        string    `yaml:"ref"`
	Types      []string  `yaml:"types"`
	Properties yaml.Node `yaml:"properties"`
	Direction  string    `yaml:"direction"`
	Length     *struct {
		Min *int `yaml:"min"`
		Max *int `yaml:"max"`
	} `yaml:"length"`
}

// pattern decodes a chain of alternating nodes and relationships, starting and ending with a node.
func (p *parser) pattern(elements []rawElement, path string) (*clauses.Pattern, error) {
	if len(elements) == 0 {
		return nil, fmt.Errorf("%s: pattern must not be empty", path)
	}
	if len(elements)%2 == 0 {
		return nil, fmt.Errorf("%s: pattern must alternate nodes and relationships, starting and ending with a node", path)
	}

	var pattern *clauses.Pattern
	var relationship *clauses.RelationshipPattern
	for i, element := range elements {
		elementPath := fmt.Sprintf("%s[%d]", path, i)
		if i%2 == 1 {
			if element.Relationship == nil || element.Node != nil {
				return nil, fmt.Errorf("%s: expected a relationship", elementPath)
			}
			var err error
			if relationship, err = p.relationship(element.Relationship, elementPath); err != nil {
				return nil, err
			}
			continue
		}

		if element.Node == nil || element.Relationship != nil {
			return nil, fmt.Errorf("%s: expected a node", elementPath)
		}
		node, err := p.node(element.Node, elementPath)
		if err != nil {
			return nil, err
		}
		if pattern == nil {
			pattern = clauses.NewPattern(node)
		} else {
			pattern.Related(relationship, node)
		}
	}
	return pattern, nil
}

func (p *parser) node(raw *rawNode, path string) (*clauses.NodePattern, error) {
	var ref *translator.Reference
	if raw.Ref != "" {
		var err error
		if ref, err = p.reference(raw.Ref, translator.NodeKind); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	node := clauses.Node(ref).Labels(raw.Labels...)
	err := properties(&raw.Properties, path+".properties", func(name string, value any) {
		node.Property(name, value)
	})
	return node, err
}

func (p *parser) relationship(raw *rawRelationship, path string) (*clauses.RelationshipPattern, error) {
	var ref *translator.Reference
	if raw.Ref != "" {
		var err error
		if ref, err = p.reference(raw.Ref, translator.RelationshipKind); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	relationship := clauses.Relationship(ref).Types(raw.Types...)

	if raw.Direction != "" {
		direction, err := clauses.ParseDirection(raw.Direction)
		if err != nil {
			return nil, fmt.Errorf("%s.direction: %w", path, err)
		}
		relationship.Direction(direction)
	}

	if raw.Length != nil {
		lower, upper := -1, -1
		if raw.Length.Min != nil {
			lower = *raw.Length.Min
		}
		if raw.Length.Max != nil {
			upper = *raw.Length.Max
		}
		if err := clauses.ValidateLength(lower, upper); err != nil {
			return nil, fmt.Errorf("%s.length: %w", path, err)
		}
		relationship.Length(lower, upper)
	}

	err := properties(&raw.Properties, path+".properties", func(name string, value any) {
		relationship.Property(name, value)
	})
	return relationship, err
}

// properties calls add for each entry of the property map, in the order they are declared.
func properties(node *yaml.Node, path string, add func(name string, value any)) error {
	if node.Kind == 0 {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%s: line %d: expected a mapping", path, node.Line)
	}
	for i := 0; i < len(node.Content); i += 2 {
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return fmt.Errorf("%s.%s: %w", path, node.Content[i].Value, err)
		}
		add(node.Content[i].Value, value)
	}
	return nil
}

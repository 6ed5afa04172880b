package document

import (
	"fmt"

	"github.com/Anon10214/cypherc/models/opencypher/clauses"
	"github.com/Anon10214/cypherc/translator"
	"gopkg.in/yaml.v3"
)

type rawUnion struct {
	All      bool        `yaml:"all"`
	Branches []yaml.Node `yaml:"branches"`
}

type rawClause struct {
	Path         string         `yaml:"path"`
	Pattern      []rawElement   `yaml:"pattern"`
	Where        yaml.Node      `yaml:"where"`
	OrWhere      []yaml.Node    `yaml:"orWhere"`
	Set          []rawSetItem   `yaml:"set"`
	Remove       []yaml.Node    `yaml:"remove"`
	Delete       []yaml.Node    `yaml:"delete"`
	DetachDelete []yaml.Node    `yaml:"detachDelete"`
	With         *rawProjection `yaml:"with"`
	Return       *rawProjection `yaml:"return"`
}

type rawSetItem struct {
	Property string    `yaml:"property"`
	Value    yaml.Node `yaml:"value"`
	Labels   *struct {
		Ref    string   `yaml:"ref"`
		Labels []string `yaml:"labels"`
	} `yaml:"labels"`
}

type rawProjection struct {
	Items    []rawItem `yaml:"items"`
	Distinct bool      `yaml:"distinct"`
	OrderBy  []struct {
		Expr yaml.Node `yaml:"expr"`
		Desc bool      `yaml:"desc"`
	} `yaml:"orderBy"`
	Skip  *int `yaml:"skip"`
	Limit *int `yaml:"limit"`
}

type rawItem struct {
	Expr yaml.Node `yaml:"expr"`
	As   string    `yaml:"as"`
}

// statement decodes either a list of clauses or a union.
func (p *parser) statement(node *yaml.Node, path string) (translator.Clause, error) {
	switch node.Kind {
	case yaml.SequenceNode:
		statement := clauses.NewStatement()
		for i, clauseNode := range node.Content {
			clause, err := p.clause(clauseNode, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			statement.Append(clause)
		}
		return statement, nil
	case yaml.MappingNode:
		key, value, err := singleKey(node, path)
		if err != nil {
			return nil, err
		}
		if key != "union" {
			return nil, fmt.Errorf("%s: line %d: expected a list of clauses or a union, got %q", path, node.Line, key)
		}
		return p.union(value, path+".union")
	}
	return nil, fmt.Errorf("%s: line %d: expected a list of clauses or a union", path, node.Line)
}

func (p *parser) union(node *yaml.Node, path string) (translator.Clause, error) {
	var raw rawUnion
	if err := node.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var branches []translator.Clause
	for i := range raw.Branches {
		branch, err := p.statement(&raw.Branches[i], fmt.Sprintf("%s.branches[%d]", path, i))
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}

	union, err := clauses.NewUnion(branches...)
	if err != nil {
		return nil, fmt.Errorf("%s: line %d: %w", path, node.Line, err)
	}
	if raw.All {
		union.All()
	}
	return union, nil
}

// clause decodes a single clause, `{match: {...}}`
func (p *parser) clause(node *yaml.Node, path string) (translator.Clause, error) {
	key, value, err := singleKey(node, path)
	if err != nil {
		return nil, err
	}
	path += "." + key

	var raw rawClause
	if err := value.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	pattern, err := p.pattern(raw.Pattern, path+".pattern")
	if err != nil {
		return nil, err
	}

	var clause clauses.Composite
	switch key {
	case "match":
		clause = clauses.NewMatch(pattern)
	case "optionalMatch":
		clause = clauses.NewOptionalMatch(pattern)
	case "create":
		clause = clauses.NewCreate(pattern)
	case "merge":
		clause = clauses.NewMerge(pattern)
	default:
		return nil, fmt.Errorf("%s: line %d: unknown clause %q", path, node.Line, key)
	}

	if err := p.capabilities(clause, &raw, path); err != nil {
		return nil, err
	}
	return clause, nil
}

// capabilities populates the capabilities present in the raw clause, in manifest order.
func (p *parser) capabilities(clause clauses.Composite, raw *rawClause, path string) error {
	if raw.Path != "" {
		ref, err := p.reference(raw.Path, translator.PathKind)
		if err != nil {
			return fmt.Errorf("%s.path: %w", path, err)
		}
		if err := clauses.SetPath(clause, ref); err != nil {
			return fmt.Errorf("%s.path: %w", path, err)
		}
	}

	if raw.Where.Kind != 0 {
		predicate, err := p.expression(&raw.Where, path+".where")
		if err != nil {
			return err
		}
		if err := clauses.AddWhere(clause, predicate); err != nil {
			return fmt.Errorf("%s.where: %w", path, err)
		}
	}
	for i := range raw.OrWhere {
		itemPath := fmt.Sprintf("%s.orWhere[%d]", path, i)
		predicate, err := p.expression(&raw.OrWhere[i], itemPath)
		if err != nil {
			return err
		}
		if err := clauses.AddOrWhere(clause, predicate); err != nil {
			return fmt.Errorf("%s: %w", itemPath, err)
		}
	}

	if raw.Set != nil {
		items, err := p.setItems(raw.Set, path+".set")
		if err != nil {
			return err
		}
		if err := clauses.AddSet(clause, items...); err != nil {
			return fmt.Errorf("%s.set: %w", path, err)
		}
	}

	if raw.Remove != nil {
		targets, err := p.expressions(raw.Remove, path+".remove")
		if err != nil {
			return err
		}
		if err := clauses.SetRemove(clause, targets...); err != nil {
			return fmt.Errorf("%s.remove: %w", path, err)
		}
	}

	for _, deletion := range []struct {
		key     string
		targets []yaml.Node
		detach  bool
	}{
		{"delete", raw.Delete, false},
		{"detachDelete", raw.DetachDelete, true},
	} {
		if deletion.targets == nil {
			continue
		}
		targets, err := p.expressions(deletion.targets, path+"."+deletion.key)
		if err != nil {
			return err
		}
		if err := clauses.SetDelete(clause, deletion.detach, targets...); err != nil {
			return fmt.Errorf("%s.%s: %w", path, deletion.key, err)
		}
	}

	if raw.With != nil {
		projection, err := p.projection(raw.With, path+".with")
		if err != nil {
			return err
		}
		if err := clauses.SetWith(clause, projection); err != nil {
			return fmt.Errorf("%s.with: %w", path, err)
		}
	}

	if raw.Return != nil {
		projection, err := p.projection(raw.Return, path+".return")
		if err != nil {
			return err
		}
		if err := clauses.SetReturn(clause, projection); err != nil {
			return fmt.Errorf("%s.return: %w", path, err)
		}
	}

	return nil
}

func (p *parser) setItems(raw []rawSetItem, path string) ([]clauses.SetItem, error) {
	var items []clauses.SetItem
	for i, item := range raw {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		switch {
		case item.Labels != nil:
			ref := p.anyReference(item.Labels.Ref)
			items = append(items, clauses.AddLabels(ref, item.Labels.Labels...))
		case item.Property != "":
			target, err := p.name(item.Property)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", itemPath, err)
			}
			value, err := p.expression(&item.Value, itemPath+".value")
			if err != nil {
				return nil, err
			}
			items = append(items, clauses.Assign(target, value))
		default:
			return nil, fmt.Errorf("%s: set item needs either a property or labels", itemPath)
		}
	}
	return items, nil
}

func (p *parser) projection(raw *rawProjection, path string) (*clauses.Projection, error) {
	var items []clauses.ProjectionItem
	for i := range raw.Items {
		expr, err := p.expression(&raw.Items[i].Expr, fmt.Sprintf("%s.items[%d]", path, i))
		if err != nil {
			return nil, err
		}
		if raw.Items[i].As == "" {
			items = append(items, clauses.Item(expr))
			continue
		}
		alias, err := p.reference(raw.Items[i].As, translator.VariableKind)
		if err != nil {
			return nil, fmt.Errorf("%s.items[%d].as: %w", path, i, err)
		}
		items = append(items, clauses.As(expr, alias))
	}

	projection := clauses.Project(items...)
	if raw.Distinct {
		projection.Distinct()
	}
	for i := range raw.OrderBy {
		expr, err := p.expression(&raw.OrderBy[i].Expr, fmt.Sprintf("%s.orderBy[%d]", path, i))
		if err != nil {
			return nil, err
		}
		if raw.OrderBy[i].Desc {
			projection.OrderByDesc(expr)
		} else {
			projection.OrderBy(expr)
		}
	}
	if raw.Skip != nil {
		projection.Skip(*raw.Skip)
	}
	if raw.Limit != nil {
		projection.Limit(*raw.Limit)
	}
	return projection, nil
}

// singleKey returns the only key and value of a mapping node.
func singleKey(node *yaml.Node, path string) (string, *yaml.Node, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return "", nil, fmt.Errorf("%s: line %d: expected a mapping with a single key", path, node.Line)
	}
	return node.Content[0].Value, node.Content[1], nil
}

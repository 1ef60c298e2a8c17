package jsast

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// SyntaxError reports the first error the parser recovered from.
type SyntaxError struct {
	Line   int // 1-based
	Column int // 1-based
	Text   string
}

func (e *SyntaxError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("syntax error at %d:%d", e.Line, e.Column)
	}
	return fmt.Sprintf("syntax error at %d:%d near %q", e.Line, e.Column, e.Text)
}

// Parse parses JavaScript source into a Program. Comments are dropped and
// constructs outside the modelled subset become Raw nodes.
func Parse(ctx context.Context, src []byte) (*Program, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse javascript: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(root, src)
	}

	c := converter{src: src}
	return &Program{Body: c.statements(root)}, nil
}

// syntaxError locates the first ERROR or missing node under n.
func syntaxError(n *sitter.Node, src []byte) *SyntaxError {
	var find func(*sitter.Node) *sitter.Node
	find = func(n *sitter.Node) *sitter.Node {
		if n.Type() == "ERROR" || n.IsMissing() {
			return n
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child == nil || !child.HasError() && !child.IsMissing() {
				continue
			}
			if bad := find(child); bad != nil {
				return bad
			}
		}
		return nil
	}

	bad := find(n)
	if bad == nil {
		bad = n
	}
	pos := bad.StartPoint()
	text := bad.Content(src)
	if len(text) > 40 {
		text = text[:40]
	}
	return &SyntaxError{
		Line:   int(pos.Row) + 1,
		Column: int(pos.Column) + 1,
		Text:   text,
	}
}

// converter turns tree-sitter nodes into jsast nodes.
type converter struct {
	src []byte
}

func (c converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

func (c converter) raw(n *sitter.Node) Node {
	return &Raw{Text: c.text(n)}
}

// namedChildren returns the named children of n, comments excluded.
func (c converter) namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

func (c converter) statements(n *sitter.Node) []Node {
	children := c.namedChildren(n)
	out := make([]Node, 0, len(children))
	for _, child := range children {
		out = append(out, c.convert(child))
	}
	return out
}

func (c converter) convertAll(nodes []*sitter.Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, c.convert(n))
	}
	return out
}

// optional converts n, mapping a missing child to a nil Node.
func (c converter) optional(n *sitter.Node) Node {
	if n == nil {
		return nil
	}
	return c.convert(n)
}

func (c converter) convert(n *sitter.Node) Node {
	switch n.Type() {
	case "expression_statement":
		children := c.namedChildren(n)
		if len(children) != 1 {
			return c.raw(n)
		}
		return &ExprStatement{Expr: c.convert(children[0])}

	case "variable_declaration", "lexical_declaration":
		stmt := &VarStatement{Keyword: c.text(n.Child(0))}
		for _, decl := range c.namedChildren(n) {
			if decl.Type() != "variable_declarator" {
				return c.raw(n)
			}
			stmt.Decls = append(stmt.Decls, &VarDecl{
				ID:   c.convert(decl.ChildByFieldName("name")),
				Init: c.optional(decl.ChildByFieldName("value")),
			})
		}
		return stmt

	case "return_statement":
		ret := &Return{}
		if children := c.namedChildren(n); len(children) > 0 {
			ret.Value = c.convert(children[0])
		}
		return ret

	case "throw_statement":
		children := c.namedChildren(n)
		if len(children) != 1 {
			return c.raw(n)
		}
		return &Throw{Value: c.convert(children[0])}

	case "if_statement":
		stmt := &If{
			Cond: c.unparen(n.ChildByFieldName("condition")),
			Then: c.convert(n.ChildByFieldName("consequence")),
		}
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			// else_clause wraps the statement
			if children := c.namedChildren(alt); len(children) == 1 {
				stmt.Else = c.convert(children[0])
			} else {
				return c.raw(n)
			}
		}
		return stmt

	case "statement_block":
		return &Block{Body: c.statements(n)}

	case "function_declaration", "function", "function_expression":
		return c.function(n)

	case "call_expression":
		args := n.ChildByFieldName("arguments")
		if args == nil || args.Type() != "arguments" {
			return c.raw(n)
		}
		return &Call{
			Callee: c.convert(n.ChildByFieldName("function")),
			Args:   c.convertAll(c.namedChildren(args)),
			Line:   int(n.StartPoint().Row) + 1,
		}

	case "new_expression":
		expr := &New{Callee: c.convert(n.ChildByFieldName("constructor"))}
		if args := n.ChildByFieldName("arguments"); args != nil {
			expr.Args = c.convertAll(c.namedChildren(args))
		}
		return expr

	case "member_expression":
		if n.ChildByFieldName("optional_chain") != nil {
			return c.raw(n)
		}
		return &Member{
			Object:   c.convert(n.ChildByFieldName("object")),
			Property: c.convert(n.ChildByFieldName("property")),
		}

	case "subscript_expression":
		return &Member{
			Object:   c.convert(n.ChildByFieldName("object")),
			Property: c.convert(n.ChildByFieldName("index")),
			Computed: true,
		}

	case "assignment_expression":
		return &Assign{
			Op:    "=",
			Left:  c.convert(n.ChildByFieldName("left")),
			Right: c.convert(n.ChildByFieldName("right")),
		}

	case "augmented_assignment_expression":
		return &Assign{
			Op:    c.text(n.ChildByFieldName("operator")),
			Left:  c.convert(n.ChildByFieldName("left")),
			Right: c.convert(n.ChildByFieldName("right")),
		}

	case "binary_expression":
		return &Binary{
			Op:    c.text(n.ChildByFieldName("operator")),
			Left:  c.convert(n.ChildByFieldName("left")),
			Right: c.convert(n.ChildByFieldName("right")),
		}

	case "unary_expression":
		return &Unary{
			Op:      c.text(n.ChildByFieldName("operator")),
			Operand: c.convert(n.ChildByFieldName("argument")),
		}

	case "parenthesized_expression":
		children := c.namedChildren(n)
		if len(children) != 1 {
			return c.raw(n)
		}
		return &Paren{Expr: c.convert(children[0])}

	case "identifier", "property_identifier", "shorthand_property_identifier", "undefined":
		return &Identifier{Name: c.text(n)}

	case "string":
		return &String{Value: c.text(n)}

	case "number":
		return &Number{Value: c.text(n)}

	case "true", "false", "null", "this", "regex":
		return &Literal{Value: c.text(n)}

	case "array":
		return &Array{Elements: c.convertAll(c.namedChildren(n))}

	case "object":
		return c.object(n)
	}

	return c.raw(n)
}

// unparen converts the inside of a parenthesized condition; the printer
// supplies the parentheses.
func (c converter) unparen(n *sitter.Node) Node {
	if n == nil {
		return nil
	}
	if n.Type() == "parenthesized_expression" {
		if children := c.namedChildren(n); len(children) == 1 {
			return c.convert(children[0])
		}
	}
	return c.convert(n)
}

func (c converter) function(n *sitter.Node) Node {
	body := n.ChildByFieldName("body")
	if body == nil || body.Type() != "statement_block" {
		return c.raw(n)
	}
	// async and generator functions are outside the subset
	if first := n.Child(0); first != nil && first.Type() == "async" {
		return c.raw(n)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "*" {
			return c.raw(n)
		}
	}

	fn := &Function{
		Name: c.optional(n.ChildByFieldName("name")),
		Body: c.statements(body),
	}
	fn.Params = c.convertAll(c.namedChildren(n.ChildByFieldName("parameters")))
	return fn
}

func (c converter) object(n *sitter.Node) Node {
	obj := &Object{}
	for _, prop := range c.namedChildren(n) {
		switch prop.Type() {
		case "pair":
			obj.Properties = append(obj.Properties, NewTuple(
				c.convert(prop.ChildByFieldName("key")),
				c.convert(prop.ChildByFieldName("value")),
			))
		default:
			obj.Properties = append(obj.Properties, NewTuple(c.convert(prop)))
		}
	}
	return obj
}

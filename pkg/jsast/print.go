package jsast

import (
	"bytes"
	"strings"
)

const indentSize = 2

// Print renders n back to JavaScript source. Statements go on their own
// lines and nested blocks are indented by two spaces. The output has no
// trailing newline.
func Print(n Node) string {
	p := newPrinter()
	p.node(n)
	return p.String()
}

// printer renders nodes with indentation tracking.
type printer struct {
	output      *bytes.Buffer
	depth       int
	atLineStart bool
}

func newPrinter() *printer {
	return &printer{
		output:      &bytes.Buffer{},
		atLineStart: true,
	}
}

func (p *printer) String() string {
	return strings.TrimRight(p.output.String(), "\n")
}

func (p *printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *printer) writeIndent() {
	for i := 0; i < p.depth*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *printer) indent() {
	p.depth++
}

func (p *printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

// list prints nodes separated by sep.
func (p *printer) list(nodes []Node, sep string) {
	for i, n := range nodes {
		if i > 0 {
			p.write(sep)
		}
		p.node(n)
	}
}

// statements prints one statement per line.
func (p *printer) statements(body []Node) {
	for i, s := range body {
		if i > 0 {
			p.writeln()
		}
		p.node(s)
	}
}

func (p *printer) block(body []Node) {
	if len(body) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.writeln()
	p.indent()
	p.statements(body)
	p.dedent()
	p.writeln()
	p.write("}")
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case nil:
		return
	case *Program:
		p.statements(n.Body)
	case *Block:
		p.block(n.Body)
	case *ExprStatement:
		p.node(n.Expr)
		p.write(";")
	case *VarStatement:
		p.write(n.Keyword)
		p.write(" ")
		p.list(n.Decls, ", ")
		p.write(";")
	case *VarDecl:
		p.node(n.ID)
		if n.Init != nil {
			p.write(" = ")
			p.node(n.Init)
		}
	case *Return:
		p.write("return")
		if n.Value != nil {
			p.write(" ")
			p.node(n.Value)
		}
		p.write(";")
	case *Throw:
		p.write("throw ")
		p.node(n.Value)
		p.write(";")
	case *If:
		p.write("if (")
		p.node(n.Cond)
		p.write(") ")
		p.node(n.Then)
		if n.Else != nil {
			p.write(" else ")
			p.node(n.Else)
		}
	case *Function:
		p.write("function")
		if n.Name != nil {
			p.write(" ")
			p.node(n.Name)
		}
		p.write("(")
		p.list(n.Params, ", ")
		p.write(") ")
		p.block(n.Body)
	case *Call:
		p.node(n.Callee)
		p.write("(")
		p.list(n.Args, ", ")
		p.write(")")
	case *New:
		p.write("new ")
		p.node(n.Callee)
		p.write("(")
		p.list(n.Args, ", ")
		p.write(")")
	case *Member:
		p.node(n.Object)
		if n.Computed {
			p.write("[")
			p.node(n.Property)
			p.write("]")
		} else {
			p.write(".")
			p.node(n.Property)
		}
	case *Assign:
		p.node(n.Left)
		p.write(" " + n.Op + " ")
		p.node(n.Right)
	case *Binary:
		p.node(n.Left)
		p.write(" " + n.Op + " ")
		p.node(n.Right)
	case *Unary:
		p.write(n.Op)
		if isWordOperator(n.Op) || mergesWithOperator(n.Op, n.Operand) {
			p.write(" ")
		}
		p.node(n.Operand)
	case *Paren:
		p.write("(")
		p.node(n.Expr)
		p.write(")")
	case *Identifier:
		p.write(n.Name)
	case *String:
		p.write(n.Value)
	case *Number:
		p.write(n.Value)
	case *Literal:
		p.write(n.Value)
	case *Array:
		p.write("[")
		p.list(n.Elements, ", ")
		p.write("]")
	case *Object:
		p.object(n)
	case *Raw:
		p.write(n.Text)
	}
}

func (p *printer) object(o *Object) {
	if len(o.Properties) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.writeln()
	p.indent()
	for i, prop := range o.Properties {
		if i > 0 {
			p.write(",")
			p.writeln()
		}
		if prop == nil {
			continue
		}
		p.list(prop.Items, ": ")
	}
	p.dedent()
	p.writeln()
	p.write("}")
}

// mergesWithOperator reports whether printing operand right after op would
// lex as a different token, as "- -x" would become "--x".
func mergesWithOperator(op string, operand Node) bool {
	if op == "" {
		return false
	}
	last := op[len(op)-1]
	if last != '+' && last != '-' {
		return false
	}
	var lead string
	switch o := operand.(type) {
	case *Unary:
		lead = o.Op
	case *Raw:
		lead = o.Text
	}
	return lead != "" && lead[0] == last
}

func isWordOperator(op string) bool {
	switch op {
	case "typeof", "void", "delete":
		return true
	}
	return false
}

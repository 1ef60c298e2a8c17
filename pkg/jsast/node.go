// Package jsast is a small mutable JavaScript syntax tree. Nodes are pointers
// and are compared by identity, so the same tree can be inspected, rewritten
// in place and printed back to source.
package jsast

// Kind identifies a node type.
type Kind int

// Node kinds.
const (
	KindProgram Kind = iota
	KindBlock
	KindExprStatement
	KindVarStatement
	KindVarDecl
	KindReturn
	KindThrow
	KindIf
	KindFunction
	KindCall
	KindNew
	KindMember
	KindAssign
	KindBinary
	KindUnary
	KindParen
	KindIdentifier
	KindString
	KindNumber
	KindLiteral
	KindArray
	KindObject
	KindRaw
)

var kindNames = [...]string{
	KindProgram:       "Program",
	KindBlock:         "Block",
	KindExprStatement: "ExprStatement",
	KindVarStatement:  "VarStatement",
	KindVarDecl:       "VarDecl",
	KindReturn:        "Return",
	KindThrow:         "Throw",
	KindIf:            "If",
	KindFunction:      "Function",
	KindCall:          "Call",
	KindNew:           "New",
	KindMember:        "Member",
	KindAssign:        "Assign",
	KindBinary:        "Binary",
	KindUnary:         "Unary",
	KindParen:         "Paren",
	KindIdentifier:    "Identifier",
	KindString:        "String",
	KindNumber:        "Number",
	KindLiteral:       "Literal",
	KindArray:         "Array",
	KindObject:        "Object",
	KindRaw:           "Raw",
}

// String returns the kind name for debugging.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Node is any syntax tree node.
type Node interface {
	Kind() Kind
}

// Tuple is a fixed group of nodes stored as one element, such as the
// key/value of an object property. A single item tuple is a shorthand
// property.
type Tuple struct {
	Items []Node
}

// NewTuple creates a tuple of items.
func NewTuple(items ...Node) *Tuple {
	return &Tuple{Items: items}
}

// ---------- Statements ----------

// Program is the root of a parsed module.
type Program struct {
	Body []Node
}

// String prints the program back to source.
func (p *Program) String() string {
	return Print(p)
}

// Block is a braced statement list.
type Block struct {
	Body []Node
}

// ExprStatement is an expression used as a statement.
type ExprStatement struct {
	Expr Node
}

// VarStatement declares variables with var, let or const.
type VarStatement struct {
	Keyword string
	Decls   []Node
}

// VarDecl is one declarator of a VarStatement. Init may be nil.
type VarDecl struct {
	ID   Node
	Init Node
}

// Return is a return statement. Value may be nil.
type Return struct {
	Value Node
}

// Throw is a throw statement.
type Throw struct {
	Value Node
}

// If is an if statement. Else may be nil.
type If struct {
	Cond Node
	Then Node
	Else Node
}

// Function is a function declaration or expression. Name may be nil.
type Function struct {
	Name   Node
	Params []Node
	Body   []Node
}

// ---------- Expressions ----------

// Call is a function call.
type Call struct {
	Callee Node
	Args   []Node
	// Line is the 1-based source line of a parsed call, zero when built.
	Line int
}

// New is a constructor call.
type New struct {
	Callee Node
	Args   []Node
}

// Member is a property access: Object.Property, or Object[Property] when
// Computed.
type Member struct {
	Object   Node
	Property Node
	Computed bool
}

// Assign is an assignment, including compound operators like +=.
type Assign struct {
	Op    string
	Left  Node
	Right Node
}

// Binary is a binary or logical operation.
type Binary struct {
	Op    string
	Left  Node
	Right Node
}

// Unary is a prefix operation.
type Unary struct {
	Op      string
	Operand Node
}

// Paren is a parenthesized expression.
type Paren struct {
	Expr Node
}

// Identifier is a name reference.
type Identifier struct {
	Name string
}

// String is a string literal. Value is the source text including quotes.
type String struct {
	Value string
}

// Number is a numeric literal as written in the source.
type Number struct {
	Value string
}

// Literal is a keyword or regular expression literal (true, null, this, /x/).
type Literal struct {
	Value string
}

// Array is an array literal.
type Array struct {
	Elements []Node
}

// Object is an object literal; each property is a tuple.
type Object struct {
	Properties []*Tuple
}

// Raw holds source this package does not model, printed verbatim.
type Raw struct {
	Text string
}

func (*Program) Kind() Kind       { return KindProgram }
func (*Block) Kind() Kind         { return KindBlock }
func (*ExprStatement) Kind() Kind { return KindExprStatement }
func (*VarStatement) Kind() Kind  { return KindVarStatement }
func (*VarDecl) Kind() Kind       { return KindVarDecl }
func (*Return) Kind() Kind        { return KindReturn }
func (*Throw) Kind() Kind         { return KindThrow }
func (*If) Kind() Kind            { return KindIf }
func (*Function) Kind() Kind      { return KindFunction }
func (*Call) Kind() Kind          { return KindCall }
func (*New) Kind() Kind           { return KindNew }
func (*Member) Kind() Kind        { return KindMember }
func (*Assign) Kind() Kind        { return KindAssign }
func (*Binary) Kind() Kind        { return KindBinary }
func (*Unary) Kind() Kind         { return KindUnary }
func (*Paren) Kind() Kind         { return KindParen }
func (*Identifier) Kind() Kind    { return KindIdentifier }
func (*String) Kind() Kind        { return KindString }
func (*Number) Kind() Kind        { return KindNumber }
func (*Literal) Kind() Kind       { return KindLiteral }
func (*Array) Kind() Kind         { return KindArray }
func (*Object) Kind() Kind        { return KindObject }
func (*Raw) Kind() Kind           { return KindRaw }

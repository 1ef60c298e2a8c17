package jsast

// SlotKind describes how a node stores one of its children.
type SlotKind int

// SlotKind constants.
const (
	// SlotList is an ordered list of child nodes.
	SlotList SlotKind = iota
	// SlotTuples is an ordered list of tuples.
	SlotTuples
	// SlotScalar is a single child node attribute (possibly nil).
	SlotScalar
)

// String returns the slot kind name for debugging.
func (k SlotKind) String() string {
	switch k {
	case SlotList:
		return "list"
	case SlotTuples:
		return "tuples"
	case SlotScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// Slot is one named child attribute of a node type. Only the accessors
// matching Kind are set. List and Tuples return the node's own slice, so
// element assignment through them mutates the node.
type Slot struct {
	Name   string
	Kind   SlotKind
	List   func(Node) []Node
	Tuples func(Node) []*Tuple
	Get    func(Node) Node
	Set    func(Node, Node)
}

func listSlot(name string, list func(Node) []Node) Slot {
	return Slot{Name: name, Kind: SlotList, List: list}
}

func tupleSlot(name string, tuples func(Node) []*Tuple) Slot {
	return Slot{Name: name, Kind: SlotTuples, Tuples: tuples}
}

func scalarSlot(name string, get func(Node) Node, set func(Node, Node)) Slot {
	return Slot{Name: name, Kind: SlotScalar, Get: get, Set: set}
}

// schema lists the child slots of every node kind. Kinds missing here are
// leaves.
var schema = map[Kind][]Slot{
	KindProgram: {
		listSlot("body", func(n Node) []Node { return n.(*Program).Body }),
	},
	KindBlock: {
		listSlot("body", func(n Node) []Node { return n.(*Block).Body }),
	},
	KindExprStatement: {
		scalarSlot("expr",
			func(n Node) Node { return n.(*ExprStatement).Expr },
			func(n Node, v Node) { n.(*ExprStatement).Expr = v }),
	},
	KindVarStatement: {
		listSlot("decls", func(n Node) []Node { return n.(*VarStatement).Decls }),
	},
	KindVarDecl: {
		scalarSlot("id",
			func(n Node) Node { return n.(*VarDecl).ID },
			func(n Node, v Node) { n.(*VarDecl).ID = v }),
		scalarSlot("init",
			func(n Node) Node { return n.(*VarDecl).Init },
			func(n Node, v Node) { n.(*VarDecl).Init = v }),
	},
	KindReturn: {
		scalarSlot("value",
			func(n Node) Node { return n.(*Return).Value },
			func(n Node, v Node) { n.(*Return).Value = v }),
	},
	KindThrow: {
		scalarSlot("value",
			func(n Node) Node { return n.(*Throw).Value },
			func(n Node, v Node) { n.(*Throw).Value = v }),
	},
	KindIf: {
		scalarSlot("cond",
			func(n Node) Node { return n.(*If).Cond },
			func(n Node, v Node) { n.(*If).Cond = v }),
		scalarSlot("then",
			func(n Node) Node { return n.(*If).Then },
			func(n Node, v Node) { n.(*If).Then = v }),
		scalarSlot("else",
			func(n Node) Node { return n.(*If).Else },
			func(n Node, v Node) { n.(*If).Else = v }),
	},
	KindFunction: {
		scalarSlot("name",
			func(n Node) Node { return n.(*Function).Name },
			func(n Node, v Node) { n.(*Function).Name = v }),
		listSlot("params", func(n Node) []Node { return n.(*Function).Params }),
		listSlot("body", func(n Node) []Node { return n.(*Function).Body }),
	},
	KindCall: {
		scalarSlot("callee",
			func(n Node) Node { return n.(*Call).Callee },
			func(n Node, v Node) { n.(*Call).Callee = v }),
		listSlot("args", func(n Node) []Node { return n.(*Call).Args }),
	},
	KindNew: {
		scalarSlot("callee",
			func(n Node) Node { return n.(*New).Callee },
			func(n Node, v Node) { n.(*New).Callee = v }),
		listSlot("args", func(n Node) []Node { return n.(*New).Args }),
	},
	KindMember: {
		scalarSlot("object",
			func(n Node) Node { return n.(*Member).Object },
			func(n Node, v Node) { n.(*Member).Object = v }),
		scalarSlot("property",
			func(n Node) Node { return n.(*Member).Property },
			func(n Node, v Node) { n.(*Member).Property = v }),
	},
	KindAssign: {
		scalarSlot("left",
			func(n Node) Node { return n.(*Assign).Left },
			func(n Node, v Node) { n.(*Assign).Left = v }),
		scalarSlot("right",
			func(n Node) Node { return n.(*Assign).Right },
			func(n Node, v Node) { n.(*Assign).Right = v }),
	},
	KindBinary: {
		scalarSlot("left",
			func(n Node) Node { return n.(*Binary).Left },
			func(n Node, v Node) { n.(*Binary).Left = v }),
		scalarSlot("right",
			func(n Node) Node { return n.(*Binary).Right },
			func(n Node, v Node) { n.(*Binary).Right = v }),
	},
	KindUnary: {
		scalarSlot("operand",
			func(n Node) Node { return n.(*Unary).Operand },
			func(n Node, v Node) { n.(*Unary).Operand = v }),
	},
	KindParen: {
		scalarSlot("expr",
			func(n Node) Node { return n.(*Paren).Expr },
			func(n Node, v Node) { n.(*Paren).Expr = v }),
	},
	KindArray: {
		listSlot("elements", func(n Node) []Node { return n.(*Array).Elements }),
	},
	KindObject: {
		tupleSlot("properties", func(n Node) []*Tuple { return n.(*Object).Properties }),
	},
}

// SlotsOf returns the child slots of n in source order. Leaves have none.
func SlotsOf(n Node) []Slot {
	if n == nil {
		return nil
	}
	return schema[n.Kind()]
}

// LookupSlot returns the slot of n called name.
func LookupSlot(n Node, name string) (Slot, bool) {
	for _, s := range SlotsOf(n) {
		if s.Name == name {
			return s, true
		}
	}
	return Slot{}, false
}

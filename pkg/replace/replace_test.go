package replace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leappack/internal/testutil"
	"github.com/leapstack-labs/leappack/pkg/jsast"
)

func num(v string) *jsast.Number {
	return &jsast.Number{Value: v}
}

func TestReplaceListItem(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []any
	}{
		{name: "nil value is a no-op", value: nil, want: []any{1, 3, 5}},
		{name: "value replaces item", value: "str", want: []any{1, "str", 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []any{1, 3, 5}
			ReplaceListItem(items, 1, tt.value)
			assert.Equal(t, tt.want, items)
		})
	}
}

func TestReplaceListItem_NilNodeKeepsLength(t *testing.T) {
	a, b := jsast.NewIdentifier("a"), jsast.NewIdentifier("b")
	items := []jsast.Node{a, b}

	ReplaceListItem(items, 0, jsast.Node(nil))

	require.Len(t, items, 2)
	assert.Same(t, a, items[0])
}

func TestReplaceListItem_TypedNilIsNoOp(t *testing.T) {
	a, b := jsast.NewTuple(num("1")), jsast.NewTuple(num("2"))
	tuples := []*jsast.Tuple{a, b}

	ReplaceListItem(tuples, 0, nil)
	assert.Same(t, a, tuples[0])

	x := jsast.NewIdentifier("x")
	nodes := []jsast.Node{x}
	ReplaceListItem(nodes, 0, jsast.Node((*jsast.String)(nil)))
	assert.Same(t, x, nodes[0])
}

func TestReplaceListItems(t *testing.T) {
	first := jsast.NewTuple(num("1"), num("2"))
	second := jsast.NewTuple(num("9"), num("3"))
	third := jsast.NewTuple(num("2"), num("1"))
	obj := jsast.NewObject(first, second, third)

	// A structurally equal tuple that is not in the map must not match.
	lookalike := jsast.NewTuple(num("1"), num("2"))
	replacement := jsast.NewTuple(num("4"), num("5"))

	count := ReplaceListItems(obj, "properties", Map{
		second:    replacement,
		lookalike: jsast.NewTuple(num("0"), num("0")),
	})

	assert.Equal(t, 1, count)
	require.Len(t, obj.Properties, 3)
	assert.Same(t, first, obj.Properties[0])
	assert.Same(t, replacement, obj.Properties[1])
	assert.Same(t, third, obj.Properties[2])
}

func TestReplaceListItems_WrongSlot(t *testing.T) {
	obj := jsast.NewObject()
	assert.Zero(t, ReplaceListItems(obj, "elements", Map{}))
	assert.Zero(t, ReplaceListItems(jsast.NewCall(jsast.NewIdentifier("f")), "args", Map{}), "args is a list slot")
}

func TestReplaceObjAttr(t *testing.T) {
	attr1, attr2, attr3 := jsast.NewIdentifier("attr1"), jsast.NewIdentifier("attr2"), jsast.NewIdentifier("attr3")
	owner := &jsast.Binary{Op: "+", Left: attr1, Right: attr2}

	assert.True(t, ReplaceObjAttr(owner, "right", Map{attr2: attr3}))
	assert.Same(t, attr1, owner.Left)
	assert.Same(t, attr3, owner.Right)

	assert.False(t, ReplaceObjAttr(owner, "left", Map{attr2: attr3}), "left holds an unmapped node")
	assert.False(t, ReplaceObjAttr(owner, "missing", Map{attr1: attr3}))
}

func TestReplaceObjAttr_WrongShapeIgnored(t *testing.T) {
	left := jsast.NewIdentifier("left")
	owner := &jsast.Binary{Op: "+", Left: left, Right: jsast.NewIdentifier("right")}

	assert.False(t, ReplaceObjAttr(owner, "left", Map{left: jsast.NewTuple(num("1"))}))
	assert.Same(t, left, owner.Left)
}

func TestReplace_Statement(t *testing.T) {
	prog, err := jsast.Parse(context.Background(), []byte("f1();\nf2();\nf3();\nf4();"))
	require.NoError(t, err)

	f3 := jsast.Extract(prog, jsast.IsKind(jsast.KindCall), 2)
	require.NotNil(t, f3)

	count := Replace(prog, Map{f3: jsast.NewString(`"test string"`)})

	assert.Equal(t, 1, count)
	assert.Equal(t, "f1();\nf2();\n\"test string\";\nf4();", prog.String())
}

func TestReplace_StatementSingleLine(t *testing.T) {
	prog, err := jsast.Parse(context.Background(), []byte("f1();f2();f3();f4();"))
	require.NoError(t, err)

	f3 := jsast.Extract(prog, jsast.IsKind(jsast.KindCall), 2)
	require.NotNil(t, f3)

	count := Replace(prog, Map{f3: jsast.NewString(`"test string"`)})

	assert.Equal(t, 1, count)
	assert.Equal(t, "f1();\nf2();\n\"test string\";\nf4();", prog.String())
}

func TestReplace_ObjectTuples(t *testing.T) {
	placeholder := jsast.NewIdentifier("placeholder")
	tuple := jsast.NewTuple(jsast.NewIdentifier("k"), placeholder)
	prog := &jsast.Program{Body: []jsast.Node{
		&jsast.VarStatement{Keyword: "var", Decls: []jsast.Node{
			&jsast.VarDecl{ID: jsast.NewIdentifier("o"), Init: jsast.NewObject(tuple)},
		}},
	}}

	count := Replace(prog, Map{placeholder: num("42")})

	assert.Equal(t, 1, count)
	assert.Equal(t, "var o = {\n  k: 42\n};", prog.String())
}

func TestReplace_WholeTuple(t *testing.T) {
	tuple := jsast.NewTuple(jsast.NewIdentifier("a"), num("1"))
	obj := jsast.NewObject(tuple)
	prog := &jsast.Program{Body: []jsast.Node{jsast.NewExprStatement(&jsast.Paren{Expr: obj})}}

	count := Replace(prog, Map{tuple: jsast.NewTuple(jsast.NewIdentifier("b"), num("2"))})

	assert.Equal(t, 1, count)
	assert.Equal(t, "({\n  b: 2\n});", prog.String())
}

func TestReplace_NilMappingKeepsNode(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{name: "nil", value: nil},
		{name: "typed nil node", value: (*jsast.String)(nil)},
		{name: "typed nil tuple", value: (*jsast.Tuple)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := jsast.Parse(context.Background(), []byte("f1();\nf2();"))
			require.NoError(t, err)
			first := prog.Body[0]

			count := Replace(prog, Map{first: tt.value})

			assert.Zero(t, count)
			require.Len(t, prog.Body, 2)
			assert.Same(t, first, prog.Body[0])
			assert.Equal(t, "f1();\nf2();", prog.String())
		})
	}
}

func TestReplace_TypedNilTupleAndAttr(t *testing.T) {
	tuple := jsast.NewTuple(jsast.NewIdentifier("a"), num("1"))
	obj := jsast.NewObject(tuple)
	assert.Zero(t, ReplaceListItems(obj, "properties", Map{tuple: (*jsast.Tuple)(nil)}))
	assert.Same(t, tuple, obj.Properties[0])

	left := jsast.NewIdentifier("left")
	owner := &jsast.Binary{Op: "+", Left: left, Right: jsast.NewIdentifier("right")}
	assert.False(t, ReplaceObjAttr(owner, "left", Map{left: (*jsast.Identifier)(nil)}))
	assert.Same(t, left, owner.Left)
}

func TestReplace_ReplacementNotDescended(t *testing.T) {
	x := jsast.NewIdentifier("x")
	call := jsast.NewCall(jsast.NewIdentifier("f"), x)
	// The replacement contains the node it replaces; a recursive pass
	// would rewrite it again.
	wrapped := jsast.NewCall(jsast.NewIdentifier("g"), x)
	prog := &jsast.Program{Body: []jsast.Node{jsast.NewExprStatement(call)}}

	count := Replace(prog, Map{x: wrapped})

	assert.Equal(t, 1, count)
	assert.Equal(t, "f(g(x));", prog.String())
}

func TestReplace_AncestorMappingTerminates(t *testing.T) {
	inner := jsast.NewIdentifier("inner")
	stmt := jsast.NewExprStatement(inner)
	prog := &jsast.Program{Body: []jsast.Node{stmt}}

	// Mapping a node to its own ancestor must not loop.
	count := Replace(prog, Map{inner: stmt})

	assert.Equal(t, 1, count)
	assert.Same(t, stmt, stmt.Expr)
}

func TestReplace_SharedNodeReplacedOnce(t *testing.T) {
	shared := jsast.NewExprStatement(jsast.NewIdentifier("s"))
	block := &jsast.Block{Body: []jsast.Node{shared}}
	prog := &jsast.Program{Body: []jsast.Node{block, block}}
	target := shared.Expr

	count := Replace(prog, Map{target: num("1")})

	assert.Equal(t, 1, count, "the shared block is visited once")
	assert.Equal(t, "1;", jsast.Print(shared))
}

func TestReplacer_Logs(t *testing.T) {
	id := jsast.NewIdentifier("a")
	prog := &jsast.Program{Body: []jsast.Node{jsast.NewExprStatement(id)}}

	r := NewReplacer(testutil.NewTestLogger(t))
	assert.Equal(t, 1, r.Replace(prog, Map{id: jsast.NewIdentifier("b")}))
	assert.Zero(t, r.Replace(prog, nil))
}

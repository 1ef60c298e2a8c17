// Package replace substitutes nodes of a jsast tree in place, matching the
// nodes to replace by identity.
package replace

import (
	"log/slog"
	"reflect"

	"github.com/leapstack-labs/leappack/pkg/jsast"
)

// Map maps original nodes (or tuples) to their replacements. Keys are the
// node or *jsast.Tuple pointers themselves, so two structurally equal nodes
// are never confused. Values must match the shape of the slot holding the
// key: a jsast.Node for list and scalar slots, a *jsast.Tuple for tuple
// slots. Values of the wrong shape are ignored.
type Map map[any]any

// ReplaceListItem sets items[index] to value. A nil value, typed or not, is
// a no-op, never a deletion.
func ReplaceListItem[T any](items []T, index int, value T) {
	if isAbsent(value) {
		return
	}
	items[index] = value
}

// isAbsent reports whether v is nil or a typed nil pointer, interface, map,
// slice or func.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// ReplaceListItems replaces every tuple of owner's tuple slot that is a key
// in m with its mapped tuple, keeping positions. It returns the number of
// tuples replaced.
func ReplaceListItems(owner jsast.Node, slot string, m Map) int {
	s, ok := jsast.LookupSlot(owner, slot)
	if !ok || s.Kind != jsast.SlotTuples {
		return 0
	}
	tuples := s.Tuples(owner)
	count := 0
	for i := range tuples {
		if replaceTuple(tuples, i, m) {
			count++
		}
	}
	return count
}

// ReplaceObjAttr reassigns owner's scalar slot when its current value is a
// key in m, and reports whether it did.
func ReplaceObjAttr(owner jsast.Node, slot string, m Map) bool {
	s, ok := jsast.LookupSlot(owner, slot)
	if !ok || s.Kind != jsast.SlotScalar {
		return false
	}
	return replaceObjAttr(owner, s, m)
}

func replaceTuple(tuples []*jsast.Tuple, i int, m Map) bool {
	if tuples[i] == nil {
		return false
	}
	v, ok := m[tuples[i]]
	if !ok {
		return false
	}
	replacement, _ := v.(*jsast.Tuple)
	if isAbsent(replacement) {
		return false
	}
	ReplaceListItem(tuples, i, replacement)
	return true
}

func replaceObjAttr(owner jsast.Node, s jsast.Slot, m Map) bool {
	current := s.Get(owner)
	if current == nil {
		return false
	}
	replacement, ok := lookupNode(current, m)
	if !ok {
		return false
	}
	s.Set(owner, replacement)
	return true
}

// lookupNode returns the non-nil node n maps to.
func lookupNode(n jsast.Node, m Map) (jsast.Node, bool) {
	if n == nil {
		return nil, false
	}
	v, ok := m[n]
	if !ok {
		return nil, false
	}
	replacement, _ := v.(jsast.Node)
	if isAbsent(replacement) {
		return nil, false
	}
	return replacement, true
}

// Replacer rewrites trees.
type Replacer struct {
	logger *slog.Logger
}

// NewReplacer creates a Replacer. A nil logger discards output.
func NewReplacer(logger *slog.Logger) *Replacer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Replacer{logger: logger}
}

// Replace substitutes, in one pass over tree, every child reference that is
// a key in m. Replacement values are not descended into, and each node is
// visited at most once. It returns the number of substitutions made.
func (r *Replacer) Replace(tree jsast.Node, m Map) int {
	if len(m) == 0 {
		return 0
	}
	v := &visitor{m: m, seen: make(map[jsast.Node]struct{})}
	v.visit(tree)
	r.logger.Debug("replaced nodes", slog.Int("count", v.count), slog.Int("mapped", len(m)))
	return v.count
}

// Replace is shorthand for NewReplacer(nil).Replace(tree, m).
func Replace(tree jsast.Node, m Map) int {
	return NewReplacer(nil).Replace(tree, m)
}

type visitor struct {
	m     Map
	seen  map[jsast.Node]struct{}
	count int
}

func (v *visitor) visit(n jsast.Node) {
	if n == nil {
		return
	}
	if _, ok := v.seen[n]; ok {
		return
	}
	v.seen[n] = struct{}{}

	// Children are checked before recursing so a single pass both matches
	// and substitutes.
	for _, slot := range jsast.SlotsOf(n) {
		switch slot.Kind {
		case jsast.SlotList:
			v.items(slot.List(n))
		case jsast.SlotTuples:
			tuples := slot.Tuples(n)
			for i, tuple := range tuples {
				if replaceTuple(tuples, i, v.m) {
					v.count++
					continue
				}
				if tuple != nil {
					v.items(tuple.Items)
				}
			}
		case jsast.SlotScalar:
			if replaceObjAttr(n, slot, v.m) {
				v.count++
				continue
			}
			v.visit(slot.Get(n))
		}
	}
}

func (v *visitor) items(items []jsast.Node) {
	for i, child := range items {
		if replacement, ok := lookupNode(child, v.m); ok {
			ReplaceListItem(items, i, replacement)
			v.count++
			continue
		}
		v.visit(child)
	}
}

package jsast

// Walk visits n and its descendants in pre-order. Children of a node are
// skipped when fn returns false for it. Nodes reachable more than once are
// visited once.
func Walk(n Node, fn func(Node) bool) {
	seen := make(map[Node]struct{})
	var walk func(Node)
	walk = func(n Node) {
		if n == nil {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		if !fn(n) {
			return
		}
		for _, slot := range SlotsOf(n) {
			switch slot.Kind {
			case SlotList:
				for _, child := range slot.List(n) {
					walk(child)
				}
			case SlotTuples:
				for _, tuple := range slot.Tuples(n) {
					if tuple == nil {
						continue
					}
					for _, item := range tuple.Items {
						walk(item)
					}
				}
			case SlotScalar:
				walk(slot.Get(n))
			}
		}
	}
	walk(n)
}

// Filter returns every node under n (n included) matching pred, in pre-order.
func Filter(n Node, pred func(Node) bool) []Node {
	var out []Node
	Walk(n, func(node Node) bool {
		if pred(node) {
			out = append(out, node)
		}
		return true
	})
	return out
}

// Extract returns the match of pred in pre-order after skipping the first
// skip matches, or nil when there are not enough matches.
func Extract(n Node, pred func(Node) bool, skip int) Node {
	var found Node
	Walk(n, func(node Node) bool {
		if found != nil {
			return false
		}
		if pred(node) {
			if skip == 0 {
				found = node
				return false
			}
			skip--
		}
		return true
	})
	return found
}

// IsKind returns a predicate matching nodes of kind k.
func IsKind(k Kind) func(Node) bool {
	return func(n Node) bool {
		return n.Kind() == k
	}
}

package bst

// SharesNode reports whether a and b have any node in common.
func SharesNode(a, b *Set) bool {
	seen := make(map[*node]struct{})
	walk(a.root, func(n *node) { seen[n] = struct{}{} })
	shared := false
	walk(b.root, func(n *node) {
		if _, ok := seen[n]; ok {
			shared = true
		}
	})
	return shared
}

// RootValue exposes the value at the root for shape assertions.
func RootValue(s *Set) (int, bool) {
	if s.root == nil {
		return 0, false
	}
	return s.root.value, true
}

func walk(n *node, visit func(*node)) {
	stack := []*node{}
	if n != nil {
		stack = append(stack, n)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(n)
		if n.left != nil {
			stack = append(stack, n.left)
		}
		if n.right != nil {
			stack = append(stack, n.right)
		}
	}
}

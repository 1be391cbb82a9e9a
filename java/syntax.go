package java

import (
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

var javaLanguage = sync.OnceValue(func() *tree_sitter.Language {
	return tree_sitter.NewLanguage(tree_sitter_java.Language())
})

// Unit is a parsed compilation unit. The syntax tree is owned by the unit
// and released by Close.
type Unit struct {
	Path   string
	Source []byte
	tree   *tree_sitter.Tree
}

// Parse parses Java source into a Unit. A syntactically malformed source is
// reported as a *ParseError; the returned unit is nil in that case.
func Parse(source []byte, path string) (*Unit, error) {
	if len(source) == 0 {
		return nil, fmt.Errorf("%w: empty source", ErrInvalidArgument)
	}

	p := tree_sitter.NewParser()
	defer p.Close()
	if err := p.SetLanguage(javaLanguage()); err != nil {
		return nil, fmt.Errorf("set java language: %w", err)
	}

	tree := p.Parse(source, nil)
	if tree == nil {
		return nil, &ParseError{Path: path, Message: "parser produced no tree"}
	}

	root := tree.RootNode()
	if root.HasError() {
		perr := parseErrorAt(root, source, path)
		tree.Close()
		return nil, perr
	}

	return &Unit{Path: path, Source: source, tree: tree}, nil
}

func (u *Unit) Root() *tree_sitter.Node {
	return u.tree.RootNode()
}

func (u *Unit) Close() {
	if u.tree != nil {
		u.tree.Close()
		u.tree = nil
	}
}

func (u *Unit) text(n *tree_sitter.Node) string {
	return nodeText(n, u.Source)
}

func parseErrorAt(root *tree_sitter.Node, source []byte, path string) *ParseError {
	bad := firstErrorNode(root)
	if bad == nil {
		return &ParseError{Path: path, Message: "syntax error"}
	}
	pos := bad.StartPosition()
	msg := "unexpected input"
	if bad.IsMissing() {
		msg = fmt.Sprintf("missing %s", bad.Kind())
	} else if snippet := nodeText(bad, source); snippet != "" {
		if len(snippet) > 40 {
			snippet = snippet[:40] + "..."
		}
		msg = fmt.Sprintf("unexpected %q", snippet)
	}
	return &ParseError{
		Path:    path,
		Line:    int(pos.Row) + 1,
		Column:  int(pos.Column) + 1,
		Message: msg,
	}
}

func firstErrorNode(n *tree_sitter.Node) *tree_sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for _, c := range childNodes(n) {
		if c.HasError() || c.IsMissing() {
			if found := firstErrorNode(c); found != nil {
				return found
			}
		}
	}
	return nil
}

func nodeText(n *tree_sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return string(source[n.StartByte():n.EndByte()])
}

func childNodes(n *tree_sitter.Node) []*tree_sitter.Node {
	if n == nil {
		return nil
	}
	count := n.ChildCount()
	children := make([]*tree_sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		if c := n.Child(i); c != nil {
			children = append(children, c)
		}
	}
	return children
}

func childrenOfKind(n *tree_sitter.Node, kinds ...string) []*tree_sitter.Node {
	var result []*tree_sitter.Node
	for _, c := range childNodes(n) {
		for _, k := range kinds {
			if c.Kind() == k {
				result = append(result, c)
				break
			}
		}
	}
	return result
}

func firstChildOfKind(n *tree_sitter.Node, kinds ...string) *tree_sitter.Node {
	if found := childrenOfKind(n, kinds...); len(found) > 0 {
		return found[0]
	}
	return nil
}

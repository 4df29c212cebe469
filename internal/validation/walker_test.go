package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// treeNode is a hand-built shape used to exercise traversal.
type treeNode struct {
	name     string
	fail     bool
	child    *treeNode
	children []*treeNode
}

func (n *treeNode) Validate(r *Report) {
	if n.fail {
		r.Add("name", n.name+" failed")
	}
}

func (n *treeNode) Nested() []Nested {
	var out []Nested
	if n.child != nil {
		out = append(out, One("child", n.child))
	}
	if len(n.children) > 0 {
		nodes := make([]Node, 0, len(n.children))
		for _, c := range n.children {
			nodes = append(nodes, c)
		}
		out = append(out, Many("items", nodes...))
	}
	return out
}

func TestWalk_NoViolations(t *testing.T) {
	root := &treeNode{name: "root", child: &treeNode{name: "c"}, children: []*treeNode{{name: "i0"}}}
	require.NoError(t, Walk(validator.New(), root))
}

func TestWalk_OrderAndPaths(t *testing.T) {
	root := &treeNode{
		name: "root",
		fail: true,
		child: &treeNode{
			name:     "child",
			fail:     true,
			children: []*treeNode{{name: "grandchild", fail: true}},
		},
		children: []*treeNode{
			{name: "i0"},
			{name: "i1", fail: true},
		},
	}

	err := Walk(validator.New(), root)
	var verrs Errors
	require.ErrorAs(t, err, &verrs)

	want := Errors{
		{Field: "name", Message: "root failed"},
		{Field: "child.name", Message: "child failed"},
		{Field: "child.items[0].name", Message: "grandchild failed"},
		{Field: "items[1].name", Message: "i1 failed"},
	}
	assert.Equal(t, want, verrs)
}

func TestErrors_Error(t *testing.T) {
	err := Errors{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}
	assert.Equal(t, "validation failed: a: bad; b: worse", err.Error())
}

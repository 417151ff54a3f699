package dialog

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultLanguage   = "en"
	HolderPlaceholder = "{policy_holder_name}"
)

var (
	ErrDuplicateNode = errors.New("duplicate dialog node")
	ErrMissingRoot   = errors.New("dialog root node not found")
	ErrDanglingEdge  = errors.New("dialog transition points at unknown node")
	ErrNoTransition  = errors.New("dialog node has no such transition")
	ErrUnknownNode   = errors.New("unknown dialog node")
)

type NodeID string

// Node is one scripted step. Next maps an edge label (for example "yes")
// to the node it leads to.
type Node struct {
	ID      NodeID
	Title   string
	Prompts map[string]string
	Next    map[string]NodeID
}

// Prompt returns the text for lang, falling back to English.
func (n *Node) Prompt(lang string) string {
	if p, ok := n.Prompts[lang]; ok && p != "" {
		return p
	}
	return n.Prompts[DefaultLanguage]
}

// Greeting renders the prompt with the holder's name filled in.
func (n *Node) Greeting(lang, holderName string) string {
	return strings.ReplaceAll(n.Prompt(lang), HolderPlaceholder, holderName)
}

// Tree is an immutable id-indexed dialog graph.
type Tree struct {
	root  NodeID
	nodes map[NodeID]*Node
}

func NewTree(root NodeID, nodes []Node) (*Tree, error) {
	index := make(map[NodeID]*Node, len(nodes))
	for i := range nodes {
		n := nodes[i]
		if _, dup := index[n.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
		}
		index[n.ID] = &n
	}
	if _, ok := index[root]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRoot, root)
	}
	for _, n := range index {
		for edge, target := range n.Next {
			if _, ok := index[target]; !ok {
				return nil, fmt.Errorf("%w: %s -[%s]-> %s", ErrDanglingEdge, n.ID, edge, target)
			}
		}
	}
	return &Tree{root: root, nodes: index}, nil
}

func (t *Tree) Root() *Node {
	return t.nodes[t.root]
}

func (t *Tree) RootID() NodeID {
	return t.root
}

func (t *Tree) Node(id NodeID) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

func (t *Tree) Transition(from NodeID, edge string) (*Node, error) {
	n, ok := t.nodes[from]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, from)
	}
	target, ok := n.Next[edge]
	if !ok {
		return nil, fmt.Errorf("%w: %s -[%s]", ErrNoTransition, from, edge)
	}
	return t.nodes[target], nil
}

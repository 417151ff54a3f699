package dialog

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type rawNode struct {
	ID          string            `json:"id" yaml:"id"`
	Title       string            `json:"title" yaml:"title"`
	Prompts     map[string]string `json:"prompts" yaml:"prompts"`
	VeenaPrompt map[string]string `json:"veena_prompt" yaml:"veena_prompt"`
	Next        map[string]string `json:"next" yaml:"next"`
}

func (r rawNode) node() Node {
	prompts := r.Prompts
	if len(prompts) == 0 {
		prompts = r.VeenaPrompt
	}
	next := make(map[string]NodeID, len(r.Next))
	for edge, target := range r.Next {
		next[edge] = NodeID(target)
	}
	return Node{ID: NodeID(r.ID), Title: r.Title, Prompts: prompts, Next: next}
}

// Parse decodes a node list. The format follows the file extension; YAML is
// used for .yaml and .yml, JSON otherwise.
func Parse(name string, data []byte, root NodeID) (*Tree, error) {
	var raw []rawNode
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	}

	nodes := make([]Node, 0, len(raw))
	for _, r := range raw {
		nodes = append(nodes, r.node())
	}
	return NewTree(root, nodes)
}

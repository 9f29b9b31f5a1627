package dialogue

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
)

// Node is one line of dialogue and the choices that follow it
type Node struct {
	Text    string   `yaml:"text"`
	Options []Option `yaml:"options"`
}

// Source resolves node ids to nodes
type Source interface {
	Node(id string) (Node, bool)
}

// Content is a validated, id-indexed set of dialogue nodes
type Content struct {
	nodes map[string]Node
}

var _ Source = (*Content)(nil)

type contentFile struct {
	Nodes map[string]Node `yaml:"nodes"`
}

// NewContent validates nodes and indexes them. Every option must point at an
// existing node or be empty, which ends the conversation.
func NewContent(nodes map[string]Node) (*Content, error) {
	vb := errors.NewValidationBuilder()

	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if id == "" {
			vb.Field("nodes", "node id must not be empty")
			continue
		}
		for i, opt := range nodes[id].Options {
			if opt.NextNode == "" {
				continue
			}
			if _, ok := nodes[opt.NextNode]; !ok {
				vb.Fieldf(fmt.Sprintf("nodes.%s.options[%d]", id, i), "next_node %q does not exist", opt.NextNode)
			}
		}
	}

	if err := vb.Build(); err != nil {
		return nil, err
	}

	indexed := make(map[string]Node, len(nodes))
	for id, node := range nodes {
		indexed[id] = node
	}
	return &Content{nodes: indexed}, nil
}

// LoadContent reads YAML dialogue content of the form
//
//	nodes:
//	  greeting:
//	    text: Hello there.
//	    options:
//	      - text: Goodbye.
//	        next_node: ""
func LoadContent(r io.Reader) (*Content, error) {
	var file contentFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode dialogue content")
	}
	return NewContent(file.Nodes)
}

// LoadContentFile reads dialogue content from path
func LoadContentFile(path string) (*Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dialogue content %s", path)
	}
	defer f.Close()

	return LoadContent(f)
}

// Node returns the node with the given id
func (c *Content) Node(id string) (Node, bool) {
	node, ok := c.nodes[id]
	return node, ok
}

// Len is the number of nodes
func (c *Content) Len() int {
	return len(c.nodes)
}

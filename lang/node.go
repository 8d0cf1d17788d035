package lang

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// NodeType indicates the syntactic form of a [Node].
type NodeType int

const (
	// NodeVariable references a registry variable by name.
	NodeVariable NodeType = iota

	// NodeCall invokes a registry function with argument nodes.
	NodeCall

	// NodeNumber is an Integer or Float literal.
	NodeNumber

	// NodeBoolean is a true or false literal.
	NodeBoolean

	// NodeString is a double-quoted literal, stored without its quotes.
	NodeString

	// NodeText is bare template text passed through unchanged.
	NodeText
)

// String returns a string representation of the node type.
func (t NodeType) String() string {
	switch t {
	case NodeVariable:
		return "Variable"
	case NodeCall:
		return "Call"
	case NodeNumber:
		return "Number"
	case NodeBoolean:
		return "Boolean"
	case NodeString:
		return "String"
	case NodeText:
		return "Text"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t NodeType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Node is one element of a parsed template.
//
// Variable and Call nodes carry Name; literal and Text nodes carry Text.
// Only Call nodes have Args.
type Node struct {
	Type NodeType `json:"type"           yaml:"type"`
	Name string   `json:"name,omitempty" yaml:"name,omitempty"`
	Text string   `json:"text,omitempty" yaml:"text,omitempty"`
	Args []Node   `json:"args,omitempty" yaml:"args,omitempty"`
	Pos  Position `json:"-"              yaml:"-"`
}

// String returns the node in template syntax.
func (n Node) String() string {
	switch n.Type {
	case NodeVariable:
		return n.Name
	case NodeCall:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = a.String()
		}

		return n.Name + "(" + strings.Join(args, ", ") + ")"
	case NodeString:
		return `"` + n.Text + `"`
	default:
		return n.Text
	}
}

// Print writes an indented outline of nodes to w.
func Print(w io.Writer, nodes []Node) error {
	for i, n := range nodes {
		if err := printNode(w, n, "", strconv.Itoa(i)); err != nil {
			return err
		}
	}

	return nil
}

func printNode(w io.Writer, n Node, indent, label string) error {
	var desc string

	switch n.Type {
	case NodeVariable, NodeCall:
		desc = n.Name
	default:
		desc = strconv.Quote(n.Text)
	}

	_, err := fmt.Fprintf(w, "%s%s: %s %s (%s)\n",
		indent, label, n.Type, desc, n.Pos)
	if err != nil {
		return err
	}

	for i, a := range n.Args {
		if err := printNode(w, a, indent+"  ", label+"."+strconv.Itoa(i)); err != nil {
			return err
		}
	}

	return nil
}

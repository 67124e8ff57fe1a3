package cnode

import (
	"fmt"
	"strings"
)

// Dump renders n and its members as an indented outline, one node per line.
// Declarations reached through a type are named, not expanded, so cyclic
// trees print finitely.
func Dump(n *Node) string {
	var sb strings.Builder
	dump(&sb, n, 0)
	return sb.String()
}

func dump(sb *strings.Builder, n *Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Kind.String())
	if n.Name != "" {
		sb.WriteString(" " + n.Name)
	}
	if n.Type != nil {
		sb.WriteString(": " + n.Type.String())
	}
	if n.Kind == NodeStructDecl && !n.Definition {
		sb.WriteString(" (forward)")
	}
	if pos := n.Pos(); pos != "" && depth > 0 {
		sb.WriteString(" @" + pos)
	}
	sb.WriteByte('\n')
	for _, c := range n.Children {
		dump(sb, c, depth+1)
	}
}

// String describes t compactly, e.g. "Pointer<const Char_S>".
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	var prefix string
	if t.Const {
		prefix = "const "
	}

	switch t.Kind {
	case TypePointer:
		return fmt.Sprintf("%s%s<%s>", prefix, t.Kind, t.Pointee)
	case TypeConstantArray:
		return fmt.Sprintf("%s%s<%s, %d>", prefix, t.Kind, t.Elem, t.Len)
	case TypeIncompleteArray:
		return fmt.Sprintf("%s%s<%s>", prefix, t.Kind, t.Elem)
	case TypeTypedef:
		return fmt.Sprintf("%s%s<%s>", prefix, t.Kind, t.Name())
	case TypeElaborated, TypeRecord, TypeEnum:
		if t.Decl != nil {
			return fmt.Sprintf("%s%s<%s %s>", prefix, t.Kind, t.Decl.Kind, t.Decl.Name)
		}
		return fmt.Sprintf("%s%s<%s>", prefix, t.Kind, t.Spelling)
	case TypeFunctionProto:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = p.String()
		}
		if t.Variadic {
			params = append(params, "...")
		}
		return fmt.Sprintf("%s%s<(%s) -> %s>", prefix, t.Kind, strings.Join(params, ", "), t.Result)
	}
	return prefix + t.Kind.String()
}

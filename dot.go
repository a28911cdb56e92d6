package lattice

import (
	"fmt"
	"strconv"
	"strings"
)

// DOT renders the transition table as a Graphviz digraph. Nodes are the
// distinct states appearing in the table, edges are transitions labeled with
// their triggering event. Edges are emitted in the stable order of
// Transitions, so the output is suitable for snapshot testing.
//
// Labels come from the stringers configured via WithStateStringer and
// WithEventStringer; without them the decimal ordinal is used. The output is
// meant to be fed to an external renderer (dot -Tsvg ...); the machine never
// renders images itself.
func (m *Machine[S, E, C]) DOT() string {
	var sb strings.Builder
	sb.WriteString("digraph FSM {\n")
	sb.WriteString("  rankdir=LR;\n")

	for _, tr := range m.Transitions() {
		fmt.Fprintf(&sb, "  %q -> %q [label=%q];\n",
			m.stateLabel(tr.Src),
			m.stateLabel(tr.Dst),
			m.eventLabel(tr.Event),
		)
	}

	sb.WriteString("}\n")
	return sb.String()
}

// Mermaid renders the transition table as a Mermaid flowchart (graph LR).
// Node identifiers are derived from state ordinals so labels can contain
// arbitrary text.
func (m *Machine[S, E, C]) Mermaid() string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	declared := make(map[uint32]bool)
	declare := func(s S) {
		ord := uint32(s)
		if declared[ord] {
			return
		}
		declared[ord] = true
		fmt.Fprintf(&sb, "    s%d[\"%s\"]\n", ord, escapeMermaid(m.stateLabel(s)))
	}

	trs := m.Transitions()
	for _, tr := range trs {
		declare(tr.Src)
		declare(tr.Dst)
	}
	for _, tr := range trs {
		fmt.Fprintf(&sb, "    s%d -- \"%s\" --> s%d\n",
			uint32(tr.Src),
			escapeMermaid(m.eventLabel(tr.Event)),
			uint32(tr.Dst),
		)
	}

	return sb.String()
}

func (m *Machine[S, E, C]) stateLabel(s S) string {
	if m.stateStr != nil {
		return m.stateStr(s)
	}
	return strconv.FormatInt(int64(s), 10)
}

func (m *Machine[S, E, C]) eventLabel(e E) string {
	if m.eventStr != nil {
		return m.eventStr(e)
	}
	return strconv.FormatInt(int64(e), 10)
}

func escapeMermaid(label string) string {
	return strings.ReplaceAll(label, `"`, "'")
}

package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/parley/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []int
	// CurrentNode is the active node index, or -1.
	CurrentNode int
}

// OverlayFromHistory marks every visited node of h.
func OverlayFromHistory(h domain.History, current int) *GraphOverlay {
	return &GraphOverlay{VisitedNodes: h.Indices(), CurrentNode: current}
}

// GenerateMermaid produces a Mermaid flowchart of a dialogue.
// It applies semantic styling:
// - Start: ((Circle))
// - Sequence: [[Subroutine]]
// - Selector: {{Hexagon}}
// - End: ([Stadium])
// - Speech: [Rectangle]
// Guarded edges are dotted. Overlay styles (Visited/Current) are applied if provided.
func GenerateMermaid(d *domain.Dialogue, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	sb.WriteString("    start((\"start\"))\n")
	writeEdges(&sb, "start", d.StartNode().Edges)

	for i, node := range d.Nodes() {
		opener, closer := "[", "]"
		switch node.Kind {
		case domain.NodeSequence:
			opener, closer = "[[", "]]"
		case domain.NodeSelector:
			opener, closer = "{{", "}}"
		case domain.NodeEnd:
			opener, closer = "([", "])"
		}

		label := node.Key
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		if node.Owner != "" {
			label += " <br/> " + node.Owner
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(i), opener, escape(label), closer)
		writeEdges(&sb, nodeID(i), node.Edges)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, i := range overlay.VisitedNodes {
			if seen[i] || !d.IsValidIndex(i) {
				continue
			}
			seen[i] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(i))
		}
		if d.IsValidIndex(overlay.CurrentNode) {
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

func writeEdges(sb *strings.Builder, from string, edges []domain.Edge) {
	for _, e := range edges {
		guarded := len(e.Conditions) > 0
		arrow := "-->"
		if guarded {
			arrow = "-.->"
		}
		if e.Text != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", escape(e.Text))
			if guarded {
				arrow = fmt.Sprintf("-. \"%s\" .->", escape(e.Text))
			}
		}
		fmt.Fprintf(sb, "    %s %s %s\n", from, arrow, nodeID(e.TargetIndex))
	}
}

func nodeID(index int) string {
	return fmt.Sprintf("n%d", index)
}

// escape replaces double quotes, which end a Mermaid label.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

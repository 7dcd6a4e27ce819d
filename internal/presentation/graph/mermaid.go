package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/cadence/internal/compiler"
	"github.com/aretw0/cadence/pkg/domain"
)

// GraphOverlay contains runtime state to highlight on the graph.
type GraphOverlay struct {
	VisitedStates []string
	CurrentState  string
}

// GenerateMermaid produces a Mermaid flowchart of a trigger: one node per
// state and one edge per state pair its transitions match.
// It applies semantic styling:
// - void: ((Circle))
// - * (any state): {{Hexagon}}
// - Default: [Rectangle]
// Edges are labelled with the transition number and, for :increment and
// :decrement, the alias. Overlay styles are applied if provided.
func GenerateMermaid(spec *domain.TriggerSpec, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	var order []string
	seen := make(map[string]bool)
	addState := func(name string) {
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	for _, s := range spec.States {
		for _, name := range strings.Split(s.Name, ",") {
			addState(strings.TrimSpace(name))
		}
	}

	var edges []string
	for i, tr := range spec.Transitions {
		for _, pair := range compiler.ExpandTransitionExpr(tr.Expr) {
			addState(pair.From)
			addState(pair.To)
			label := fmt.Sprintf("#%d", i+1)
			if pair.Alias != "" {
				label += " " + pair.Alias
			}
			edges = append(edges, fmt.Sprintf("    %s -- \"%s\" --> %s\n", sanitizeMermaidID(pair.From), label, sanitizeMermaidID(pair.To)))
		}
	}

	for _, name := range order {
		opener, closer := "[", "]"
		switch name {
		case domain.VoidState:
			opener, closer = "((", "))"
		case domain.AnyState:
			opener, closer = "{{", "}}"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(name), opener, name, closer))
	}
	for _, edge := range edges {
		sb.WriteString(edge)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, name := range overlay.VisitedStates {
			safeID := sanitizeMermaidID(name)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}
		if overlay.CurrentState != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentState)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	if id == domain.AnyState {
		return "any_state"
	}
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return "state_" + s
}

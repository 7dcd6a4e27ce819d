package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/cadence/internal/validator"
	"github.com/aretw0/cadence/pkg/domain"
)

// ValidationReport renders validation results as a markdown table followed
// by the problems of each failing definition.
func ValidationReport(results []validator.Result) string {
	var sb strings.Builder
	sb.WriteString("# Definitions\n\n")
	if len(results) == 0 {
		sb.WriteString("_No definitions found._\n")
		return sb.String()
	}

	sb.WriteString("| id | kind | status |\n|---|---|---|\n")
	failed := 0
	for _, r := range results {
		status := "ok"
		if len(r.Errors) > 0 {
			status = fmt.Sprintf("%d errors", len(r.Errors))
			failed++
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", r.ID, r.Kind, status)
	}

	if failed == 0 {
		return sb.String()
	}
	sb.WriteString("\n## Problems\n")
	for _, r := range results {
		if len(r.Errors) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n### %s\n\n", r.ID)
		for _, msg := range r.Errors {
			fmt.Fprintf(&sb, "- %s\n", strings.ReplaceAll(msg, "\n", " "))
		}
	}
	return sb.String()
}

// TimelineReport renders compiled instructions as markdown, one section per
// timeline with its keyframes as a table.
func TimelineReport(id string, instructions []*domain.TimelineInstruction) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", id)
	for i, inst := range instructions {
		target := "-"
		if inst.Element != nil {
			target = inst.Element.ID()
		}
		fmt.Fprintf(&sb, "## Timeline %d: `%s`\n\n", i+1, target)
		fmt.Fprintf(&sb, "duration **%gms**, delay **%gms**, total **%gms**", inst.Duration, inst.Delay, inst.TotalTime)
		if inst.Easing != "" {
			fmt.Fprintf(&sb, ", easing `%s`", inst.Easing)
		}
		sb.WriteString("\n\n")

		props := keyframeProps(inst.Keyframes)
		if len(props) == 0 {
			sb.WriteString("_No keyframes._\n\n")
			continue
		}
		sb.WriteString("| offset | easing | " + strings.Join(props, " | ") + " |\n")
		sb.WriteString("|---|---|" + strings.Repeat("---|", len(props)) + "\n")
		for _, kf := range inst.Keyframes {
			row := []string{fmt.Sprintf("%g", kf.Offset), kf.Easing}
			for _, p := range props {
				row = append(row, kf.Styles[p])
			}
			sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func keyframeProps(keyframes []domain.Keyframe) []string {
	seen := map[string]bool{}
	var props []string
	for _, kf := range keyframes {
		for p := range kf.Styles {
			if !seen[p] {
				seen[p] = true
				props = append(props, p)
			}
		}
	}
	sort.Strings(props)
	return props
}

package graph

import (
	"fmt"
	"strings"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
)

// GraphOverlay marks categories to highlight, typically the ones touched by the last change.
type GraphOverlay struct {
	Changed []domain.Category
}

// scriptFlow is the order in which sections appear in a composed script.
var scriptFlow = []domain.Category{
	domain.CategoryHooks,
	domain.CategoryBuildUps,
	domain.CategoryStories,
	domain.CategoryPsychologies,
}

// GenerateMermaid produces a Mermaid flowchart of the script structure.
// Each category is a node labelled with its template count:
// - Empty categories: [/Parallelogram/] (skipped when composing)
// - Nested categories: [[Subroutine]] linked to their parent with a dotted arrow
// - Default: [Rectangle]
func GenerateMermaid(fw domain.Framework, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, info := range domain.AllInfo() {
		n := len(fw[info.Key])

		opener, closer := "[", "]"
		switch {
		case n == 0:
			opener, closer = "[/", "/]"
		case info.Parent != "":
			opener, closer = "[[", "]]"
		}

		label := strings.ReplaceAll(info.Title, "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s%s\"%s <br/> %d\"%s\n", info.Key, opener, label, n, closer))
	}

	for i := 0; i+1 < len(scriptFlow); i++ {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", scriptFlow[i], scriptFlow[i+1]))
	}
	for _, info := range domain.AllInfo() {
		if info.Parent != "" {
			sb.WriteString(fmt.Sprintf("    %s -. \"mixes into\" .-> %s\n", info.Key, info.Parent))
		}
	}

	if overlay != nil && len(overlay.Changed) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef changed fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.Category]bool)
		for _, c := range overlay.Changed {
			if seen[c] || !domain.IsValidCategory(string(c)) {
				continue
			}
			seen[c] = true
			sb.WriteString(fmt.Sprintf("    class %s changed;\n", c))
		}
	}

	return sb.String()
}

// OverlayFromDiff highlights every category listed in d.
func OverlayFromDiff(d *domain.FrameworkDiff) *GraphOverlay {
	if d.IsEmpty() {
		return nil
	}
	overlay := &GraphOverlay{}
	for _, c := range domain.AllCategories() {
		if _, ok := d.Changed[c]; ok {
			overlay.Changed = append(overlay.Changed, c)
		}
	}
	return overlay
}

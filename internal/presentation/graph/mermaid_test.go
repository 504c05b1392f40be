package graph_test

import (
	"strings"
	"testing"

	"github.com/Moosa-Imran/Content-Machine-sub001/internal/presentation/graph"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	full := domain.NewFramework()
	for _, c := range domain.AllCategories() {
		full[c] = []string{"a", "b"}
	}

	tests := []struct {
		name     string
		fw       domain.Framework
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name: "Node Shapes",
			fw: domain.Framework{
				domain.CategoryHooks:      {"h"},
				domain.CategoryExtraHooks: {"x"},
			},
			contains: []string{
				"hooks[\"Hooks <br/> 1\"]",
				"extraHooks[[\"Extra Hooks <br/> 1\"]]",
				"stories[/\"Stories <br/> 0\"/]",
			},
		},
		{
			name: "Script Flow",
			fw:   full,
			contains: []string{
				"hooks --> buildUps",
				"buildUps --> stories",
				"stories --> psychologies",
				"extraHooks -. \"mixes into\" .-> hooks",
			},
			excludes: []string{"psychologies --> extraHooks", "classDef"},
		},
		{
			name:    "Overlay",
			fw:      full,
			overlay: &graph.GraphOverlay{Changed: []domain.Category{domain.CategoryStories, domain.CategoryStories, "bogus"}},
			contains: []string{
				"classDef changed",
				"class stories changed;",
			},
			excludes: []string{"class bogus"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.fw, tt.overlay)
			if !strings.HasPrefix(got, "graph TD\n") {
				t.Errorf("expected flowchart header, got:\n%s", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected output to contain %q\ngot:\n%s", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("expected output not to contain %q\ngot:\n%s", bad, got)
				}
			}
			if strings.Count(got, "class stories changed;") > 1 {
				t.Errorf("overlay classes must be deduplicated")
			}
		})
	}
}

func TestOverlayFromDiff(t *testing.T) {
	if graph.OverlayFromDiff(nil) != nil {
		t.Fatal("nil diff must yield nil overlay")
	}

	prev := domain.NewFramework()
	next := domain.NewFramework()
	next[domain.CategoryPsychologies] = []string{"p"}
	next[domain.CategoryHooks] = []string{"h"}

	overlay := graph.OverlayFromDiff(domain.Diff(prev, next))
	if overlay == nil || len(overlay.Changed) != 2 {
		t.Fatalf("unexpected overlay: %+v", overlay)
	}
	if overlay.Changed[0] != domain.CategoryHooks || overlay.Changed[1] != domain.CategoryPsychologies {
		t.Errorf("expected enumeration order, got %v", overlay.Changed)
	}
}

package tui

import (
	"fmt"
	"strings"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
)

// FrameworkMarkdown lays the framework out the way the editor presents it:
// one section per category, with extraHooks nested under hooks.
func FrameworkMarkdown(fw domain.Framework) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Template Framework\n\n_%d templates_\n", fw.Total()))

	for _, info := range domain.AllInfo() {
		heading := "##"
		if info.Parent != "" {
			heading = "###"
		}
		templates := fw[info.Key]
		sb.WriteString(fmt.Sprintf("\n%s %s (%d)\n\n", heading, info.Title, len(templates)))
		sb.WriteString(fmt.Sprintf("_%s_\n\n", info.Description))
		if len(templates) == 0 {
			sb.WriteString("> empty\n")
			continue
		}
		for i, tmpl := range templates {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, tmpl))
		}
	}
	return sb.String()
}

// Package composer assembles short-video scripts from the current template framework.
//
// Selection is deterministic: the same brief against the same framework yields the
// same script. Empty categories are skipped rather than treated as errors.
package composer

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/ports"
)

// ErrNothingToCompose is returned when every section of the framework is empty.
var ErrNothingToCompose = errors.New("framework has no templates to compose from")

// ErrInvalidBrief is returned when the brief lacks a company.
var ErrInvalidBrief = errors.New("invalid brief")

// Brief describes the script to produce.
type Brief struct {
	Company string `json:"company"`
	Tactic  string `json:"tactic"`
	// UseExtraHooks mixes the extraHooks pool into hook selection.
	UseExtraHooks bool `json:"use_extra_hooks,omitempty"`
	// Variant shifts the selection to obtain an alternative script for the same brief.
	Variant int `json:"variant,omitempty"`
}

// Section is one rendered part of a script.
type Section struct {
	Category domain.Category `json:"category"`
	Text     string          `json:"text"`
}

// Script is a finished script.
type Script struct {
	Sections []Section `json:"sections"`
	Text     string    `json:"text"`
}

// sections lists the script structure; hooks may draw from extraHooks too.
var sections = []domain.Category{
	domain.CategoryHooks,
	domain.CategoryBuildUps,
	domain.CategoryStories,
	domain.CategoryPsychologies,
}

// Composer reads the current framework and renders scripts from it.
type Composer struct {
	reader ports.FrameworkReader
}

// New creates a Composer reading through reader.
func New(reader ports.FrameworkReader) *Composer {
	return &Composer{reader: reader}
}

// Compose renders a script for brief.
func (c *Composer) Compose(ctx context.Context, brief Brief) (Script, error) {
	if strings.TrimSpace(brief.Company) == "" {
		return Script{}, fmt.Errorf("%w: company is required", ErrInvalidBrief)
	}

	fw, err := c.reader.Get(ctx)
	if err != nil {
		return Script{}, fmt.Errorf("failed to read framework: %w", err)
	}

	fill := strings.NewReplacer(
		"{company}", strings.TrimSpace(brief.Company),
		"{tactic}", strings.TrimSpace(brief.Tactic),
	)

	var script Script
	var lines []string
	for _, category := range sections {
		pool := Pool(fw, category, brief.UseExtraHooks)
		if len(pool) == 0 {
			continue
		}
		text := fill.Replace(pool[pick(brief, category, len(pool))])
		script.Sections = append(script.Sections, Section{Category: category, Text: text})
		lines = append(lines, text)
	}

	if len(script.Sections) == 0 {
		return Script{}, ErrNothingToCompose
	}
	script.Text = strings.Join(lines, "\n\n")
	return script, nil
}

// Pool returns the templates a section draws from. For hooks, extraHooks are appended
// when mixing is enabled, and used alone when hooks is empty.
func Pool(fw domain.Framework, category domain.Category, useExtraHooks bool) []string {
	pool := fw[category]
	if category != domain.CategoryHooks {
		return pool
	}
	extra := fw[domain.CategoryExtraHooks]
	if len(pool) == 0 {
		return extra
	}
	if useExtraHooks {
		merged := make([]string, 0, len(pool)+len(extra))
		merged = append(merged, pool...)
		return append(merged, extra...)
	}
	return pool
}

func pick(brief Brief, category domain.Category, n int) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s|%s|%s", strings.ToLower(brief.Company), strings.ToLower(brief.Tactic), category)
	return int((h.Sum32() + uint32(brief.Variant)) % uint32(n))
}

package composer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/adapters/memory"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/composer"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/framework"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticReader struct {
	fw  domain.Framework
	err error
}

func (r staticReader) Get(ctx context.Context) (domain.Framework, error) {
	return r.fw.Complete(), r.err
}

func TestCompose_DefaultFrameworkFillsPlaceholders(t *testing.T) {
	svc := framework.NewService(memory.NewStore())
	c := composer.New(svc)

	script, err := c.Compose(context.Background(), composer.Brief{Company: "Costco", Tactic: "anchoring"})
	require.NoError(t, err)

	require.Len(t, script.Sections, 4)
	assert.Equal(t, domain.CategoryHooks, script.Sections[0].Category)
	assert.NotContains(t, script.Text, "{company}")
	assert.NotContains(t, script.Text, "{tactic}")
}

func TestCompose_Deterministic(t *testing.T) {
	c := composer.New(framework.NewService(memory.NewStore()))
	brief := composer.Brief{Company: "IKEA", Tactic: "effort justification"}

	first, err := c.Compose(context.Background(), brief)
	require.NoError(t, err)
	second, err := c.Compose(context.Background(), brief)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompose_SkipsEmptyCategories(t *testing.T) {
	c := composer.New(staticReader{fw: domain.Framework{
		domain.CategoryStories: {"{company} did {tactic}."},
	}})

	script, err := c.Compose(context.Background(), composer.Brief{Company: "Apple", Tactic: "decoy pricing"})
	require.NoError(t, err)
	require.Len(t, script.Sections, 1)
	assert.Equal(t, "Apple did decoy pricing.", script.Text)
}

func TestCompose_HooksFallBackToExtraHooks(t *testing.T) {
	c := composer.New(staticReader{fw: domain.Framework{
		domain.CategoryExtraHooks: {"extra {company}"},
	}})

	script, err := c.Compose(context.Background(), composer.Brief{Company: "Nike"})
	require.NoError(t, err)
	require.Len(t, script.Sections, 1)
	assert.Equal(t, domain.CategoryHooks, script.Sections[0].Category)
	assert.Equal(t, "extra Nike", script.Sections[0].Text)
}

func TestPool_MixesExtraHooksOnlyWhenAsked(t *testing.T) {
	fw := domain.Framework{
		domain.CategoryHooks:      {"h"},
		domain.CategoryExtraHooks: {"e"},
	}
	assert.Equal(t, []string{"h"}, composer.Pool(fw, domain.CategoryHooks, false))
	assert.Equal(t, []string{"h", "e"}, composer.Pool(fw, domain.CategoryHooks, true))
	assert.Equal(t, []string{"h"}, fw[domain.CategoryHooks], "merging must not alias the framework")
	assert.Empty(t, composer.Pool(fw, domain.CategoryStories, true))
}

func TestCompose_Errors(t *testing.T) {
	_, err := composer.New(staticReader{fw: domain.NewFramework()}).
		Compose(context.Background(), composer.Brief{Company: "Zara"})
	assert.ErrorIs(t, err, composer.ErrNothingToCompose)

	_, err = composer.New(staticReader{}).Compose(context.Background(), composer.Brief{Company: "  "})
	assert.ErrorIs(t, err, composer.ErrInvalidBrief)

	boom := errors.New("boom")
	_, err = composer.New(staticReader{err: boom}).Compose(context.Background(), composer.Brief{Company: "Zara"})
	assert.ErrorIs(t, err, boom)
}

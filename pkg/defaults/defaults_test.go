package defaults_test

import (
	"testing"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/defaults"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_AllCategoriesPopulated(t *testing.T) {
	fw := defaults.Default()

	assert.Len(t, fw, len(domain.AllCategories()))
	for _, c := range domain.AllCategories() {
		assert.NotEmpty(t, fw[c], "default category %s should not be empty", c)
	}
}

func TestDefault_Immutability(t *testing.T) {
	first := defaults.Default()
	first[domain.CategoryHooks][0] = "mutated"
	first[domain.CategoryStories] = nil
	delete(first, domain.CategoryExtraHooks)

	second := defaults.Default()
	assert.NotEqual(t, "mutated", second[domain.CategoryHooks][0])
	assert.NotEmpty(t, second[domain.CategoryStories])
	assert.Contains(t, second, domain.CategoryExtraHooks)
}

func TestParse(t *testing.T) {
	fw, err := defaults.Parse([]byte("hooks:\n  - one\n  - two\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, fw[domain.CategoryHooks])
	assert.Equal(t, []string{}, fw[domain.CategoryStories])

	_, err = defaults.Parse([]byte("notACategory:\n  - x\n"))
	assert.Error(t, err)

	_, err = defaults.Parse([]byte("hooks: [unterminated"))
	assert.Error(t, err)
}

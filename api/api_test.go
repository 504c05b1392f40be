package api_test

import (
	"testing"

	"github.com/Moosa-Imran/Content-Machine-sub001/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	doc, err := api.Load()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.NotNil(t, doc.Paths.Find("/framework"))
	assert.NotNil(t, doc.Components.Schemas["FrameworkInput"])
}

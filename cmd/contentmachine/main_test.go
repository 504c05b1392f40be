package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestFrameworkCommands(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "framework.json")

	out, err := run(t, "framework", "show", "-o", "json", "--driver", "file", "--store-path", store)
	require.NoError(t, err)
	var fw map[string][]string
	require.NoError(t, json.Unmarshal([]byte(out), &fw))
	assert.Len(t, fw, 5)
	assert.FileExists(t, store)

	edit := filepath.Join(dir, "edit.yaml")
	require.NoError(t, os.WriteFile(edit, []byte("psychologies:\n  - Social proof\n"), 0644))
	out, err = run(t, "framework", "save", "-f", edit, "--driver", "file", "--store-path", store)
	require.NoError(t, err)
	assert.Contains(t, out, "Framework saved")

	out, err = run(t, "framework", "show", "-o", "json", "--driver", "file", "--store-path", store)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &fw))
	assert.Equal(t, []string{"Social proof"}, fw[string(domain.CategoryPsychologies)])
	assert.Equal(t, []string{}, fw[string(domain.CategoryHooks)])

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("intros: [hi]\n"), 0644))
	_, err = run(t, "framework", "save", "-f", bad, "--driver", "file", "--store-path", store)
	require.Error(t, err)
	assert.Contains(t, exitMessage(err), "framework rejected")

	out, err = run(t, "framework", "reset", "--driver", "file", "--store-path", store)
	require.NoError(t, err)
	assert.Contains(t, out, "reset to defaults")
}

func TestComposeCommand(t *testing.T) {
	out, err := run(t, "compose", "Acme", "--tactic", "scarcity", "--driver", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "contentmachine version")
}

func TestUnknownDriver(t *testing.T) {
	_, err := run(t, "framework", "show", "--driver", "cassandra")
	assert.ErrorContains(t, err, "unknown store driver")
}

package merge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDictionaryMatcher_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	content := "aliases:\n  - [robert, bob, rob]\n  - [william, bill]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := LoadDictionaryMatcher(path)
	require.NoError(t, err)
	assert.True(t, m.Similar("bob marley", "robert marley"))
	assert.True(t, m.Similar("bill gates", "william gates"))
	assert.False(t, m.Similar("bob marley", "william marley"))
}

func TestLoadDictionaryMatcher_MissingFile(t *testing.T) {
	_, err := LoadDictionaryMatcher(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadDictionaryMatcher_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aliases: {not: a list"), 0o644))

	_, err := LoadDictionaryMatcher(path)
	assert.Error(t, err)
}

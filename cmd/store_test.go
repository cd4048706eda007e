package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manasnilorout-blv/decode-contacts/internal/config"
)

func TestInitStoreSQLite(t *testing.T) {
	orig := cfg
	t.Cleanup(func() { cfg = orig })

	cfg = &config.Config{}
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = filepath.Join(t.TempDir(), "contacts.db")

	st, err := initStore(context.Background())
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Migrate(context.Background()))
}

func TestInitStoreUnsupportedDriver(t *testing.T) {
	orig := cfg
	t.Cleanup(func() { cfg = orig })

	cfg = &config.Config{}
	cfg.Store.Driver = "mysql"

	_, err := initStore(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

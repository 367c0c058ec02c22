package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/feasibility-cli/internal/config"
	"github.com/sells-group/feasibility-cli/internal/store"
)

func TestInitStore(t *testing.T) {
	ctx := context.Background()

	st, err := initStore(ctx, config.StoreConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, st)
	require.NoError(t, st.Close())

	st, err = initStore(ctx, config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	assert.IsType(t, &store.SQLiteStore{}, st)
	last, err := st.LastAnalysis(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)
	require.NoError(t, st.Close())

	_, err = initStore(ctx, config.StoreConfig{Driver: "mongo"})
	assert.Error(t, err)
}

func TestInitAPI(t *testing.T) {
	api, err := initAPI(config.APIConfig{BaseURL: "http://localhost:8000", TimeoutSecs: 20, MaxAttempts: 3, RateLimit: 10, Fallback: "transient"})
	require.NoError(t, err)
	assert.NotNil(t, api)

	_, err = initAPI(config.APIConfig{Fallback: "sometimes"})
	assert.Error(t, err)
}

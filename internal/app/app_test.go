package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/sip/internal/config"
	"github.com/MrSnakeDoc/sip/internal/domain"
	"github.com/MrSnakeDoc/sip/internal/logger"
)

func TestLoadCatalog(t *testing.T) {
	require.Equal(t, domain.DefaultCatalog(), loadCatalog("", logger.Nop()))
	require.Equal(t, domain.DefaultCatalog(), loadCatalog(filepath.Join(t.TempDir(), "missing.yaml"), logger.Nop()))

	path := filepath.Join(t.TempDir(), "drinks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("drinks:\n  - name: Mate\n    factor: 0.9\n"), 0o600))
	require.Equal(t, []domain.DrinkType{{Name: "Mate", Factor: 0.9}}, loadCatalog(path, logger.Nop()))
}

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()

	st, err := openStorage(ctx, &config.Config{StoreBackend: config.BackendMemory}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, st.kv.Set(ctx, "k", "v"))

	dir := filepath.Join(t.TempDir(), "data")
	st, err = openStorage(ctx, &config.Config{StoreBackend: config.BackendFile, DataDir: dir}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, st.kv.Set(ctx, "drinkTracker.v1", "{}"))
	v, err := st.kv.Get(ctx, "drinkTracker.v1")
	require.NoError(t, err)
	require.Equal(t, "{}", v)
	st.close(logger.Nop())

	_, err = openStorage(ctx, &config.Config{StoreBackend: "sqlite"}, logger.Nop())
	require.Error(t, err)
}

package tokenpress

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avaldez/tokenpress/pkg/tokenpress/cache"
	"github.com/avaldez/tokenpress/pkg/tokenpress/config"
	"github.com/avaldez/tokenpress/pkg/tokenpress/replace"
)

func TestNew_Defaults(t *testing.T) {
	p := New()

	assert.Equal(t, replace.PolicyFail, p.Policy())
	assert.False(t, p.strict)
	assert.False(t, p.allowEmpty)
	assert.False(t, p.warnOnUnused)
	assert.Equal(t, replace.MissingPlaceholder, p.placeholder)
	assert.NotNil(t, p.extractor)
}

func TestWithCacheStore_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	store, err := cache.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	dir := t.TempDir()
	path := writeTemplate(t, dir, "a.html", "{{client_name}}")

	p := New(WithCacheStore(store))
	_, err = p.ProcessOne(context.Background(), Input{Path: path}, testConfig())
	require.NoError(t, err)

	// The extraction landed in the shared store
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	entry, err := store.Load(abs)
	require.NoError(t, err)
	assert.Equal(t, []string{"client_name"}, entry.Tokens)
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := New(WithLogger(logger), WithPolicy(replace.PolicyWarn))
	_, err := p.ProcessOne(context.Background(), Input{
		Name: "greeting",
		Text: "Hi {{nobody}}",
	}, config.New(nil))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "token missing")
	assert.Contains(t, out, "nobody")
	assert.Contains(t, out, "template processed")
}

func TestWithMetricsAndTracing(t *testing.T) {
	// Observability enabled must not change processing behavior
	p := New(WithMetrics(true), WithTracing(true))

	res, err := p.ProcessOne(context.Background(), Input{Text: "Hi {{client_name}}"}, testConfig())

	require.NoError(t, err)
	assert.Equal(t, "Hi María González", res.Output)
}

func TestWithConcurrency_IgnoresNonPositive(t *testing.T) {
	p := New(WithConcurrency(0))
	assert.Equal(t, 0, p.concurrency)

	p = New(WithConcurrency(-3))
	assert.Equal(t, 0, p.concurrency)

	p = New(WithConcurrency(8))
	assert.Equal(t, 8, p.concurrency)
}

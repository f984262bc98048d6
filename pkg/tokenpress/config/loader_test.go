package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFromJSON(t *testing.T) {
	c, err := FromJSON([]byte(`{
		"client_name": "María González",
		"payment": {"amount": "$1,500"},
		"slides": 12
	}`))
	require.NoError(t, err)

	assert.Equal(t, "María González", c.String("client_name", ""))
	assert.Equal(t, "$1,500", c.Lookup("payment.amount").Value)
	assert.Equal(t, 12, c.Int("slides", 0))
}

func TestFromJSON_Invalid(t *testing.T) {
	_, err := FromJSON([]byte("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse json")
}

func TestFromYAML(t *testing.T) {
	c, err := FromYAML([]byte(`
client_name: María González
payment:
  amount: "$1,500"
  currency: USD
`))
	require.NoError(t, err)

	assert.Equal(t, "María González", c.String("client_name", ""))
	assert.Equal(t, "USD", c.Lookup("payment.currency").Value)
}

func TestFromYAML_Invalid(t *testing.T) {
	_, err := FromYAML([]byte("a: [unclosed"))
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	t.Run("json by extension", func(t *testing.T) {
		path := writeFile(t, "client.json", `{"client_name": "X"}`)
		c, err := FromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "X", c.String("client_name", ""))
	})

	t.Run("yaml by extension", func(t *testing.T) {
		path := writeFile(t, "client.yaml", "client_name: Y")
		c, err := FromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Y", c.String("client_name", ""))
	})

	t.Run("yml by extension", func(t *testing.T) {
		path := writeFile(t, "client.yml", "client_name: Z")
		c, err := FromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Z", c.String("client_name", ""))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, "client.toml", "x = 1")
		_, err := FromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported config file extension")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := FromFile(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `
app:
  name: test-ingestor
logger:
  level: info
  encoding: json
reddit:
  client_id: id
  client_secret: secret
  user_agent: "test/1.0"
taxonomy:
  categories:
    - name: Game
      keywords: [Starfield, "Elden Ring"]
    - name: Console
      keywords: [PS5]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "api", cfg.Reddit.Source)
	assert.Equal(t, "gaming", cfg.Reddit.Subreddit)
	assert.Equal(t, 10*time.Second, cfg.Reddit.PollInterval)
	assert.Equal(t, 100, cfg.Reddit.PageSize)
	assert.Equal(t, 5, cfg.Ingestor.ReconnectMaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Ingestor.ReconnectBaseBackoff)
	assert.Equal(t, "0 9 * * *", cfg.Digest.Cron)
}

func TestLoad_PreservesTaxonomyOrder(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	require.Len(t, cfg.Taxonomy.Categories, 2)
	assert.Equal(t, "Game", cfg.Taxonomy.Categories[0].Name)
	assert.Equal(t, []string{"Starfield", "Elden Ring"}, cfg.Taxonomy.Categories[0].Keywords)
	assert.Equal(t, "Console", cfg.Taxonomy.Categories[1].Name)
}

func TestLoad_RejectsMissingCredentialsForAPISource(t *testing.T) {
	content := `
reddit:
  source: api
taxonomy:
  categories:
    - name: Game
      keywords: [Starfield]
`
	_, err := Load(writeConfig(t, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client_id")
}

func TestLoad_RSSSourceNeedsNoCredentials(t *testing.T) {
	content := `
reddit:
  source: rss
taxonomy:
  categories:
    - name: Game
      keywords: [Starfield]
`
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)
	assert.Equal(t, "rss", cfg.Reddit.Source)
}

func TestLoad_RejectsEmptyTaxonomy(t *testing.T) {
	content := `
reddit:
  source: rss
`
	_, err := Load(writeConfig(t, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "taxonomy")
}

func TestLoad_RejectsUnknownSource(t *testing.T) {
	content := `
reddit:
  source: firehose
taxonomy:
  categories:
    - name: Game
      keywords: [Starfield]
`
	_, err := Load(writeConfig(t, content))
	require.Error(t, err)
}

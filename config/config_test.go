package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
llm:
  provider: ollama
  base_url: http://gpu-box:11434
  timeout: 90s
wizard:
  default_language: Spanish
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
	assert.Equal(t, ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, "llama3.2", cfg.LLM.Model)
	assert.Equal(t, "http://gpu-box:11434", cfg.LLM.BaseURL)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "Spanish", cfg.Wizard.DefaultLanguage)
	assert.False(t, cfg.Debug)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", cfg.Server.Addr())
	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	assert.Equal(t, GeminiBaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, "API_KEY", cfg.LLM.APIKeyEnv)
	require.NotNil(t, cfg.LLM.Temperature)
	require.NotNil(t, cfg.LLM.TopP)
	assert.Equal(t, 0.5, *cfg.LLM.Temperature)
	assert.Equal(t, 0.95, *cfg.LLM.TopP)
	assert.Zero(t, cfg.LLM.Timeout)
	assert.Equal(t, "English", cfg.Wizard.DefaultLanguage)
}

func TestLoadKeepsExplicitZeroSampling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  temperature: 0\n  top_p: 0\n"), 0600))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.LLM.Temperature)
	require.NotNil(t, cfg.LLM.TopP)
	assert.Zero(t, *cfg.LLM.Temperature)
	assert.Zero(t, *cfg.LLM.TopP)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [\n"), 0600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolveSecrets(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.LLM.APIKeyEnv = "DOC_WIZARD_TEST_KEY"

	t.Setenv("DOC_WIZARD_TEST_KEY", "")
	assert.Error(t, cfg.ResolveSecrets())

	t.Setenv("DOC_WIZARD_TEST_KEY", "s3cret")
	require.NoError(t, cfg.ResolveSecrets())
	assert.Equal(t, "s3cret", cfg.LLM.APIKey)
}

func TestResolveSecretsOptionalForLocalProviders(t *testing.T) {
	for _, p := range []string{ProviderMock, ProviderOllama} {
		cfg := &Config{LLM: LLMConfig{Provider: p}}
		ApplyDefaults(cfg)
		cfg.LLM.APIKeyEnv = "DOC_WIZARD_UNSET_KEY"
		t.Setenv("DOC_WIZARD_UNSET_KEY", "")
		assert.NoError(t, cfg.ResolveSecrets(), p)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("DOC_WIZARD_DOTENV=from-file\n"), 0600))
	t.Setenv("DOC_WIZARD_DOTENV", "")
	require.NoError(t, os.Unsetenv("DOC_WIZARD_DOTENV"))

	require.NoError(t, LoadEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv("DOC_WIZARD_DOTENV"))
}

package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vovarama1992/whatsapp-health-bot/internal/config"
	"github.com/Vovarama1992/whatsapp-health-bot/internal/knowledge"
)

func TestBuildProvidersOrder(t *testing.T) {
	pc := config.ProvidersConfig{
		Order:  []string{"openai", "gemini", "huggingface"},
		OpenAI: config.OpenAIConfig{APIKey: "k"},
	}
	providers, err := buildProviders(pc, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, providers, 3)

	assert.Equal(t, "openai", providers[0].Name())
	assert.True(t, providers[0].Available())
	assert.Equal(t, "gemini", providers[1].Name())
	assert.False(t, providers[1].Available())
	assert.Equal(t, "huggingface", providers[2].Name())
	assert.False(t, providers[2].Available())
}

func TestBuildProvidersUnknown(t *testing.T) {
	_, err := buildProviders(config.ProvidersConfig{Order: []string{"nope"}}, zap.NewNop())
	assert.Error(t, err)
}

func TestLoadCorpusFailureIsReported(t *testing.T) {
	_, err := loadCorpus(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	c, err := loadCorpus("")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Questions)
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCorpusAddAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")
	c, err := knowledge.Default()
	require.NoError(t, err)
	require.NoError(t, c.Save(path))

	out, err := runCLI(t, "corpus", "add", "--path", path, "--keywords", "rash,itching", "--reply", "en=Keep the skin clean.")
	require.NoError(t, err)
	assert.Contains(t, out, "added entry")

	out, err = runCLI(t, "corpus", "validate", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok: 11 topics")

	reloaded, err := knowledge.Load(path)
	require.NoError(t, err)
	last := reloaded.Questions[len(reloaded.Questions)-1]
	assert.Equal(t, []string{"rash", "itching"}, last.Keywords)
}

func TestAskUsesKnowledgeBase(t *testing.T) {
	for _, k := range []string{"GOOGLE_LLM_API_KEY", "HUGGINGFACE_API_KEY", "OPENAI_API_KEY", "CORPUS_PATH"} {
		t.Setenv(k, "")
	}

	out, err := runCLI(t, "ask", "flu", "symptoms")
	require.NoError(t, err)
	assert.Contains(t, out, "language: en")
	assert.Contains(t, out, "tier:     knowledge_base")
}

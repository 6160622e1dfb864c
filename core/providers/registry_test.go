package providers

import (
	"context"
	"testing"

	coreerrors "github.com/andrelmaraujo/mandacaru/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_FirstRegisteredIsDefault(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeProvider{name: "openai"}))
	require.NoError(t, r.Register(&fakeProvider{name: "anthropic"}))

	def, err := r.Default()
	require.NoError(t, err)
	assert.Equal(t, "openai", def.Name())

	require.NoError(t, r.SetDefault(ProviderTypeAnthropic))
	def, err = r.Default()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", def.Name())

	assert.Equal(t, []ProviderType{ProviderTypeAnthropic, ProviderTypeOpenAI}, r.Available())
}

func TestRegistry_UnknownProvider(t *testing.T) {
	r := NewRegistry()

	_, err := r.Default()
	assert.Error(t, err)

	_, err = r.Get(ProviderTypeGoogle)
	assert.Error(t, err)

	assert.Error(t, r.SetDefault(ProviderTypeGoogle))
}

func TestRegistry_GetForModel(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeProvider{name: "fake"}))

	p, err := r.GetForModel("fake-1")
	require.NoError(t, err)
	assert.Equal(t, "fake", p.Name())

	_, err = r.GetForModel("gpt-4o")
	assert.Error(t, err)
}

func TestRegistryBuilder_MissingKeyIsUserFixable(t *testing.T) {
	_, err := NewRegistryBuilder(context.Background()).
		WithOpenAI(OpenAIConfig{}).
		Build()

	require.Error(t, err)
	assert.ErrorIs(t, err, coreerrors.ErrMissingAPIKey)
	assert.Equal(t, coreerrors.TierUserFixable, coreerrors.GetTier(err))
}

func TestRegistryBuilder_Builds(t *testing.T) {
	cfg := DefaultOpenAIConfig()
	cfg.APIKey = "sk-test"

	r, err := NewRegistryBuilder(context.Background()).
		WithOpenAI(cfg).
		WithProvider(&fakeProvider{name: "fake"}).
		WithDefault(ProviderTypeOpenAI).
		Build()
	require.NoError(t, err)

	def, err := r.Default()
	require.NoError(t, err)
	assert.Equal(t, "openai", def.Name())
	assert.Equal(t, string(GPT4o), def.DefaultModel())
	assert.NoError(t, r.Close())
}

func TestParseProviderType(t *testing.T) {
	pt, err := ParseProviderType("google")
	require.NoError(t, err)
	assert.Equal(t, ProviderTypeGoogle, pt)

	_, err = ParseProviderType("llama")
	assert.Equal(t, coreerrors.TierUserFixable, coreerrors.GetTier(err))
}

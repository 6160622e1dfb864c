package persona_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/andrelmaraujo/mandacaru/agents/persona"
	"github.com/andrelmaraujo/mandacaru/core/conversation"
	"github.com/andrelmaraujo/mandacaru/core/providers"
	"github.com/andrelmaraujo/mandacaru/core/providers/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw    string
		want   persona.ID
		wantOK bool
	}{
		{"compadre", persona.Motivator, true},
		{"  Contra \n", persona.Skeptic, true},
		{"ARQUITETO", persona.Architect, true},
		{"Contra!", "", false},
		{"\"contra\"", "", false},
		{"o contra", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := persona.Parse(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalog(t *testing.T) {
	for _, id := range persona.IDs {
		p, ok := persona.Lookup(id)
		require.True(t, ok, id)
		assert.Equal(t, id, p.ID)
		assert.NotEmpty(t, p.DisplayName)
		assert.NotEmpty(t, p.SystemInstruction)
	}

	assert.Equal(t, "Arquiteto", persona.MustLookup(persona.Architect).DisplayName)
	assert.Panics(t, func() { persona.MustLookup("guide") })
	assert.Equal(t, persona.Skeptic, persona.Fallback)
}

func TestBuildContext_ForwardsContentOnly(t *testing.T) {
	history := conversation.History{
		conversation.AgentText("Compadre", "Opa! Me conta mais dessa ideia aí!"),
		conversation.UserText("Quero vender cuscuz gourmet."),
		conversation.AgentText("Arquiteto", "Analisei aqui e preparei algo para você:"),
		conversation.AgentArtifact(conversation.TypeMission, json.RawMessage(`{"title":"T","description":"D"}`)),
		{Role: "system", Content: "ignored"},
	}

	got := persona.BuildContext("instrução", history)

	want := []providers.Message{
		{Role: providers.RoleSystem, Content: "instrução"},
		{Role: providers.RoleAssistant, Content: "Opa! Me conta mais dessa ideia aí!"},
		{Role: providers.RoleUser, Content: "Quero vender cuscuz gourmet."},
		{Role: providers.RoleAssistant, Content: "Analisei aqui e preparei algo para você:"},
		{Role: providers.RoleAssistant, Content: ""},
	}
	assert.Equal(t, want, got)
}

func TestTextExecutor_WrapsReplyVerbatim(t *testing.T) {
	gen := mocks.NewMockGenerator(t)
	history := conversation.History{conversation.UserText("Tenho uma ideia")}

	gen.On("Generate", mock.Anything, persona.BuildContext(persona.SkepticInstruction, history)).
		Return("  Quem já pagou por isso?\n", nil).Once()

	exec := persona.NewTextExecutor(persona.MustLookup(persona.Skeptic), gen, nil)
	out, err := exec.Execute(context.Background(), history)
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, conversation.AgentText("Contra", "  Quem já pagou por isso?\n"), out[0])
}

func TestTextExecutor_Idempotent(t *testing.T) {
	gen := providers.GeneratorFunc(func(_ context.Context, msgs []providers.Message) (string, error) {
		return "eco: " + msgs[len(msgs)-1].Content, nil
	})
	exec := persona.NewTextExecutor(persona.MustLookup(persona.Motivator), gen, nil)
	history := conversation.History{conversation.UserText("bora?")}

	first, err := exec.Execute(context.Background(), history)
	require.NoError(t, err)
	second, err := exec.Execute(context.Background(), history)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "Compadre", first[0].AgentName)
}

func TestTextExecutor_PropagatesGenerationError(t *testing.T) {
	gen := mocks.NewMockGenerator(t)
	boom := errors.New("quota")
	gen.On("Generate", mock.Anything, mock.Anything).Return("", boom).Once()

	exec := persona.NewTextExecutor(persona.MustLookup(persona.Motivator), gen, nil)
	out, err := exec.Execute(context.Background(), conversation.History{conversation.UserText("oi")})

	assert.Nil(t, out)
	assert.ErrorIs(t, err, boom)
}

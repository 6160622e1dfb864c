package architect_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/andrelmaraujo/mandacaru/agents/architect"
	"github.com/andrelmaraujo/mandacaru/agents/persona"
	"github.com/andrelmaraujo/mandacaru/core/conversation"
	"github.com/andrelmaraujo/mandacaru/core/providers"
	"github.com/andrelmaraujo/mandacaru/core/providers/mocks"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func replying(reply string) providers.Generator {
	return providers.GeneratorFunc(func(context.Context, []providers.Message) (string, error) {
		return reply, nil
	})
}

var history = conversation.History{
	conversation.AgentText("Compadre", "Opa! Me conta mais dessa ideia aí!"),
	conversation.UserText("Público: feirantes. Problema: controle de estoque. Solução: app simples."),
}

func TestExecutor_MissionInFence(t *testing.T) {
	exec := architect.New(replying("```json\n{\"type\":\"mission\",\"data\":{\"title\":\"T\",\"description\":\"D\"}}\n```"), architect.Config{})

	out, err := exec.Execute(context.Background(), history)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, conversation.AgentText("Arquiteto", architect.Preamble), out[0])

	assert.Equal(t, conversation.RoleAgent, out[1].Role)
	assert.Equal(t, conversation.TypeMission, out[1].Type)
	assert.Equal(t, conversation.SystemAgentName, out[1].AgentName)
	assert.Empty(t, out[1].Content)
	assert.JSONEq(t, `{"title":"T","description":"D"}`, string(out[1].Data))
}

func TestExecutor_CanvasRaw(t *testing.T) {
	raw := `{"type":"canvas","data":{"problem":"p","solution":"s","audience":"a","differential":"d"}}`
	out, err := architect.New(replying(raw), architect.Config{}).Execute(context.Background(), history)
	require.NoError(t, err)
	require.Len(t, out, 2)

	canvas, err := out[1].Canvas()
	require.NoError(t, err)
	assert.Equal(t, conversation.Canvas{Problem: "p", Solution: "s", Audience: "a", Differential: "d"}, canvas)
}

func TestExecutor_FallbackKeepsOriginalText(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"prose", "Acho que precisamos de mais dados."},
		{"unsupported type", `{"type":"feedback","data":{"note":"falta público"}}`},
		{"unsupported type in fence", "Segue:\n```json\n{\"type\":\"feedback\",\"data\":{}}\n```\n"},
		{"malformed fence", "```json\n{\"type\": \"mission\"\n```"},
		{"null data in fence", "Aqui:\n```json\n{\"type\":\"mission\",\"data\":null}\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := architect.New(replying(tt.reply), architect.Config{}).Execute(context.Background(), history)
			require.NoError(t, err)

			want := []conversation.Message{conversation.AgentText("Arquiteto", tt.reply)}
			if diff := cmp.Diff(want, out); diff != "" {
				t.Errorf("Execute() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExecutor_UsesArchitectInstruction(t *testing.T) {
	gen := mocks.NewMockGenerator(t)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(msgs []providers.Message) bool {
		return len(msgs) == len(history)+1 &&
			msgs[0].Role == providers.RoleSystem &&
			msgs[0].Content == persona.ArchitectInstruction
	})).Return("Vamos organizar: quem é o cliente?", nil).Once()

	out, err := architect.New(gen, architect.Config{}).Execute(context.Background(), history)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestExecutor_CustomInstruction(t *testing.T) {
	gen := mocks.NewMockGenerator(t)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(msgs []providers.Message) bool {
		return msgs[0].Content == "only json"
	})).Return(`{"type":"mission","data":{"title":"x"}}`, nil).Once()

	out, err := architect.New(gen, architect.Config{SystemInstruction: "only json"}).Execute(context.Background(), history)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestExecutor_GenerationErrorPropagates(t *testing.T) {
	boom := errors.New("upstream down")
	gen := providers.GeneratorFunc(func(context.Context, []providers.Message) (string, error) {
		return "", boom
	})

	out, err := architect.New(gen, architect.Config{}).Execute(context.Background(), history)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, boom)
}

func TestExecutor_Idempotent(t *testing.T) {
	exec := architect.New(replying(`{"type":"mission","data":{"title":"T","description":"D"}}`), architect.Config{})

	first, err := exec.Execute(context.Background(), history)
	require.NoError(t, err)
	second, err := exec.Execute(context.Background(), history)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated Execute() differs (-first +second):\n%s", diff)
	}
	var mission conversation.Mission
	require.NoError(t, json.Unmarshal(first[1].Data, &mission))
	assert.Equal(t, "T", mission.Title)
}

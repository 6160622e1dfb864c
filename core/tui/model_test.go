package tui

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/andrelmaraujo/mandacaru/core/conversation"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type turnerFunc func(ctx context.Context, h conversation.History) ([]conversation.Message, error)

func (f turnerFunc) Turn(ctx context.Context, h conversation.History) ([]conversation.Message, error) {
	return f(ctx, h)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestNew_SeedsGreeting(t *testing.T) {
	m := New(context.Background(), nil)

	h := m.History()
	require.Len(t, h, 1)
	assert.Equal(t, conversation.AgentText("Compadre", Greeting), h[0])
	assert.Contains(t, m.View(), "Compadre")
}

func TestEnter_SendsFullHistory(t *testing.T) {
	var got conversation.History
	turner := turnerFunc(func(_ context.Context, h conversation.History) ([]conversation.Message, error) {
		got = h
		return []conversation.Message{conversation.AgentText("Contra", "Quem paga por isso?")}, nil
	})

	m := New(context.Background(), turner)
	m.input.SetValue("  Quero vender marmitas  ")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.waiting)
	assert.Empty(t, m.input.Value())
	require.Len(t, m.history, 2)
	assert.Equal(t, conversation.UserText("Quero vender marmitas"), m.history[1])

	result := m.runTurn(m.History())()
	require.IsType(t, turnResultMsg{}, result)
	assert.Len(t, got, 2)

	m, _ = update(t, m, result)
	assert.False(t, m.waiting)
	require.Len(t, m.history, 3)
	assert.Equal(t, "Contra", m.history[2].AgentName)
}

func TestEnter_IgnoredWhileWaitingOrEmpty(t *testing.T) {
	m := New(context.Background(), nil)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Len(t, m.history, 1)

	m.waiting = true
	m.input.SetValue("oi")
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Len(t, m.history, 1)
}

func TestTurnError_KeepsHistoryAndShowsError(t *testing.T) {
	m := New(context.Background(), nil)
	m.history = m.history.Append(conversation.UserText("oi"))
	m.waiting = true

	m, _ = update(t, m, turnResultMsg{err: errors.New("generation service down")})
	assert.False(t, m.waiting)
	assert.Len(t, m.history, 2)
	assert.Contains(t, m.View(), "generation service down")
}

func TestRender_Artifacts(t *testing.T) {
	m := New(context.Background(), nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	mission := conversation.AgentArtifact(conversation.TypeMission,
		json.RawMessage(`{"title":"Validar preço","description":"Pergunte a 10 clientes"}`))
	out := m.renderMessage(mission)
	assert.Contains(t, out, "Validar preço")
	assert.Contains(t, out, "Pergunte a 10 clientes")

	canvas := conversation.AgentArtifact(conversation.TypeCanvas,
		json.RawMessage(`{"problem":"fome","solution":"marmita","audience":"estudantes","differential":"preço"}`))
	out = m.renderMessage(canvas)
	for _, want := range []string{"Problema", "fome", "Solução", "marmita", "Público", "estudantes", "Diferencial"} {
		assert.Contains(t, out, want)
	}
}

func TestQuitKeys(t *testing.T) {
	m := New(context.Background(), nil)
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		_, cmd := update(t, m, tea.KeyMsg{Type: k})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

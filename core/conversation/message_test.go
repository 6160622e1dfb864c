package conversation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_JSONShape(t *testing.T) {
	msg := AgentArtifact(TypeMission, json.RawMessage(`{"title":"T","description":"D"}`))

	out, err := json.Marshal(msg)
	require.NoError(t, err)

	assert.JSONEq(t, `{"role":"agent","agentName":"System","content":"","type":"mission","data":{"title":"T","description":"D"}}`, string(out))
}

func TestMessage_TextOmitsData(t *testing.T) {
	out, err := json.Marshal(AgentText("Contra", "Quem paga?"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"role":"agent","agentName":"Contra","content":"Quem paga?","type":"text"}`, string(out))
}

func TestAgentArtifact_CopiesPayload(t *testing.T) {
	raw := json.RawMessage(`{"title":"T"}`)
	msg := AgentArtifact(TypeMission, raw)

	raw[2] = 'X'

	assert.Equal(t, `{"title":"T"}`, string(msg.Data))
}

func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		wantErr error
	}{
		{name: "user text", msg: UserText("oi")},
		{name: "agent text", msg: AgentText("Compadre", "bora")},
		{name: "untyped user", msg: Message{Role: RoleUser, Content: "oi"}},
		{name: "unknown role", msg: Message{Role: "system", Content: "x"}, wantErr: ErrInvalidRole},
		{name: "user with agent name", msg: Message{Role: RoleUser, AgentName: "Contra"}, wantErr: ErrInvalidMessage},
		{name: "unknown type", msg: Message{Role: RoleAgent, Type: "feedback"}, wantErr: ErrInvalidMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMessage_ArtifactViews(t *testing.T) {
	mission := AgentArtifact(TypeMission, json.RawMessage(`{"title":"Entrevistar","description":"Fale com 10 clientes"}`))
	m, err := mission.Mission()
	require.NoError(t, err)
	assert.Equal(t, Mission{Title: "Entrevistar", Description: "Fale com 10 clientes"}, m)

	_, err = mission.Canvas()
	assert.ErrorIs(t, err, ErrNotArtifact)

	canvas := AgentArtifact(TypeCanvas, json.RawMessage(`{"problem":"p","solution":"s","audience":"a","differential":"d"}`))
	c, err := canvas.Canvas()
	require.NoError(t, err)
	assert.Equal(t, "d", c.Differential)
}

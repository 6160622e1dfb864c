package conversation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_AppendDoesNotAlias(t *testing.T) {
	base := make(History, 1, 8)
	base[0] = UserText("oi")

	a := base.Append(AgentText("Compadre", "opa"))
	b := base.Append(AgentText("Contra", "prove"))

	assert.Len(t, base, 1)
	assert.Equal(t, "opa", a[1].Content)
	assert.Equal(t, "prove", b[1].Content)
}

func TestHistory_Last(t *testing.T) {
	h := History{UserText("1"), UserText("2"), UserText("3")}

	assert.Len(t, h.Last(5), 3)
	assert.Equal(t, History{UserText("2"), UserText("3")}, h.Last(2))
	assert.Empty(t, h.Last(0))
}

func TestHistory_HasAgentTurn(t *testing.T) {
	assert.False(t, History{}.HasAgentTurn())
	assert.False(t, History{UserText("a"), UserText("b")}.HasAgentTurn())
	assert.True(t, History{UserText("a"), AgentText("Contra", "b")}.HasAgentTurn())
}

func TestHistory_Clone(t *testing.T) {
	h := History{AgentArtifact(TypeCanvas, json.RawMessage(`{"problem":"p"}`))}
	c := h.Clone()

	c[0].Data[0] = '['

	assert.Equal(t, byte('{'), h[0].Data[0])
}

func TestHistory_Validate(t *testing.T) {
	assert.NoError(t, History{UserText("a")}.Validate())
	assert.ErrorIs(t, History{UserText("a"), {Role: "bot"}}.Validate(), ErrInvalidRole)
}

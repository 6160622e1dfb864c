package architect

import (
	"testing"

	"github.com/andrelmaraujo/mandacaru/core/conversation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFencedBlock(t *testing.T) {
	tests := []struct {
		name   string
		open   string
		text   string
		want   string
		wantOK bool
	}{
		{"json fence", jsonFence, "pronto:\n```json\n{\"a\":1}\n```\nfim", `{"a":1}`, true},
		{"first json block wins", jsonFence, "```json\n{\"a\":1}\n```\n```json\n{\"b\":2}\n```", `{"a":1}`, true},
		{"unterminated", jsonFence, "```json\n{\"a\":1}", `{"a":1}`, true},
		{"generic fence", genericFence, "veja\n```\n{\"a\":1}\n```", `{"a":1}`, true},
		{"generic keeps language tag", genericFence, "```yaml\na: 1\n```", "yaml\na: 1", true},
		{"no fence", jsonFence, `{"a":1}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := fencedBlock(tt.open)(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInterpret_StrategyOrder(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		strategy string
	}{
		{"json fence before generic", "```\n{}\n```\n```json\n{\"type\":\"mission\",\"data\":{}}\n```", "json_fence"},
		{"generic fence", "```\n{\"type\":\"canvas\",\"data\":{}}\n```", "generic_fence"},
		{"raw", `{"type":"canvas","data":{}}`, "raw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := Interpret(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.strategy, in.Strategy)
			assert.NotNil(t, in.Artifact)
		})
	}
}

func TestInterpret_Artifacts(t *testing.T) {
	in, err := Interpret("```json\n{\"type\":\"mission\",\"data\":{\"title\":\"T\",\"description\":\"D\"}}\n```")
	require.NoError(t, err)
	require.NotNil(t, in.Artifact)
	assert.Nil(t, in.Failure)
	assert.Equal(t, conversation.TypeMission, in.Artifact.Type)
	assert.JSONEq(t, `{"title":"T","description":"D"}`, string(in.Artifact.Data))

	in, err = Interpret("  {\"type\": \"canvas\", \"data\": {\"problem\": \"p\", \"extra\": [1, 2]}}  ")
	require.NoError(t, err)
	require.NotNil(t, in.Artifact)
	assert.Equal(t, conversation.TypeCanvas, in.Artifact.Type)
	assert.Equal(t, `{"problem": "p", "extra": [1, 2]}`, string(in.Artifact.Data), "payload is forwarded byte for byte")
}

func TestInterpret_ParseFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"prose", "Acho que precisamos de mais dados."},
		{"unsupported type", `{"type":"feedback","data":{"note":"x"}}`},
		{"missing data", `{"type":"mission"}`},
		{"null data", `{"type":"mission","data":null}`},
		{"numeric type", `{"type":1,"data":{}}`},
		{"array", `[{"type":"mission","data":{}}]`},
		{"broken json in fence", "```json\n{\"type\":\"mission\",\n```"},
		{"uppercase fence tag", "```JSON\n{\"type\":\"mission\",\"data\":{}}\n```"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := Interpret(tt.raw)
			require.NoError(t, err)
			assert.Nil(t, in.Artifact)
			assert.ErrorIs(t, in.Failure, ErrParseFailure)
		})
	}
}

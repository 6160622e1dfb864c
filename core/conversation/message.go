// Package conversation defines the chat message model shared by the router,
// the persona executors and the transports.
package conversation

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// Message
// =============================================================================

// Role identifies who produced a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAgent
}

// MessageType tells clients how to render a message.
type MessageType string

const (
	TypeText    MessageType = "text"
	TypeMission MessageType = "mission"
	TypeCanvas  MessageType = "canvas"
)

// IsArtifact reports whether t marks a data-carrying artifact message.
func (t MessageType) IsArtifact() bool {
	return t == TypeMission || t == TypeCanvas
}

// SystemAgentName tags data-carrying artifact messages.
const SystemAgentName = "System"

// Message is one entry of a conversation. Messages are values and are never
// modified once appended to a History.
type Message struct {
	Role      Role            `json:"role"`
	AgentName string          `json:"agentName,omitempty"`
	Content   string          `json:"content"`
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// UserText builds a user message.
func UserText(content string) Message {
	return Message{Role: RoleUser, Content: content, Type: TypeText}
}

// AgentText builds a text message authored by the named persona.
func AgentText(agentName, content string) Message {
	return Message{Role: RoleAgent, AgentName: agentName, Content: content, Type: TypeText}
}

// AgentArtifact builds a data-carrying message. Content stays empty and the
// payload is kept byte for byte.
func AgentArtifact(kind MessageType, data json.RawMessage) Message {
	payload := make(json.RawMessage, len(data))
	copy(payload, data)
	return Message{Role: RoleAgent, AgentName: SystemAgentName, Type: kind, Data: payload}
}

// Validate checks the structural invariants of a single message.
func (m Message) Validate() error {
	if !m.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, m.Role)
	}
	if m.Role == RoleUser && m.AgentName != "" {
		return fmt.Errorf("%w: user message carries agent name %q", ErrInvalidMessage, m.AgentName)
	}
	switch m.Type {
	case "", TypeText, TypeMission, TypeCanvas:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, m.Type)
	}
	return nil
}

// =============================================================================
// Artifacts
// =============================================================================

// Mission is an actionable task handed to the entrepreneur.
type Mission struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Canvas is a condensed lean canvas.
type Canvas struct {
	Problem      string `json:"problem"`
	Solution     string `json:"solution"`
	Audience     string `json:"audience"`
	Differential string `json:"differential"`
}

// Mission decodes the payload of a mission message.
func (m Message) Mission() (Mission, error) {
	var mission Mission
	if m.Type != TypeMission {
		return mission, fmt.Errorf("%w: message type is %q", ErrNotArtifact, m.Type)
	}
	if err := json.Unmarshal(m.Data, &mission); err != nil {
		return mission, fmt.Errorf("decode mission: %w", err)
	}
	return mission, nil
}

// Canvas decodes the payload of a canvas message.
func (m Message) Canvas() (Canvas, error) {
	var canvas Canvas
	if m.Type != TypeCanvas {
		return canvas, fmt.Errorf("%w: message type is %q", ErrNotArtifact, m.Type)
	}
	if err := json.Unmarshal(m.Data, &canvas); err != nil {
		return canvas, fmt.Errorf("decode canvas: %w", err)
	}
	return canvas, nil
}

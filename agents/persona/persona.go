// Package persona holds the fixed conversational personas and the executors
// that let a persona speak over a conversation history.
package persona

import (
	"fmt"
	"strings"
)

// ID is the router vocabulary for a persona.
type ID string

const (
	Motivator ID = "compadre"
	Skeptic   ID = "contra"
	Architect ID = "arquiteto"
)

// Fallback is chosen whenever a routing decision cannot be trusted.
const Fallback = Skeptic

// IDs lists every persona in the order the routing prompt presents them.
var IDs = []ID{Motivator, Skeptic, Architect}

// Persona is an immutable behavioral record.
type Persona struct {
	ID                ID
	DisplayName       string
	SystemInstruction string
}

var catalog = map[ID]Persona{
	Motivator: {ID: Motivator, DisplayName: "Compadre", SystemInstruction: MotivatorInstruction},
	Skeptic:   {ID: Skeptic, DisplayName: "Contra", SystemInstruction: SkepticInstruction},
	Architect: {ID: Architect, DisplayName: "Arquiteto", SystemInstruction: ArchitectInstruction},
}

// Lookup returns the persona registered under id.
func Lookup(id ID) (Persona, bool) {
	p, ok := catalog[id]
	return p, ok
}

// MustLookup is Lookup for the built-in identifiers.
func MustLookup(id ID) Persona {
	p, ok := catalog[id]
	if !ok {
		panic(fmt.Sprintf("persona: unknown id %q", id))
	}
	return p
}

// Parse normalizes a raw answer and matches it exactly against the known
// identifiers. Near-misses such as "Contra!" do not match.
func Parse(raw string) (ID, bool) {
	candidate := ID(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := catalog[candidate]; ok {
		return candidate, true
	}
	return "", false
}

func (id ID) String() string {
	return string(id)
}

package architect

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/andrelmaraujo/mandacaru/core/conversation"
	"github.com/xeipuuv/gojsonschema"
)

// =============================================================================
// Response Interpreter
// =============================================================================
//
// The model is only asked, not forced, to answer with a bare JSON envelope.
// It may wrap the envelope in a fenced block or in prose. Extraction runs an
// ordered list of strategies where the first one that applies wins; decoding
// then either yields an artifact or reports a parse failure, in which case
// the caller keeps the original text.

const (
	jsonFence    = "```json"
	genericFence = "```"
)

// ErrParseFailure marks output that does not hold a usable artifact.
var ErrParseFailure = errors.New("no structured artifact")

// Envelope is the wire shape the Architect is instructed to produce.
type Envelope struct {
	Type conversation.MessageType `json:"type"`
	Data json.RawMessage          `json:"data"`
}

// Strategy pulls a candidate JSON fragment out of model output.
type Strategy struct {
	Name    string
	Extract func(text string) (string, bool)
}

// Strategies is the extraction order. The raw strategy always applies, so
// the chain never comes back empty.
var Strategies = []Strategy{
	{Name: "json_fence", Extract: fencedBlock(jsonFence)},
	{Name: "generic_fence", Extract: fencedBlock(genericFence)},
	{Name: "raw", Extract: func(text string) (string, bool) { return text, true }},
}

// fencedBlock returns the text between the first opening marker and the
// next closing fence. An unterminated block runs to the end of the text.
func fencedBlock(open string) func(string) (string, bool) {
	return func(text string) (string, bool) {
		_, rest, found := strings.Cut(text, open)
		if !found {
			return "", false
		}
		body, _, _ := strings.Cut(rest, genericFence)
		return strings.TrimSpace(body), true
	}
}

// Interpretation is the outcome of reading one model reply.
type Interpretation struct {
	// Strategy names the extraction strategy that produced Fragment.
	Strategy string
	Fragment string
	// Artifact is set only for mission and canvas envelopes.
	Artifact *Envelope
	// Failure explains why Artifact is nil. It always wraps ErrParseFailure.
	Failure error
}

// Interpret extracts and decodes an artifact from raw. Malformed or
// off-contract output is reported through Interpretation.Failure; the
// returned error is reserved for faults unrelated to the model output.
func Interpret(raw string) (Interpretation, error) {
	var in Interpretation
	for _, s := range Strategies {
		if fragment, ok := s.Extract(raw); ok {
			in.Strategy, in.Fragment = s.Name, fragment
			break
		}
	}

	env, err := decodeEnvelope(in.Fragment)
	if err != nil {
		if errors.Is(err, ErrParseFailure) {
			in.Failure = err
			return in, nil
		}
		return in, err
	}

	if !env.Type.IsArtifact() {
		in.Failure = fmt.Errorf("%w: unsupported type %q", ErrParseFailure, env.Type)
		return in, nil
	}

	in.Artifact = env
	return in, nil
}

// envelopeSchema pins the envelope shape only. The payload under data is
// forwarded untouched.
const envelopeSchema = `{
	"type": "object",
	"required": ["type", "data"],
	"properties": {
		"type": {"type": "string"},
		"data": {"not": {"type": "null"}}
	}
}`

var loadEnvelopeSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(envelopeSchema))
})

func decodeEnvelope(fragment string) (*Envelope, error) {
	if !json.Valid([]byte(fragment)) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrParseFailure)
	}

	schema, err := loadEnvelopeSchema()
	if err != nil {
		return nil, fmt.Errorf("compile envelope schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(fragment))
	if err != nil {
		return nil, fmt.Errorf("validate envelope: %w", err)
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			reasons = append(reasons, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrParseFailure, strings.Join(reasons, "; "))
	}

	var env Envelope
	if err := json.Unmarshal([]byte(fragment), &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	return &env, nil
}

package providers

import (
	"context"
	"errors"
	"strings"

	coreerrors "github.com/andrelmaraujo/mandacaru/core/errors"
	"google.golang.org/genai"
)

// GoogleProvider implements Provider for Gemini models, through either the
// Gemini API or Vertex AI.
type GoogleProvider struct {
	client *genai.Client
	config GoogleConfig
}

type GoogleModel string

const (
	GeminiFlash GoogleModel = "gemini-2.5-flash"
	GeminiPro   GoogleModel = "gemini-2.5-pro"
)

var googleModels = map[string]bool{
	string(GeminiFlash): true,
	string(GeminiPro):   true,
}

// NewGoogleProvider creates a new Gemini provider with the given configuration
func NewGoogleProvider(ctx context.Context, config GoogleConfig) (*GoogleProvider, error) {
	if config.Model == "" {
		config.Model = DefaultGoogleConfig().Model
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultGoogleConfig().MaxTokens
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.UseVertexAI {
		clientConfig = &genai.ClientConfig{
			Project:  config.ProjectID,
			Location: config.Location,
			Backend:  genai.BackendVertexAI,
		}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, coreerrors.WrapWithTier(coreerrors.TierUserFixable, "create genai client", err)
	}

	return &GoogleProvider{
		client: client,
		config: config,
	}, nil
}

// Name returns the provider identifier
func (p *GoogleProvider) Name() string {
	return string(ProviderTypeGoogle)
}

// Generate performs a non-streaming completion request
func (p *GoogleProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	system, turns := splitSystem(req)

	resp, err := p.client.Models.GenerateContent(ctx, model, p.convertContents(turns), p.buildConfig(req, system))
	if err != nil {
		return nil, convertGoogleError(err)
	}

	return p.convertResponse(resp, model), nil
}

// ValidateConfig checks if the provider configuration is valid
func (p *GoogleProvider) ValidateConfig() error {
	return p.config.Validate()
}

// SupportsModel checks if the provider supports the given model
func (p *GoogleProvider) SupportsModel(model string) bool {
	return googleModels[model]
}

// DefaultModel returns the provider's default model
func (p *GoogleProvider) DefaultModel() string {
	return p.config.Model
}

// Close cleans up any resources
func (p *GoogleProvider) Close() error {
	return nil
}

func (p *GoogleProvider) buildConfig(req *Request, system []string) *genai.GenerateContentConfig {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	}

	if req.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*req.Temperature))
	} else if p.config.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(p.config.Temperature))
	}

	if len(system) > 0 {
		cfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	return cfg
}

func (p *GoogleProvider) convertContents(messages []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleUser:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		}
	}
	return contents
}

func (p *GoogleProvider) convertResponse(resp *genai.GenerateContentResponse, model string) *Response {
	out := &Response{
		Content:    resp.Text(),
		Model:      model,
		StopReason: StopReasonEndTurn,
	}

	if len(resp.Candidates) > 0 {
		switch resp.Candidates[0].FinishReason {
		case genai.FinishReasonMaxTokens:
			out.StopReason = StopReasonMaxTokens
		case genai.FinishReasonSafety, genai.FinishReasonRecitation:
			out.StopReason = StopReasonError
		}
	}

	if usage := resp.UsageMetadata; usage != nil {
		out.Usage = Usage{
			InputTokens:  int(usage.PromptTokenCount),
			OutputTokens: int(usage.CandidatesTokenCount),
			TotalTokens:  int(usage.TotalTokenCount),
		}
	}

	return out
}

func convertGoogleError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return coreerrors.FromStatus(apiErr.Code, "google generate", err)
	}
	return coreerrors.Wrap("google generate", err)
}

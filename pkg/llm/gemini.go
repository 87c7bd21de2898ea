package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash-lite"

// GeminiBackend implements LLMBackend using the Google Gemini API.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// geminiSettings collects options before the genai client is built.
type geminiSettings struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// GeminiOption configures the GeminiBackend.
type GeminiOption func(*geminiSettings)

// WithGeminiAPIKey overrides the API key (instead of reading GEMINI_API_KEY).
func WithGeminiAPIKey(key string) GeminiOption {
	return func(s *geminiSettings) {
		s.apiKey = key
	}
}

// WithGeminiModel overrides the default model.
func WithGeminiModel(model string) GeminiOption {
	return func(s *geminiSettings) {
		if model != "" {
			s.model = model
		}
	}
}

// WithGeminiBaseURL points the client at a different API root.
func WithGeminiBaseURL(url string) GeminiOption {
	return func(s *geminiSettings) {
		s.baseURL = url
	}
}

// WithGeminiHTTPClient overrides the default HTTP client.
func WithGeminiHTTPClient(c *http.Client) GeminiOption {
	return func(s *geminiSettings) {
		s.httpClient = c
	}
}

// NewGeminiBackend creates a Gemini API backend.
func NewGeminiBackend(ctx context.Context, opts ...GeminiOption) (*GeminiBackend, error) {
	s := &geminiSettings{
		apiKey: os.Getenv("GEMINI_API_KEY"),
		model:  defaultGeminiModel,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}

	cfg := &genai.ClientConfig{
		APIKey:     s.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: s.httpClient,
	}
	if s.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: s.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiBackend{client: client, model: s.model}, nil
}

// Name returns the backend name.
func (*GeminiBackend) Name() string {
	return "gemini"
}

// Generate calls models.generateContent. System messages become the system
// instruction; assistant messages are sent with the model role.
func (b *GeminiBackend) Generate(
	ctx context.Context,
	req GenerateRequest,
) (GenerateResponse, error) {
	var contents []*genai.Content
	for _, m := range req.Conversation() {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	if len(contents) == 0 {
		return GenerateResponse{}, errors.New("no user message in request")
	}

	config := &genai.GenerateContentConfig{}
	if sys := req.System(); sys != "" {
		config.SystemInstruction = genai.NewContentFromText(sys, genai.RoleUser)
	}
	if req.Format == FormatJSON {
		config.ResponseMIMEType = "application/json"
	}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens) //nolint:gosec // bounded by config
	}

	result, err := b.client.Models.GenerateContent(ctx, b.model, contents, config)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("calling gemini API: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil ||
		len(result.Candidates[0].Content.Parts) == 0 {
		return GenerateResponse{}, errors.New("empty response from gemini")
	}

	out := GenerateResponse{
		Content: result.Text(),
		Model:   b.model,
	}
	if result.ModelVersion != "" {
		out.Model = result.ModelVersion
	}
	if result.UsageMetadata != nil {
		out.Usage = TokenUsage{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
		}
	}

	return out, nil
}

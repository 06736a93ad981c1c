package genai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-1.5-flash-latest"

// geminiClient implements the LLMClient interface using the Google Gemini API.
type geminiClient struct {
	client *genai.Client
	cfg    Config
}

// LLMClient defines the interface for interacting with a generative AI model.
type LLMClient interface {
	// GenerateCaption writes a one sentence caption for a recommended chart.
	// An empty caption means the model had nothing grounded to say.
	GenerateCaption(ctx context.Context, req CaptionRequest) (string, error)

	// IsAPIKeyValid checks if the configured API key is functional.
	IsAPIKeyValid(ctx context.Context) error

	// Close cleans up any resources used by the client.
	Close() error
}

// Config holds configuration for the GenAI client.
type Config struct {
	APIKey string
	Model  string
}

// ColumnFact is the profile summary of one column shown to the model.
type ColumnFact struct {
	Name    string
	Type    string
	Summary string
}

// CaptionRequest describes a chart to caption.
type CaptionRequest struct {
	Table     string
	Title     string
	Kind      string
	Rationale string
	Columns   []ColumnFact
	// Context is optional domain knowledge supplied by the user.
	Context string
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, cfg Config) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cannot create Gemini client: API key is missing")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
		zap.L().Info("gemini model not specified, using default", zap.String("model", cfg.Model))
	}

	return &geminiClient{
		client: client,
		cfg:    cfg,
	}, nil
}

// Close cleans up the underlying Gemini client.
func (c *geminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// IsAPIKeyValid checks if the Gemini API key is valid by listing models.
func (c *geminiClient) IsAPIKeyValid(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("gemini client not initialized (likely missing API key)")
	}

	_, err := c.client.ListModels(ctx).Next()
	return classifyKeyError(err)
}

func classifyKeyError(err error) error {
	if err == nil {
		return nil
	}
	if st, ok := status.FromError(err); ok {
		if st.Code() == codes.Unauthenticated || st.Code() == codes.PermissionDenied {
			return fmt.Errorf("invalid Gemini API key or insufficient permissions: %w", err)
		}
	}
	return fmt.Errorf("failed to verify Gemini API key by listing models: %w", err)
}

// GenerateCaption generates a caption using the Gemini API.
func (c *geminiClient) GenerateCaption(ctx context.Context, req CaptionRequest) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	model := c.client.GenerativeModel(c.cfg.Model)
	model.SetTemperature(0.3)
	model.SetMaxOutputTokens(120)
	model.SetTopP(0.9)
	model.SetTopK(40)

	resp, err := model.GenerateContent(ctx, genai.Text(buildCaptionPrompt(req)))
	if err != nil {
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}

	text, err := getFirstTextPart(resp)
	if err != nil {
		return "", err
	}
	caption, found := extractContentBetween(text, "<result>", "</result>")
	if !found {
		zap.L().Warn("no caption tags in Gemini response",
			zap.String("table", req.Table), zap.String("chart", req.Title))
		return "", nil
	}

	zap.L().Debug("generated caption",
		zap.String("table", req.Table), zap.String("chart", req.Title), zap.String("model", c.cfg.Model))
	return caption, nil
}

func buildCaptionPrompt(req CaptionRequest) string {
	var facts strings.Builder
	for _, col := range req.Columns {
		fmt.Fprintf(&facts, "- %s (%s): %s\n", col.Name, col.Type, col.Summary)
	}
	knowledge := strings.TrimSpace(req.Context)
	if knowledge == "" {
		knowledge = "(none)"
	}

	return fmt.Sprintf(`
	Your task is to write a one sentence caption for a chart, based ONLY on the profile facts and knowledge context below.

	********** Chart **********
	Table: %s
	Chart: %s (%s)
	Why it was suggested: %s
	********** Profile Facts **********
	%s********** Knowledge Context **********
	%s
	********** End **********

	**Instructions:**
	1. Describe what the chart lets a reader see, in at most 30 words.
	2. Use only the facts above. Do NOT invent values, trends or causes.
	3. Output ONLY the caption within <result></result> tags. If nothing useful can be said, output empty <result></result> tags.
	`, req.Table, req.Title, req.Kind, req.Rationale, facts.String(), knowledge)
}

// getFirstTextPart extracts the first text part from a Gemini response.
func getFirstTextPart(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if resp != nil && len(resp.Candidates) > 0 {
			finishReason = resp.Candidates[0].FinishReason.String()
		}
		return "", fmt.Errorf("empty or incomplete response from Gemini API. FinishReason: %s", finishReason)
	}
	part := resp.Candidates[0].Content.Parts[0]
	text, ok := part.(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part type: %T", part)
	}
	return string(text), nil
}

// extractContentBetween extracts content between start and end tags from a string.
func extractContentBetween(text, startTag, endTag string) (string, bool) {
	startIndex := strings.Index(text, startTag)
	if startIndex == -1 {
		return "", false
	}
	startIndex += len(startTag)
	endIndex := strings.Index(text[startIndex:], endTag)
	if endIndex == -1 {
		return "", false
	}
	return strings.TrimSpace(text[startIndex : startIndex+endIndex]), true
}

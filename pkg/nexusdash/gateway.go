package nexusdash

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

const (
	// DefaultChatModel serves analysis and chat traffic.
	DefaultChatModel = "gemini-2.5-flash"
	// DefaultOptimizerModel serves structured optimization runs.
	DefaultOptimizerModel = "gemini-3-pro-preview"

	defaultThinkingBudget = 2048
	gatewayRequestTimeout = 2 * time.Minute
	gatewayMaxOutputTokens = 8192
)

// AnalysisResponse is the raw gateway output for an analysis or chat call:
// response text plus any grounding citations the service reported.
type AnalysisResponse struct {
	Text      string
	Citations []Citation
}

// ChatDeltaFunc receives streamed text deltas in arrival order. Returning an
// error cancels the stream.
type ChatDeltaFunc func(delta string) error

// Gateway is the sole boundary to the external generative-AI service. All
// failures cross it as *Error with ErrCodeGateway; raw SDK or transport
// errors never reach the session layer.
type Gateway interface {
	SendAnalysis(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error)
	SendOptimization(ctx context.Context, req OptimizationRequest) (string, error)
	StreamChat(ctx context.Context, history []ChatMessage, message string, onDelta ChatDeltaFunc) (*AnalysisResponse, error)
}

// GatewayOptions configures the default Gateway implementation.
type GatewayOptions struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	OptimizerModel string
	Logger         *slog.Logger
}

type aiGateway struct {
	opts   GatewayOptions
	logger *slog.Logger
}

// NewGateway builds the provider-dispatching Gateway. The client handle for
// each provider is created lazily, so a missing API key surfaces as a
// GatewayError on the first call rather than a startup crash.
func NewGateway(opts GatewayOptions) Gateway {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ChatModel == "" {
		opts.ChatModel = DefaultChatModel
	}
	if opts.OptimizerModel == "" {
		opts.OptimizerModel = DefaultOptimizerModel
	}
	return &aiGateway{opts: opts, logger: logger}
}

func (g *aiGateway) apiKey() (string, error) {
	key := strings.TrimSpace(g.opts.APIKey)
	if key == "" {
		return "", NewError(ErrCodeGateway, "AI API key is not configured")
	}
	return key, nil
}

type modelProvider int

const (
	providerGemini modelProvider = iota
	providerOpenAI
	providerAnthropic
)

// resolveProvider picks a backend by model id, mirroring how the upstream
// services name their models.
func resolveProvider(model string) modelProvider {
	lower := strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(lower, "gemini"):
		return providerGemini
	case strings.HasPrefix(lower, "claude"):
		return providerAnthropic
	default:
		return providerOpenAI
	}
}

func (g *aiGateway) SendAnalysis(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error) {
	key, err := g.apiKey()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, gatewayRequestTimeout)
	defer cancel()

	model := g.opts.ChatModel
	g.logger.Info("gateway: analysis request", "model", model, "search", req.EnableSearch)

	switch resolveProvider(model) {
	case providerGemini:
		return g.geminiAnalysis(ctx, key, model, req)
	case providerAnthropic:
		text, err := g.anthropicCompletion(ctx, key, model, req.SystemPrompt, req.UserPrompt)
		if err != nil {
			return nil, err
		}
		return &AnalysisResponse{Text: text}, nil
	default:
		text, err := g.openAICompletion(ctx, key, model, req.SystemPrompt, req.UserPrompt)
		if err != nil {
			return nil, err
		}
		return &AnalysisResponse{Text: text}, nil
	}
}

func (g *aiGateway) SendOptimization(ctx context.Context, req OptimizationRequest) (string, error) {
	key, err := g.apiKey()
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, gatewayRequestTimeout)
	defer cancel()

	model := g.opts.OptimizerModel
	g.logger.Info("gateway: optimization request", "model", model, "thinking_budget", req.ThinkingBudget)

	switch resolveProvider(model) {
	case providerGemini:
		return g.geminiOptimization(ctx, key, model, req)
	case providerAnthropic:
		return g.anthropicCompletion(ctx, key, model, jsonOnlySystemPrompt, req.UserPrompt)
	default:
		return g.openAICompletion(ctx, key, model, jsonOnlySystemPrompt, req.UserPrompt)
	}
}

func (g *aiGateway) StreamChat(ctx context.Context, history []ChatMessage, message string, onDelta ChatDeltaFunc) (*AnalysisResponse, error) {
	key, err := g.apiKey()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, gatewayRequestTimeout)
	defer cancel()

	model := g.opts.ChatModel
	g.logger.Info("gateway: chat stream request", "model", model, "history_len", len(history))

	switch resolveProvider(model) {
	case providerGemini:
		return g.geminiStreamChat(ctx, key, model, history, message, onDelta)
	case providerAnthropic:
		// Anthropic chat runs as a single completion; the full text is
		// delivered to the caller as one delta.
		text, err := g.anthropicCompletion(ctx, key, model, analysisSystemPrompt, flattenHistory(history, message))
		if err != nil {
			return nil, err
		}
		if onDelta != nil {
			if err := onDelta(text); err != nil {
				return nil, WrapError(ErrCodeGateway, "stream callback failed", err)
			}
		}
		return &AnalysisResponse{Text: text}, nil
	default:
		return g.openAIStreamChat(ctx, key, model, history, message, onDelta)
	}
}

// jsonOnlySystemPrompt substitutes for native JSON response modes on
// providers that have no equivalent of a response MIME type.
const jsonOnlySystemPrompt = `You are a portfolio optimization engine. Respond with a single JSON object and nothing else: no markdown fences, no commentary.`

// flattenHistory renders a conversation into one prompt for providers called
// without native chat-session support.
func flattenHistory(history []ChatMessage, message string) string {
	var sb strings.Builder
	for _, m := range history {
		if m.IsThinking {
			continue
		}
		sb.WriteString(m.Role)
		sb.WriteString(": ")
		sb.WriteString(m.Text)
		sb.WriteString("\n")
	}
	sb.WriteString("user: ")
	sb.WriteString(message)
	return sb.String()
}

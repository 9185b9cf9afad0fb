package nexusdash

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

func (g *aiGateway) newGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL := strings.TrimSpace(g.opts.BaseURL); baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, WrapError(ErrCodeGateway, "create gemini client", err)
	}
	return client, nil
}

func (g *aiGateway) geminiAnalysis(ctx context.Context, apiKey, model string, req AnalysisRequest) (*AnalysisResponse, error) {
	client, err := g.newGeminiClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		},
		Temperature:     genai.Ptr(float32(0.2)),
		MaxOutputTokens: gatewayMaxOutputTokens,
	}
	if req.EnableSearch {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	response, err := client.Models.GenerateContent(ctx, model, genai.Text(req.UserPrompt), config)
	if err != nil {
		return nil, WrapError(ErrCodeGateway, "gemini generate content", err)
	}

	return &AnalysisResponse{
		Text:      strings.TrimSpace(response.Text()),
		Citations: extractCitations(response),
	}, nil
}

func (g *aiGateway) geminiOptimization(ctx context.Context, apiKey, model string, req OptimizationRequest) (string, error) {
	client, err := g.newGeminiClient(ctx, apiKey)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.2)),
		MaxOutputTokens:  gatewayMaxOutputTokens,
		ResponseMIMEType: "application/json",
	}
	if req.ThinkingBudget > 0 {
		config.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(req.ThinkingBudget),
		}
	}

	response, err := client.Models.GenerateContent(ctx, model, genai.Text(req.UserPrompt), config)
	if err != nil {
		return "", WrapError(ErrCodeGateway, "gemini generate content", err)
	}
	content := strings.TrimSpace(response.Text())
	if content == "" {
		return "", NewError(ErrCodeGateway, "ai response content is empty")
	}
	return content, nil
}

func (g *aiGateway) geminiStreamChat(ctx context.Context, apiKey, model string, history []ChatMessage, message string, onDelta ChatDeltaFunc) (*AnalysisResponse, error) {
	client, err := g.newGeminiClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: analysisSystemPrompt}},
		},
		Tools:           []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		MaxOutputTokens: gatewayMaxOutputTokens,
	}

	chat, err := client.Chats.Create(ctx, model, config, geminiHistory(history))
	if err != nil {
		return nil, WrapError(ErrCodeGateway, "create gemini chat", err)
	}

	accumulated := ""
	var citations []Citation
	for response, err := range chat.SendMessageStream(ctx, genai.Part{Text: message}) {
		if err != nil {
			return nil, WrapError(ErrCodeGateway, "gemini stream", err)
		}
		if response == nil {
			continue
		}

		chunkText := response.Text()
		if chunkText == "" {
			continue
		}
		delta := chunkText
		if strings.HasPrefix(chunkText, accumulated) {
			delta = chunkText[len(accumulated):]
		}
		if delta == "" {
			continue
		}
		accumulated += delta
		if onDelta != nil {
			if err := onDelta(delta); err != nil {
				return nil, WrapError(ErrCodeGateway, "stream callback failed", err)
			}
		}
		if extracted := extractCitations(response); len(extracted) > 0 {
			citations = extracted
		}
	}

	return &AnalysisResponse{
		Text:      strings.TrimSpace(accumulated),
		Citations: citations,
	}, nil
}

// geminiHistory converts a conversation log into Gemini chat history,
// skipping thinking placeholders.
func geminiHistory(history []ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		if m.IsThinking || strings.TrimSpace(m.Text) == "" {
			continue
		}
		role := genai.RoleUser
		if m.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Text}},
		})
	}
	return contents
}

func extractCitations(response *genai.GenerateContentResponse) []Citation {
	if response == nil || len(response.Candidates) == 0 {
		return nil
	}
	metadata := response.Candidates[0].GroundingMetadata
	if metadata == nil {
		return nil
	}
	var citations []Citation
	for _, chunk := range metadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		citations = append(citations, Citation{
			Title: chunk.Web.Title,
			URI:   chunk.Web.URI,
		})
	}
	return citations
}

package nexusdash

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

func (g *aiGateway) newOpenAIClient(apiKey string) openai.Client {
	requestOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL := strings.TrimSpace(g.opts.BaseURL); baseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(baseURL))
	}
	return openai.NewClient(requestOpts...)
}

func (g *aiGateway) openAICompletion(ctx context.Context, apiKey, model, systemPrompt, userPrompt string) (string, error) {
	client := g.newOpenAIClient(apiKey)

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return "", WrapError(ErrCodeGateway, "openai chat completion", err)
	}
	if len(completion.Choices) == 0 {
		return "", NewError(ErrCodeGateway, "ai response content is empty")
	}
	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return "", NewError(ErrCodeGateway, "ai response content is empty")
	}
	return content, nil
}

func (g *aiGateway) openAIStreamChat(ctx context.Context, apiKey, model string, history []ChatMessage, message string, onDelta ChatDeltaFunc) (*AnalysisResponse, error) {
	client := g.newOpenAIClient(apiKey)

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(analysisSystemPrompt))
	for _, m := range history {
		if m.IsThinking || strings.TrimSpace(m.Text) == "" {
			continue
		}
		if m.Role == RoleModel {
			messages = append(messages, openai.AssistantMessage(m.Text))
			continue
		}
		messages = append(messages, openai.UserMessage(m.Text))
	}
	messages = append(messages, openai.UserMessage(message))

	stream := client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	})
	defer stream.Close()

	var sb strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		sb.WriteString(delta)
		if onDelta != nil {
			if err := onDelta(delta); err != nil {
				return nil, WrapError(ErrCodeGateway, "stream callback failed", err)
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, WrapError(ErrCodeGateway, "openai stream", err)
	}

	return &AnalysisResponse{Text: strings.TrimSpace(sb.String())}, nil
}

package nexusdash

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func (g *aiGateway) anthropicCompletion(ctx context.Context, apiKey, model, systemPrompt, userPrompt string) (string, error) {
	requestOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL := strings.TrimSpace(g.opts.BaseURL); baseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(requestOpts...)

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: gatewayMaxOutputTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", WrapError(ErrCodeGateway, "anthropic message", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	content := strings.TrimSpace(sb.String())
	if content == "" {
		return "", NewError(ErrCodeGateway, "ai response content is empty")
	}
	return content, nil
}

package analyze

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"

	"github.com/y3rawat/mindstore/internal/config"
	"github.com/y3rawat/mindstore/internal/content"
)

// Result contains the LLM-generated analysis of one saved item.
type Result struct {
	Summary string
	Topics  string
}

// Analyzer generates analyses using an LLM provider.
type Analyzer struct {
	cfg *config.Config
}

func NewAnalyzer(cfg *config.Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

const analysisPrompt = `You are given metadata for a piece of saved social media content.
Provide:
1. A concise 1-2 sentence summary of what this content is about
2. 3-5 relevant topics separated by commas

Format your response exactly as:
SUMMARY: <your summary>
TOPICS: <topic1>, <topic2>, <topic3>

Metadata:
%s`

// Analyze asks the configured provider to summarize one item from its
// metadata. The drive asset itself is never sent, only title, author,
// caption and platform.
func (a *Analyzer) Analyze(ctx context.Context, item content.Item) (*Result, error) {
	prompt := fmt.Sprintf(analysisPrompt, buildMetadata(item))

	var response string
	var err error

	switch a.cfg.LLM.Provider {
	case "anthropic":
		response, err = a.analyzeWithAnthropic(ctx, prompt)
	case "openai", "openrouter":
		response, err = a.analyzeWithOpenAI(ctx, prompt)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", a.cfg.LLM.Provider)
	}

	if err != nil {
		return nil, err
	}

	return parseResponse(response), nil
}

func (a *Analyzer) analyzeWithAnthropic(ctx context.Context, prompt string) (string, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	client := anthropic.NewClient(apiKey)

	resp, err := client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(a.cfg.LLM.Model),
		MaxTokens: 500,
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{{Type: "text", Text: &prompt}},
			},
		},
	})

	if err != nil {
		return "", err
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("empty response from Anthropic")
	}

	return resp.Content[0].GetText(), nil
}

func (a *Analyzer) analyzeWithOpenAI(ctx context.Context, prompt string) (string, error) {
	var apiKey string
	var baseURL string

	if a.cfg.LLM.Provider == "openrouter" {
		apiKey = os.Getenv("OPENROUTER_API_KEY")
		baseURL = a.cfg.LLM.BaseURL
		if baseURL == "" {
			baseURL = "https://openrouter.ai/api/v1"
		}
	} else {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	if apiKey == "" {
		return "", fmt.Errorf("API key not set for provider %s", a.cfg.LLM.Provider)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	client := openai.NewClientWithConfig(clientCfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     a.cfg.LLM.Model,
		MaxTokens: 500,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})

	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

func buildMetadata(item content.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Platform: %s\n", item.Media.Platform)
	fmt.Fprintf(&b, "Title: %s\n", content.DisplayTitle(item.Media))
	if item.Media.Author != "" {
		fmt.Fprintf(&b, "Author: %s\n", item.Media.Author)
	}
	if item.Media.Caption != "" {
		caption := item.Media.Caption
		const maxCaptionLen = 4000
		if len(caption) > maxCaptionLen {
			caption = caption[:maxCaptionLen]
		}
		fmt.Fprintf(&b, "Caption: %s\n", caption)
	}
	fmt.Fprintf(&b, "URL: %s\n", item.URL)
	return b.String()
}

func parseResponse(response string) *Result {
	result := &Result{}

	lines := strings.Split(response, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "SUMMARY:") {
			result.Summary = strings.TrimSpace(strings.TrimPrefix(line, "SUMMARY:"))
		} else if strings.HasPrefix(line, "TOPICS:") {
			result.Topics = strings.TrimSpace(strings.TrimPrefix(line, "TOPICS:"))
		}
	}

	return result
}

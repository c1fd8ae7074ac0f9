package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/rs/zerolog"

	"github.com/begriplab/definitie-validator/internal/generator"
)

var anthropicVersion = "bedrock-2023-05-31"

type claudeMessageRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	Temperature      float64         `json:"temperature"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeMessageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// Client generates candidate definitions with Claude on Bedrock.
type Client struct {
	client      *bedrockruntime.Client
	modelID     string
	maxTokens   int
	temperature float64
	maxRetries  int
	logger      *zerolog.Logger
}

func NewClient(ctx context.Context, region, modelID string, logger *zerolog.Logger) (*Client, error) {
	if modelID == "" {
		return nil, fmt.Errorf("bedrock model id is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Client{
		client:      bedrockruntime.NewFromConfig(cfg),
		modelID:     modelID,
		maxTokens:   512,
		temperature: 0.2,
		maxRetries:  3,
		logger:      logger,
	}, nil
}

// Generate renders the prompt and invokes the model, retrying transient
// failures with exponential backoff and jitter.
func (c *Client) Generate(ctx context.Context, req generator.Request) (string, error) {
	prompt, err := generator.BuildPrompt(req)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * 250 * time.Millisecond
			backoff += time.Duration(rand.Int63n(int64(100 * time.Millisecond)))
			c.logger.Warn().
				Err(lastErr).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("retrying definition generation")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, err := c.invoke(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}

	return "", fmt.Errorf("definition generation failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) invoke(ctx context.Context, prompt string) (string, error) {
	payload := claudeMessageRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        c.maxTokens,
		Temperature:      c.temperature,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("serialize claude request: %w", err)
	}

	output, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("invoke claude model: %w", err)
	}

	var response claudeMessageResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return "", fmt.Errorf("unmarshal bedrock response: %w", err)
	}

	if len(response.Content) == 0 {
		return "", fmt.Errorf("empty response from model (stop_reason=%s)", response.StopReason)
	}

	return strings.TrimSpace(response.Content[0].Text), nil
}

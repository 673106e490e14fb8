package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/head-marketing/backend/internal/models"
)

// DeepSeekClient talks to the DeepSeek chat-completion API to summarize a
// business website into campaign inputs.
type DeepSeekClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *zap.Logger
}

func NewDeepSeekClient(baseURL, apiKey string, timeout time.Duration, log *zap.Logger) *DeepSeekClient {
	return &DeepSeekClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const systemPrompt = `You are a marketing analyst. Given the text of a business website, respond with a JSON object holding exactly these keys:
"business_intro": a 2-3 sentence introduction of the business,
"core_selling_points": an array of up to 5 short selling points,
"core_audiences": an array of up to 3 objects with "title" and "description" describing target audiences.
Respond with JSON only.`

// Summarize sends the extracted page to the model and parses the structured
// analysis out of its reply.
func (c *DeepSeekClient) Summarize(ctx context.Context, page *PageContent) (*models.WebsiteAnalysis, error) {
	userContent := fmt.Sprintf("Title: %s\nDescription: %s\n\n%s", page.Title, page.Description, page.Content)

	reqBody := chatRequest{
		Model: "deepseek-chat",
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
		Temperature: 0.7,
		MaxTokens:   1000,
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis service unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("analysis service returned %d: %s", resp.StatusCode, string(body))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, err
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("analysis service returned no choices")
	}

	analysis, err := parseAnalysis(chat.Choices[0].Message.Content)
	if err != nil {
		c.log.Warn("unparseable analysis reply", zap.Error(err))
		return nil, err
	}
	return analysis, nil
}

// parseAnalysis decodes the model reply, tolerating a ```json fence around
// the object.
func parseAnalysis(content string) (*models.WebsiteAnalysis, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
		content = strings.TrimSpace(content)
	}

	var analysis models.WebsiteAnalysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return nil, fmt.Errorf("malformed analysis JSON: %w", err)
	}
	if analysis.BusinessIntro == "" {
		return nil, fmt.Errorf("analysis reply missing business_intro")
	}
	return &analysis, nil
}

// internal/estimator/gemini.go
package estimator

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nutrition-bot/internal/models"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var (
	// ErrUnavailable marks transient transport failures (network errors,
	// rate limiting, server errors). Callers may tell the user to retry.
	ErrUnavailable = errors.New("model unavailable")

	// ErrUnparseable marks responses that came back but contained no
	// usable JSON analysis.
	ErrUnparseable = errors.New("unparseable model response")
)

const analysisPrompt = `You are a nutrition expert analyzing a photo of a meal.

IMPORTANT: Always respond with valid JSON in this exact format:
{
  "is_food": [true/false],
  "food_items": ["specific food item name", "another item"],
  "portion_confidence": "high|medium|low",
  "nutrition": {
    "calories": [number],
    "protein": [number],
    "carbs": [number],
    "fat": [number],
    "fiber": [number]
  },
  "questions": ["specific question1", "specific question2"],
  "motivational_comment": "one short encouraging sentence",
  "suggestions": "one short tip to improve the meal"
}

If the image does not contain food, set "is_food" to false and leave the other fields empty.

Estimate realistic portion sizes from visual cues (plate size, utensils, packaging). All nutrition values are for the whole visible meal, in kcal and grams.

If portion sizes are genuinely ambiguous (hidden ingredients, unclear volume), set "portion_confidence" to "low" and ask 1-3 specific questions in "questions". Otherwise leave "questions" empty.`

const adjustPrompt = `You are a nutrition expert updating an earlier meal estimate.

Previous analysis:
%s

New information from the user:
"%s"

Recalculate the estimate for the whole meal with this information included. Respond with valid JSON in the same format as the previous analysis (is_food, food_items, portion_confidence, nutrition, questions, motivational_comment, suggestions). Raise "portion_confidence" if the new information resolves the ambiguity, and only keep "questions" non-empty if something essential is still unclear.`

const reanalyzePrompt = `You are a nutrition expert updating an earlier meal estimate with another photo of the same meal.

Previous analysis:
%s

The attached photo shows the same meal again, from another angle or with more of it visible. Recalculate the estimate for the whole meal using the previous analysis and what this photo shows. Respond with valid JSON in the same format as the previous analysis (is_food, food_items, portion_confidence, nutrition, questions, motivational_comment, suggestions). Leave "questions" empty unless something essential is still unclear.`

// Gemini generateContent wire format.
type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig *geminiConfig   `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *geminiBlob `json:"inline_data,omitempty"`
}

type geminiBlob struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type Client struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	retryDelay time.Duration
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		retryDelay: time.Second,
	}
}

// AnalyzeImage sends the photo to the model and returns the parsed
// analysis together with the raw JSON it was parsed from.
func (c *Client) AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (*models.FoodAnalysis, string, error) {
	parts := []geminiPart{
		{Text: analysisPrompt},
		{InlineData: &geminiBlob{
			MIMEType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(imageData),
		}},
	}

	return c.requestAnalysis(ctx, parts)
}

// Adjust folds a user's clarification text into a previous analysis by
// handing the model the prior JSON plus the answer.
func (c *Client) Adjust(ctx context.Context, prior, detail string) (*models.FoodAnalysis, string, error) {
	parts := []geminiPart{
		{Text: fmt.Sprintf(adjustPrompt, prior, detail)},
	}

	return c.requestAnalysis(ctx, parts)
}

// Reanalyze folds another photo of the same meal into a previous
// analysis, for refinement sessions where the user sends a second
// angle or shows more of the plate.
func (c *Client) Reanalyze(ctx context.Context, prior string, imageData []byte, mimeType string) (*models.FoodAnalysis, string, error) {
	parts := []geminiPart{
		{Text: fmt.Sprintf(reanalyzePrompt, prior)},
		{InlineData: &geminiBlob{
			MIMEType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(imageData),
		}},
	}

	return c.requestAnalysis(ctx, parts)
}

func (c *Client) requestAnalysis(ctx context.Context, parts []geminiPart) (*models.FoodAnalysis, string, error) {
	text, err := c.generate(ctx, parts)
	if errors.Is(err, ErrUnavailable) {
		// One silent retry before the failure reaches the user.
		select {
		case <-time.After(c.retryDelay):
		case <-ctx.Done():
			return nil, "", ctx.Err()
		}
		text, err = c.generate(ctx, parts)
	}
	if err != nil {
		return nil, "", err
	}

	return parseAnalysis(text)
}

func (c *Client) generate(ctx context.Context, parts []geminiPart) (string, error) {
	request := geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
		// Low temperature for consistent analysis
		GenerationConfig: &geminiConfig{Temperature: 0.1},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("request failed with status %d and couldn't read body: %v", resp.StatusCode, err)
		}
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var response geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty candidates", ErrUnparseable)
	}

	return response.Candidates[0].Content.Parts[0].Text, nil
}

// parseAnalysis extracts the JSON object from the model's text, which
// may be wrapped in markdown fences or surrounded by prose. Estimates
// carrying negative nutrition values are rejected as unparseable.
func parseAnalysis(text string) (*models.FoodAnalysis, string, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return nil, "", fmt.Errorf("%w: no JSON object in output", ErrUnparseable)
	}
	jsonStr := cleaned[start : end+1]

	var analysis models.FoodAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &analysis); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	if n := analysis.Nutrition; n.Calories < 0 || n.Protein < 0 || n.Carbs < 0 || n.Fat < 0 || n.Fiber < 0 {
		return nil, "", fmt.Errorf("%w: negative nutrition values", ErrUnparseable)
	}

	analysis.PortionConfidence = models.ConfidenceLevel(strings.ToLower(string(analysis.PortionConfidence)))

	return &analysis, jsonStr, nil
}

package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Course content is truncated before prompting so oversized documents don't
// blow the model's input budget.
const maxPromptContentChars = 30000

var difficultyDescriptions = map[string]string{
	"easy":   "basic concepts suitable for beginners",
	"medium": "intermediate level questions requiring good understanding",
	"hard":   "challenging questions requiring deep understanding and analytical thinking",
}

// GeminiClient generates questions via the Gemini generateContent endpoint.
type GeminiClient struct {
	apiKey string
	model  string
	client *http.Client
	log    zerolog.Logger
}

// NewGeminiClient creates a GeminiClient for the given model.
func NewGeminiClient(apiKey, model string, log zerolog.Logger) *GeminiClient {
	return &GeminiClient{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 90 * time.Second},
		log:    log.With().Str("component", "gemini_client").Logger(),
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
	Config   geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
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

// Generate prompts Gemini for req.QuestionCount questions and parses the
// JSON it returns.
func (c *GeminiClient) Generate(ctx context.Context, req Request) ([]Question, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: buildPrompt(req)}}}},
		Config: geminiGenConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 8192,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", geminiBaseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.log.Error().Int("status", resp.StatusCode).Bytes("body", detail).Msg("Gemini API error")
		return nil, fmt.Errorf("gemini API status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: no candidates", ErrBadResponse)
	}

	questions, err := parseQuestionsJSON(parsed.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return nil, err
	}

	c.log.Info().
		Int("requested", req.QuestionCount).
		Int("generated", len(questions)).
		Msg("Questions generated")
	return questions, nil
}

func buildPrompt(req Request) string {
	content := req.CourseContent
	if len(content) > maxPromptContentChars {
		content = content[:maxPromptContentChars]
	}

	return fmt.Sprintf(`Based on the following course material, generate %d multiple-choice questions about %s at %s difficulty level (%s).

COURSE CONTENT:
%s

INSTRUCTIONS:
- Generate exactly %d questions
- Each question must have exactly 4 options labeled A, B, C, and D
- One option must be the correct answer
- Questions should test understanding of the course material provided above
- Make questions relevant to the content, not generic

Return ONLY valid JSON (no markdown, no code blocks) in this exact format:
{
  "questions": [
    {
      "question": "Question text here?",
      "options": ["Option A text", "Option B text", "Option C text", "Option D text"],
      "correctAnswerIndex": 0
    }
  ]
}

Important: The "correctAnswerIndex" field must be a number: 0 for A, 1 for B, 2 for C, or 3 for D.`,
		req.QuestionCount, req.Subject, req.Difficulty,
		difficultyDescriptions[req.Difficulty], content, req.QuestionCount)
}

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// parseQuestionsJSON extracts the question set from model output. Models
// sometimes wrap JSON in markdown code fences despite instructions, so both
// forms are accepted.
func parseQuestionsJSON(text string) ([]Question, error) {
	jsonText := strings.TrimSpace(text)
	if m := fencedJSONRe.FindStringSubmatch(jsonText); m != nil {
		jsonText = m[1]
	}

	var payload struct {
		Questions []Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	if err := validateQuestions(payload.Questions); err != nil {
		return nil, err
	}
	return payload.Questions, nil
}

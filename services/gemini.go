package services

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// resolveAPIKey picks the credential for a single grading call. A key supplied
// with the request wins over the process-wide key from the configuration.
func resolveAPIKey(requestKey, defaultKey string) string {
	if strings.TrimSpace(requestKey) != "" {
		return strings.TrimSpace(requestKey)
	}
	return defaultKey
}

// newGeminiClient builds a short-lived client for one grading call. With no
// key at all the client is still constructed with the provider's default
// option chain and the call fails on the provider side, which is surfaced to
// the caller unchanged.
func newGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return genai.NewClient(ctx)
	}
	return genai.NewClient(ctx, option.WithAPIKey(apiKey))
}

// cleanModelOutput strips markdown code fences the model sometimes wraps
// around JSON output.
func cleanModelOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// firstCandidateText concatenates the text parts of the first candidate.
func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

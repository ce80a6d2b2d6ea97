package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"essayhub/config"
	"essayhub/models"

	"github.com/google/generative-ai-go/genai"
)

var (
	defaultAPIKey string
	graderModel   string
)

// InitGraderService stores the process-wide credential and model identifier
// from the configuration. Per-request keys still take precedence at call time.
func InitGraderService(cfg *config.Config) {
	defaultAPIKey = cfg.Gemini.ApiKey
	graderModel = cfg.Gemini.Model
}

// GradeError is returned when grading fails so the caller can distinguish
// "the model returned a bad grade" from "the provider was unreachable".
type GradeError struct {
	Reason  string
	Wrapped error
}

func (e *GradeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("grading failed: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("grading failed: %s", e.Reason)
}

func (e *GradeError) Unwrap() error {
	return e.Wrapped
}

// gradeSchema is the response contract the model must satisfy. Every field is
// required; the same shape is re-checked in Go after the call.
var gradeSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"grade":   {Type: genai.TypeString, Description: "Short textual grade summary, e.g. B+ or Good"},
		"score":   {Type: genai.TypeNumber, Description: "Overall score from 0 to 100"},
		"level":   {Type: genai.TypeString, Description: "Performance level label"},
		"summary": {Type: genai.TypeString, Description: "Must be an empty string"},
		"strengths": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"improvements": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"rubric": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"content":      {Type: genai.TypeNumber, Description: "0 to 10"},
				"organisation": {Type: genai.TypeNumber, Description: "0 to 10"},
				"language":     {Type: genai.TypeNumber, Description: "0 to 10"},
				"style":        {Type: genai.TypeNumber, Description: "0 to 10"},
				"mechanics":    {Type: genai.TypeNumber, Description: "0 to 10"},
				"comments":     {Type: genai.TypeString},
			},
			Required: []string{"content", "organisation", "language", "style", "mechanics", "comments"},
		},
		"inlineFeedback": {Type: genai.TypeString, Description: "Markdown document carrying all substantive feedback"},
	},
	Required: []string{"grade", "score", "level", "summary", "strengths", "improvements", "rubric", "inlineFeedback"},
}

const markerInstruction = `You are a professional essay marker with years of experience grading student essays against a fixed rubric. You grade four essay types: argumentative, narrative, expository and descriptive.

Scoring rules:
- Assign an overall score from 0 to 100, a short textual grade and a performance level label.
- Score each rubric axis (content, organisation, language, style, mechanics) from 0 to 10.
- Keep the rubric internally consistent: no two of the five axis scores may differ by more than 2.
- Keep "summary" an empty string. Do not summarize the essay anywhere; all substantive feedback belongs in "inlineFeedback".
- Keep "strengths" to a minimum and put your effort into "improvements". Feedback must be corrective, never a narrative retelling of the essay.

Grammar rules:
- First judge how many grammatical mistakes the essay contains.
- If there are more than 20 grammatical mistakes, prioritize grammar remediation: enumerate the mistakes and rewrite the faulty sentences correctly.
- If there are fewer than 5 grammatical mistakes, shift your emphasis to higher-level language precision and depth of content instead.

"inlineFeedback" must be a single markdown document with exactly these sections, in order:
1. "## Content" - analysis of the essay's ideas and argumentation.
2. "## Language" - first enumerate grammar and vocabulary issues, then suggest vocabulary enhancements.
3. "## Organization" - structure and flow.
4. "## Overall Suggestions" - a ranked list, most important first.
5. An example improved paragraph rewritten from the essay.
6. A closing sentence stating that a full sample essay is omitted here.`

// buildGradePrompt embeds the essay and restates the constraints the model
// most often drifts on.
func buildGradePrompt(essay string) string {
	return fmt.Sprintf(`Grade the following student essay.

Remember:
- "summary" must be an empty string.
- No two rubric axis scores may differ by more than 2.
- Apply the grammar-mistake thresholds: more than 20 mistakes means grammar remediation first, fewer than 5 means focus on precision and depth.
- "inlineFeedback" must follow the required markdown section template.

Essay:
%s`, essay)
}

// gradePayload mirrors the response schema with pointer fields so that
// missing keys are distinguishable from zero values.
type gradePayload struct {
	Grade          *string        `json:"grade"`
	Score          *float64       `json:"score"`
	Level          *string        `json:"level"`
	Summary        *string        `json:"summary"`
	Strengths      []string       `json:"strengths"`
	Improvements   []string       `json:"improvements"`
	Rubric         *rubricPayload `json:"rubric"`
	InlineFeedback *string        `json:"inlineFeedback"`
}

type rubricPayload struct {
	Content      *float64 `json:"content"`
	Organisation *float64 `json:"organisation"`
	Language     *float64 `json:"language"`
	Style        *float64 `json:"style"`
	Mechanics    *float64 `json:"mechanics"`
	Comments     *string  `json:"comments"`
}

// GradeEssay sends the essay to the grading model and returns the validated,
// normalized result. extractionWarning is carried through to the response
// metadata untouched. Any provider or contract failure is terminal for the
// request; there are no retries and no partial results.
func GradeEssay(ctx context.Context, essay, apiKey, extractionWarning string) (models.GradeResult, error) {
	essay = strings.TrimSpace(essay)
	if essay == "" {
		return models.GradeResult{}, &GradeError{Reason: "essay text is empty"}
	}

	client, err := newGeminiClient(ctx, resolveAPIKey(apiKey, defaultAPIKey))
	if err != nil {
		return models.GradeResult{}, &GradeError{Reason: "failed to create Gemini client", Wrapped: err}
	}
	defer client.Close()

	model := client.GenerativeModel(graderModel)
	temperature := float32(0)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   gradeSchema,
	}
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(markerInstruction)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(buildGradePrompt(essay)))
	if err != nil {
		return models.GradeResult{}, &GradeError{Reason: "model call failed", Wrapped: err}
	}

	raw := cleanModelOutput(firstCandidateText(resp))
	if raw == "" {
		return models.GradeResult{}, &GradeError{Reason: "empty model response"}
	}

	var payload gradePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return models.GradeResult{}, &GradeError{Reason: "invalid JSON from model", Wrapped: err}
	}
	if err := validateGradePayload(&payload); err != nil {
		return models.GradeResult{}, &GradeError{Reason: "model response violates grade contract", Wrapped: err}
	}

	result := models.GradeResult{
		Grade:        *payload.Grade,
		Score:        *payload.Score,
		Level:        *payload.Level,
		Strengths:    payload.Strengths,
		Improvements: payload.Improvements,
		Rubric: models.RubricScores{
			Content:      *payload.Rubric.Content,
			Organisation: *payload.Rubric.Organisation,
			Language:     *payload.Rubric.Language,
			Style:        *payload.Rubric.Style,
			Mechanics:    *payload.Rubric.Mechanics,
			Comments:     *payload.Rubric.Comments,
		},
		InlineFeedback: *payload.InlineFeedback,
	}
	normalizeGradeResult(&result, extractionWarning)
	return result, nil
}

// validateGradePayload enforces the response contract: every field present,
// score within 0-100, every rubric axis within 0-10. A violation is a hard
// failure for the call.
func validateGradePayload(p *gradePayload) error {
	switch {
	case p.Grade == nil:
		return errors.New("missing field: grade")
	case p.Score == nil:
		return errors.New("missing field: score")
	case p.Level == nil:
		return errors.New("missing field: level")
	case p.Summary == nil:
		return errors.New("missing field: summary")
	case p.Strengths == nil:
		return errors.New("missing field: strengths")
	case p.Improvements == nil:
		return errors.New("missing field: improvements")
	case p.Rubric == nil:
		return errors.New("missing field: rubric")
	case p.InlineFeedback == nil:
		return errors.New("missing field: inlineFeedback")
	}
	if *p.Score < 0 || *p.Score > 100 {
		return fmt.Errorf("score %v out of range [0,100]", *p.Score)
	}
	axes := map[string]*float64{
		"content":      p.Rubric.Content,
		"organisation": p.Rubric.Organisation,
		"language":     p.Rubric.Language,
		"style":        p.Rubric.Style,
		"mechanics":    p.Rubric.Mechanics,
	}
	for name, v := range axes {
		if v == nil {
			return fmt.Errorf("missing rubric field: %s", name)
		}
		if *v < 0 || *v > 10 {
			return fmt.Errorf("rubric %s score %v out of range [0,10]", name, *v)
		}
	}
	if p.Rubric.Comments == nil {
		return errors.New("missing rubric field: comments")
	}
	return nil
}

// normalizeGradeResult applies the post-processing the system does not trust
// the model with: the summary is force-cleared, nil slices become empty ones,
// the rubric is reconciled and the metadata is injected.
func normalizeGradeResult(r *models.GradeResult, extractionWarning string) {
	r.Summary = ""
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
	if r.Improvements == nil {
		r.Improvements = []string{}
	}
	if reconcileRubric(&r.Rubric) {
		log.Printf("rubric scores reconciled to satisfy the max-gap rule: %+v", r.Rubric)
	}
	r.Meta = models.GradeMeta{
		Model:             graderModel,
		ExtractionWarning: extractionWarning,
	}
}

// reconcileRubric enforces the rubric consistency rule mechanically: every
// axis is clamped into [0,10], and if any two axes differ by more than 2 the
// outliers are pulled into a width-2 window around the median. Returns true
// when any value changed.
func reconcileRubric(r *models.RubricScores) bool {
	axes := []*float64{&r.Content, &r.Organisation, &r.Language, &r.Style, &r.Mechanics}
	changed := false
	for _, a := range axes {
		if c := clamp(*a, 0, 10); c != *a {
			*a = c
			changed = true
		}
	}

	vals := make([]float64, len(axes))
	for i, a := range axes {
		vals[i] = *a
	}
	sort.Float64s(vals)
	if vals[len(vals)-1]-vals[0] <= 2 {
		return changed
	}

	median := vals[len(vals)/2]
	lo := clamp(median-1, 0, 10)
	hi := clamp(median+1, 0, 10)
	for _, a := range axes {
		if c := clamp(*a, lo, hi); c != *a {
			*a = c
			changed = true
		}
	}
	return changed
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

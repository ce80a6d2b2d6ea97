package models

// RubricScores holds the five-axis rubric the marker scores an essay on.
// Each axis is on a 0-10 scale.
type RubricScores struct {
	Content      float64 `json:"content"`
	Organisation float64 `json:"organisation"`
	Language     float64 `json:"language"`
	Style        float64 `json:"style"`
	Mechanics    float64 `json:"mechanics"`
	Comments     string  `json:"comments"`
}

// Axes returns the five numeric axes in a fixed order.
func (r RubricScores) Axes() [5]float64 {
	return [5]float64{r.Content, r.Organisation, r.Language, r.Style, r.Mechanics}
}

// GradeMeta carries request metadata injected by the service, never by the model.
type GradeMeta struct {
	Model             string `json:"model"`
	ExtractionWarning string `json:"extractionWarning,omitempty"`
}

// GradeResult is the response envelope returned to the caller.
// Summary is always cleared by the service before the result leaves the
// system; all substantive feedback lives in InlineFeedback.
type GradeResult struct {
	Grade          string       `json:"grade"`
	Score          float64      `json:"score"`
	Level          string       `json:"level"`
	Summary        string       `json:"summary"`
	Strengths      []string     `json:"strengths"`
	Improvements   []string     `json:"improvements"`
	Rubric         RubricScores `json:"rubric"`
	InlineFeedback string       `json:"inlineFeedback"`
	Meta           GradeMeta    `json:"meta"`
}

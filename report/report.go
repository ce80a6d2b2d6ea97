// Package report renders grading results as HTML pages.
package report

import (
	"embed"
	"html/template"
	"io"

	"essayhub/models"
)

//go:embed templates/*
var templates embed.FS

var (
	indexTmpl  = template.Must(template.ParseFS(templates, "templates/index.html"))
	resultTmpl = template.Must(template.ParseFS(templates, "templates/result.html"))
)

// RubricBar is one rubric axis prepared for display. Percent is the bar width
// and is clamped into the 0-10 scale for display only; the underlying result
// is never modified here.
type RubricBar struct {
	Name    string
	Score   float64
	Percent int
}

// TemplateData is the view model for the result page.
type TemplateData struct {
	Grade             string
	Score             float64
	ScoreClass        string
	Level             string
	Strengths         []string
	Improvements      []string
	Bars              []RubricBar
	RubricComments    string
	InlineFeedback    string
	ExtractionWarning string
	Model             string
}

// BarPercent converts a 0-10 rubric score into a bar width percentage,
// clamping out-of-range values so a 12 renders as a full bar and a -1 as an
// empty one.
func BarPercent(score float64) int {
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return int(score * 10)
}

func scoreClass(score float64) string {
	switch {
	case score >= 80:
		return "score-high"
	case score >= 60:
		return "score-medium"
	default:
		return "score-low"
	}
}

func prepareTemplateData(result models.GradeResult) TemplateData {
	rubric := result.Rubric
	return TemplateData{
		Grade:        result.Grade,
		Score:        result.Score,
		ScoreClass:   scoreClass(result.Score),
		Level:        result.Level,
		Strengths:    result.Strengths,
		Improvements: result.Improvements,
		Bars: []RubricBar{
			{Name: "Content", Score: rubric.Content, Percent: BarPercent(rubric.Content)},
			{Name: "Organisation", Score: rubric.Organisation, Percent: BarPercent(rubric.Organisation)},
			{Name: "Language", Score: rubric.Language, Percent: BarPercent(rubric.Language)},
			{Name: "Style", Score: rubric.Style, Percent: BarPercent(rubric.Style)},
			{Name: "Mechanics", Score: rubric.Mechanics, Percent: BarPercent(rubric.Mechanics)},
		},
		RubricComments:    rubric.Comments,
		InlineFeedback:    result.InlineFeedback,
		ExtractionWarning: result.Meta.ExtractionWarning,
		Model:             result.Meta.Model,
	}
}

// RenderIndex writes the essay upload form.
func RenderIndex(w io.Writer) error {
	return indexTmpl.Execute(w, nil)
}

// RenderResult writes the result page for a validated grading result.
func RenderResult(w io.Writer, result models.GradeResult) error {
	return resultTmpl.Execute(w, prepareTemplateData(result))
}

package report

import (
	"bytes"
	"strings"
	"testing"

	"essayhub/models"
)

func TestBarPercentClamps(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{12, 100},
		{10, 100},
		{7, 70},
		{0, 0},
		{-1, 0},
		{5.5, 55},
	}
	for _, tt := range tests {
		if got := BarPercent(tt.score); got != tt.want {
			t.Errorf("BarPercent(%v) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestRenderResultEmptyStates(t *testing.T) {
	result := models.GradeResult{
		Grade:          "C",
		Score:          55,
		Level:          "Developing",
		Strengths:      []string{},
		Improvements:   []string{},
		Rubric:         models.RubricScores{Content: 5, Organisation: 5, Language: 5, Style: 5, Mechanics: 5},
		InlineFeedback: "## Content\nNeeds work.",
		Meta:           models.GradeMeta{Model: "gemini-test"},
	}

	var buf bytes.Buffer
	if err := RenderResult(&buf, result); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	page := buf.String()

	if !strings.Contains(page, "No strengths listed.") {
		t.Error("expected empty-state placeholder for strengths")
	}
	if !strings.Contains(page, "No improvements listed.") {
		t.Error("expected empty-state placeholder for improvements")
	}
	if !strings.Contains(page, "gemini-test") {
		t.Error("expected model identifier on the page")
	}
}

func TestRenderResultClampsBars(t *testing.T) {
	result := models.GradeResult{
		Grade:  "A",
		Score:  95,
		Level:  "Advanced",
		Rubric: models.RubricScores{Content: 12, Organisation: -1, Language: 9, Style: 9, Mechanics: 9},
		Meta:   models.GradeMeta{Model: "gemini-test"},
	}

	var buf bytes.Buffer
	if err := RenderResult(&buf, result); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	page := buf.String()

	if !strings.Contains(page, "width: 100%") {
		t.Error("expected an over-range score to render a full bar")
	}
	if !strings.Contains(page, "width: 0%") {
		t.Error("expected a negative score to render an empty bar")
	}
	// The raw scores are shown untouched; only the bar width is clamped.
	if !strings.Contains(page, "12") {
		t.Error("expected the raw out-of-range score to remain visible")
	}
}

func TestRenderResultShowsWarning(t *testing.T) {
	result := models.GradeResult{
		Rubric: models.RubricScores{},
		Meta:   models.GradeMeta{Model: "gemini-test", ExtractionWarning: "no text could be extracted"},
	}

	var buf bytes.Buffer
	if err := RenderResult(&buf, result); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "no text could be extracted") {
		t.Error("expected the extraction warning on the page")
	}
}

func TestRenderIndex(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderIndex(&buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	page := buf.String()
	if !strings.Contains(page, `name="text"`) || !strings.Contains(page, `name="file"`) || !strings.Contains(page, `name="apiKey"`) {
		t.Error("expected the form to carry text, file and apiKey fields")
	}
}

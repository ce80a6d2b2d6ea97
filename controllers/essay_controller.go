package controllers

import (
	"io"
	"log"
	"net/http"
	"strings"

	"essayhub/extraction"
	"essayhub/report"
	"essayhub/services"

	"github.com/gin-gonic/gin"
)

// gradeEssay is a seam so tests can stub the model call.
var gradeEssay = services.GradeEssay

// GradeEssay handles POST /grade: multipart form with an essay as either a
// "text" field or a "file" upload, plus an optional per-request "apiKey".
// Returns the validated GradeResult as JSON.
func GradeEssay(c *gin.Context) {
	essay, apiKey, warning, ok := resolveEssay(c)
	if !ok {
		return
	}

	result, err := gradeEssay(c.Request.Context(), essay, apiKey, warning)
	if err != nil {
		log.Printf("grading request failed: %v", err)
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

// GradeEssayView is the server-rendered variant of GradeEssay: same input
// contract, but the result comes back as an HTML page.
func GradeEssayView(c *gin.Context) {
	essay, apiKey, warning, ok := resolveEssay(c)
	if !ok {
		return
	}

	result, err := gradeEssay(c.Request.Context(), essay, apiKey, warning)
	if err != nil {
		log.Printf("grading request failed: %v", err)
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := report.RenderResult(c.Writer, result); err != nil {
		log.Printf("failed to render result page: %v", err)
	}
}

// Index serves the essay upload form.
func Index(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := report.RenderIndex(c.Writer); err != nil {
		log.Printf("failed to render index page: %v", err)
	}
}

// Health is a liveness probe.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// resolveEssay pulls the essay out of the request. An uploaded file that
// yields text wins over the "text" field; an upload that yields nothing falls
// back to the field and carries an extraction warning. Writes the 400
// response itself and returns ok=false when no usable essay exists.
func resolveEssay(c *gin.Context) (essay, apiKey, warning string, ok bool) {
	text := strings.TrimSpace(c.PostForm("text"))
	apiKey = c.PostForm("apiKey")

	file, header, err := c.Request.FormFile("file")
	if err == nil {
		defer file.Close()

		kind := extraction.Detect(header.Header.Get("Content-Type"), header.Filename)
		if kind == extraction.KindUnsupported {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "unsupported file type; upload a PDF, .docx or plain text file",
			})
			return "", "", "", false
		}

		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file: " + err.Error()})
			return "", "", "", false
		}

		res, err := extraction.Extract(data, kind)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return "", "", "", false
		}
		essay = res.Text
		warning = res.Warning
	}

	if essay == "" {
		essay = text
	}
	if essay == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no essay text provided; supply a text field or upload a file"})
		return "", "", "", false
	}
	return essay, apiKey, warning, true
}

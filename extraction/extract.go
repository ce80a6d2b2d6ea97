// Package extraction turns uploaded documents into plain essay text.
package extraction

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind is the closed set of document variants the service accepts.
type Kind int

const (
	KindUnsupported Kind = iota
	KindPDF
	KindWord
	KindPlainText
)

func (k Kind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindWord:
		return "word"
	case KindPlainText:
		return "text"
	default:
		return "unsupported"
	}
}

// NoTextWarning is attached to a result when a valid document yielded no text.
const NoTextWarning = "no text could be extracted from the uploaded file"

// Detect maps a declared media type and filename to a document variant.
// The media type wins; the extension is the fallback for generic types.
func Detect(contentType, filename string) Kind {
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}

	switch mediaType {
	case "application/pdf":
		return KindPDF
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return KindWord
	case "text/plain":
		return KindPlainText
	}
	if strings.HasPrefix(mediaType, "text/") {
		return KindPlainText
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return KindPDF
	case ".docx":
		return KindWord
	case ".txt":
		return KindPlainText
	}
	return KindUnsupported
}

// Result holds extracted text and an optional soft warning. A warning means
// the document was valid but contained no usable text; the caller decides
// whether that is fatal.
type Result struct {
	Text    string
	Warning string
}

// Extract runs the handler for the detected variant. Unsupported variants are
// the only hard error; a document with no text returns a warning instead.
func Extract(data []byte, kind Kind) (Result, error) {
	var text string
	var err error

	switch kind {
	case KindPDF:
		text, err = extractPDF(data)
	case KindWord:
		text, err = extractDocx(data)
	case KindPlainText:
		text = string(data)
	default:
		return Result{}, fmt.Errorf("unsupported file type")
	}

	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		// A broken or empty document is treated the same way: nothing usable
		// came out, which the caller may still recover from via the text field.
		return Result{Warning: NoTextWarning}, nil
	}
	return Result{Text: text}, nil
}

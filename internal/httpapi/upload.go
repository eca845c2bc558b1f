package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"rsc.io/pdf"

	"newsproof/backend/internal/check"
)

const maxUploadBytes = 10 << 20

// UploadCheck accepts an article as a file instead of pasted text. The file
// is reduced to plain text and then follows the normal submission path.
func (h Handler) UploadCheck(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "could not parse upload: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "a file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "could not read uploaded file")
		return
	}

	text, err := extractText(header.Filename, data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unsupported_file", err.Error())
		return
	}

	result, err := h.checker.Submit(r.Context(), check.InputText, text)
	if err != nil {
		writeCheckError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func extractText(filename string, data []byte) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".txt", ".md":
		return string(data), nil
	case ".pdf":
		return extractPDFText(data)
	default:
		return "", fmt.Errorf("unsupported file type %q: use .txt, .md or .pdf", ext)
	}
}

// extractPDFText concatenates the text runs of every page. The pdf package
// panics on malformed files, so the recover turns that into an error.
func extractPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	var builder strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		for _, run := range page.Content().Text {
			builder.WriteString(run.S)
			builder.WriteByte(' ')
		}
	}

	out := strings.TrimSpace(builder.String())
	if out == "" {
		return "", fmt.Errorf("pdf contains no extractable text")
	}
	return out, nil
}

package models

import (
	"github.com/google/uuid"
)

const PDFMimeType = "application/pdf"

// JobDescription is the job text as supplied by the user or fetched from a URL.
// Only the empty string counts as missing.
type JobDescription string

func (jd JobDescription) Present() bool {
	return jd != ""
}

// ResumeDocument carries the uploaded PDF bytes untouched.
type ResumeDocument struct {
	Filename string
	Data     []byte
}

// Present reports whether a non-empty file was uploaded. A nil document is absent.
func (r *ResumeDocument) Present() bool {
	return r != nil && len(r.Data) > 0
}

type Evaluation struct {
	ID uuid.UUID
	// Result is the model's free-form text, never parsed.
	Result                   string
	Model                    string
	JobDescriptionCharacters int
	Truncated                bool
}

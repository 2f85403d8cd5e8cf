package services

import (
	"unicode/utf8"

	"google.golang.org/genai"

	"alfredoptarigan/ats-analyzer/internal/models"
)

// MaxJobDescriptionChars caps the job text sent to the model.
const MaxJobDescriptionChars = 15000

const ATSPrompt = `
You are an expert ATS (Applicant Tracking System) specialist.
Analyze the provided resume against the job description.

Output format:
### ATS Match Percentage: [0-100%]
**Matching Skills:** [List]
**Missing Skills:** [List]
**Strengths:** [List]
**Improvements:** [List]
**Final Verdict:** (Hire / Review / Reject)
`

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// TruncateJobDescription keeps the first MaxJobDescriptionChars characters of jd.
// The cut is a plain prefix with no word-boundary adjustment.
func TruncateJobDescription(jd string) (string, bool) {
	if len(jd) <= MaxJobDescriptionChars {
		// byte length bounds rune count
		return jd, false
	}

	count := 0
	for i := range jd {
		if count == MaxJobDescriptionChars {
			return jd[:i], true
		}
		count++
	}
	return jd, false
}

// BuildEvaluationRequest assembles the three ordered parts: instruction, job text, PDF bytes.
func (pb *PromptBuilder) BuildEvaluationRequest(jobDescription string, resume []byte) *genai.Content {
	parts := []*genai.Part{
		genai.NewPartFromText(ATSPrompt),
		genai.NewPartFromText(jobDescription),
		genai.NewPartFromBytes(resume, models.PDFMimeType),
	}
	return genai.NewContentFromParts(parts, genai.RoleUser)
}

func runeCount(s string) int {
	return utf8.RuneCountInString(s)
}

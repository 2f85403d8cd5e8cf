package handlers

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-analyzer/internal/models"
	"alfredoptarigan/ats-analyzer/internal/services"
)

const (
	MsgMissingJobDescription = "Please provide a job description."
	MsgMissingResume         = "Please upload a resume."
	MsgInvalidForm           = "failed to parse multipart form"
	evaluationErrorPrefix    = "An error occurred: "
)

type AnalyzeHandler struct {
	evaluator   services.EvaluatorService
	maxFileSize int64
}

func NewAnalyzeHandler(evaluator services.EvaluatorService, maxFileSize int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		evaluator:   evaluator,
		maxFileSize: maxFileSize,
	}
}

// HandleAnalyze handles POST /analyze with multipart fields job_description and resume.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	jobDescription := models.JobDescription(c.FormValue("job_description"))

	resume, err := h.readResume(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: err.Error()})
	}

	evaluation, err := h.evaluator.EvaluateResume(c.UserContext(), jobDescription, resume)
	switch {
	case errors.Is(err, services.ErrMissingJobDescription):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: MsgMissingJobDescription})
	case errors.Is(err, services.ErrMissingResume):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: MsgMissingResume})
	case err != nil:
		return c.Status(fiber.StatusBadGateway).JSON(models.ErrorResponse{Error: evaluationErrorPrefix + err.Error()})
	}

	// the plain result is still returned when rendering fails
	resultHTML, _ := services.RenderResultHTML(evaluation.Result)

	return c.JSON(models.AnalyzeResponse{
		ID:                       evaluation.ID.String(),
		Result:                   evaluation.Result,
		ResultHTML:               resultHTML,
		Model:                    evaluation.Model,
		JobDescriptionCharacters: evaluation.JobDescriptionCharacters,
		Truncated:                evaluation.Truncated,
	})
}

// readResume returns nil when no file was uploaded; presence is judged by the evaluator.
// A body that is not a readable multipart form is an error.
func (h *AnalyzeHandler) readResume(c *fiber.Ctx) (*models.ResumeDocument, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errors.New(MsgInvalidForm)
	}

	files := form.File["resume"]
	if len(files) == 0 {
		return nil, nil
	}
	fileHeader := files[0]

	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		return nil, fmt.Errorf("Resume file too large. Max size: %d bytes", h.maxFileSize)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.New("Failed to read uploaded resume")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.New("Failed to read uploaded resume")
	}

	return &models.ResumeDocument{
		Filename: fileHeader.Filename,
		Data:     data,
	}, nil
}

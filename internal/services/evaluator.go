package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ats-analyzer/internal/logger"
	"alfredoptarigan/ats-analyzer/internal/models"
)

var (
	ErrMissingJobDescription = errors.New("please provide a job description")
	ErrMissingResume         = errors.New("please upload a resume")
)

const maxLogPreview = 200

type EvaluatorService interface {
	EvaluateResume(ctx context.Context, jobDescription models.JobDescription, resume *models.ResumeDocument) (*models.Evaluation, error)
}

type evaluatorService struct {
	geminiService GeminiService
	promptBuilder *PromptBuilder
	logger        *zap.Logger
}

func NewEvaluatorService(geminiService GeminiService, logger *zap.Logger) EvaluatorService {
	return &evaluatorService{
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
		logger:        logger,
	}
}

// EvaluateResume checks presence of both inputs, then makes exactly one remote call.
// The job description is checked first.
func (e *evaluatorService) EvaluateResume(ctx context.Context, jobDescription models.JobDescription, resume *models.ResumeDocument) (*models.Evaluation, error) {
	if !jobDescription.Present() {
		return nil, ErrMissingJobDescription
	}
	if !resume.Present() {
		return nil, ErrMissingResume
	}

	evalID := uuid.New()
	jdText, truncated := TruncateJobDescription(string(jobDescription))
	jdChars := runeCount(jdText)

	log := e.logger.With(
		zap.String("evaluation_id", evalID.String()),
		zap.String("model", e.geminiService.Model()),
	)
	log.Info("evaluating resume",
		zap.Int("job_description_chars", jdChars),
		zap.Bool("truncated", truncated),
		zap.String("resume_filename", resume.Filename),
		zap.Int("resume_bytes", len(resume.Data)),
	)

	content := e.promptBuilder.BuildEvaluationRequest(jdText, resume.Data)

	start := time.Now()
	result, err := e.geminiService.GenerateContent(ctx, content)
	if err != nil {
		log.Error("evaluation failed", zap.Duration("latency", time.Since(start)), zap.Error(err))
		return nil, fmt.Errorf("failed to evaluate resume: %w", err)
	}

	log.Info("evaluation completed",
		zap.Duration("latency", time.Since(start)),
		zap.Int("result_chars", runeCount(result)),
	)
	log.Debug("evaluation result", zap.String("preview", logger.TruncateForLog(result, maxLogPreview)))

	return &models.Evaluation{
		ID:                       evalID,
		Result:                   result,
		Model:                    e.geminiService.Model(),
		JobDescriptionCharacters: jdChars,
		Truncated:                truncated,
	}, nil
}

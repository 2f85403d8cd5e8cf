package handlers

import (
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-analyzer/internal/models"
	"alfredoptarigan/ats-analyzer/internal/services"
)

const (
	MsgMissingURL     = "Please enter a job posting URL."
	MsgFetchFailed    = "Failed to fetch job description from the URL."
	MsgFetchSucceeded = "Job description fetched successfully!"
)

type FetchHandler struct {
	fetcher services.JDFetcher
}

func NewFetchHandler(fetcher services.JDFetcher) *FetchHandler {
	return &FetchHandler{fetcher: fetcher}
}

// HandleFetch handles POST /job-description/fetch
func (h *FetchHandler) HandleFetch(c *fiber.Ctx) error {
	var req models.FetchJobDescriptionRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Invalid request payload"})
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: MsgMissingURL})
	}

	text, err := h.fetcher.FetchJobDescription(c.UserContext(), url)
	// a page with no visible text is no job description either
	if err != nil || text == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(models.ErrorResponse{Error: MsgFetchFailed})
	}

	return c.JSON(models.FetchJobDescriptionResponse{
		Message:    MsgFetchSucceeded,
		Text:       text,
		Characters: utf8.RuneCountInString(text),
	})
}

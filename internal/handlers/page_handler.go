package handlers

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-analyzer/internal/services"
)

//go:embed templates/index.html
var indexTemplateRaw string

var indexTemplate = template.Must(template.New("index").Parse(indexTemplateRaw))

type pageData struct {
	Model                  string
	URLFetchEnabled        bool
	MaxJobDescriptionChars int
	MaxFileSize            int64
	Messages               map[string]string
}

type PageHandler struct {
	data pageData
}

func NewPageHandler(model string, urlFetchEnabled bool, maxFileSize int64) *PageHandler {
	return &PageHandler{
		data: pageData{
			Model:                  model,
			URLFetchEnabled:        urlFetchEnabled,
			MaxJobDescriptionChars: services.MaxJobDescriptionChars,
			MaxFileSize:            maxFileSize,
			Messages: map[string]string{
				"missingJobDescription": MsgMissingJobDescription,
				"missingResume":         MsgMissingResume,
				"missingURL":            MsgMissingURL,
				"fetchFailed":           MsgFetchFailed,
				"fetchSucceeded":        MsgFetchSucceeded,
			},
		},
	}
}

// HandleIndex renders the single-page UI.
func (h *PageHandler) HandleIndex(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, h.data); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("failed to render page: %v", err))
	}

	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

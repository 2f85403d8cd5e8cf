package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/ats-analyzer/internal/models"
	"alfredoptarigan/ats-analyzer/internal/services"
)

const testModel = "gemini-test"

var samplePDF = []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF")

type stubGemini struct {
	response string
	err      error
	calls    []*genai.Content
}

func (s *stubGemini) GenerateContent(_ context.Context, content *genai.Content) (string, error) {
	s.calls = append(s.calls, content)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGemini) Model() string {
	return testModel
}

type testApp struct {
	app    *fiber.App
	gemini *stubGemini
}

func newTestApp(t *testing.T, gemini *stubGemini, fetcher services.JDFetcher) *testApp {
	t.Helper()

	app := NewApp(AppConfig{BodyLimit: 4 * 1024 * 1024})

	routes := Routes{
		Page:    NewPageHandler(testModel, fetcher != nil, 1024*1024),
		Analyze: NewAnalyzeHandler(services.NewEvaluatorService(gemini, zap.NewNop()), 1024*1024),
		Model:   testModel,
	}
	if fetcher != nil {
		routes.Fetch = NewFetchHandler(fetcher)
	}
	Register(app, routes)

	return &testApp{app: app, gemini: gemini}
}

func analyzeRequest(t *testing.T, jobDescription string, resume []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("job_description", jobDescription))
	if resume != nil {
		part, err := writer.CreateFormFile("resume", "resume.pdf")
		require.NoError(t, err)
		_, err = part.Write(resume)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func fetchRequest(url string) *http.Request {
	payload, _ := json.Marshal(models.FetchJobDescriptionRequest{URL: url})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/job-description/fetch", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAnalyzeMissingJobDescription(t *testing.T) {
	ta := newTestApp(t, &stubGemini{response: "unused"}, nil)

	resp, err := ta.app.Test(analyzeRequest(t, "", samplePDF))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, MsgMissingJobDescription, decode[models.ErrorResponse](t, resp).Error)
	assert.Empty(t, ta.gemini.calls)
}

func TestAnalyzeMissingResume(t *testing.T) {
	ta := newTestApp(t, &stubGemini{response: "unused"}, nil)

	resp, err := ta.app.Test(analyzeRequest(t, "Backend engineer, Go and PostgreSQL", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, MsgMissingResume, decode[models.ErrorResponse](t, resp).Error)
	assert.Empty(t, ta.gemini.calls)
}

func TestAnalyzeEmptyResumeFile(t *testing.T) {
	ta := newTestApp(t, &stubGemini{response: "unused"}, nil)

	resp, err := ta.app.Test(analyzeRequest(t, "Backend engineer", []byte{}))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, MsgMissingResume, decode[models.ErrorResponse](t, resp).Error)
	assert.Empty(t, ta.gemini.calls)
}

func TestAnalyzeMissingBothReportsJobDescription(t *testing.T) {
	ta := newTestApp(t, &stubGemini{response: "unused"}, nil)

	resp, err := ta.app.Test(analyzeRequest(t, "", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, MsgMissingJobDescription, decode[models.ErrorResponse](t, resp).Error)
}

func TestAnalyzeReturnsResultVerbatim(t *testing.T) {
	result := "Match: 72%\n\nMissing keywords:\n- Kubernetes\n- gRPC\n\n**Summary**: solid backend profile."
	ta := newTestApp(t, &stubGemini{response: result}, nil)
	jd := strings.Repeat("a", 10000)

	resp, err := ta.app.Test(analyzeRequest(t, jd, samplePDF))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[models.AnalyzeResponse](t, resp)
	assert.Equal(t, result, body.Result)
	assert.Contains(t, body.ResultHTML, "<strong>Summary</strong>")
	assert.Contains(t, body.ResultHTML, "<li>Kubernetes</li>")
	assert.Equal(t, testModel, body.Model)
	assert.Equal(t, 10000, body.JobDescriptionCharacters)
	assert.False(t, body.Truncated)
	assert.NotEmpty(t, body.ID)

	require.Len(t, ta.gemini.calls, 1)
	parts := ta.gemini.calls[0].Parts
	require.Len(t, parts, 3)
	assert.Equal(t, services.ATSPrompt, parts[0].Text)
	assert.Equal(t, jd, parts[1].Text)
	require.NotNil(t, parts[2].InlineData)
	assert.Equal(t, models.PDFMimeType, parts[2].InlineData.MIMEType)
	assert.Equal(t, samplePDF, parts[2].InlineData.Data)
}

func TestAnalyzeResultHTMLOmitsRawHTML(t *testing.T) {
	ta := newTestApp(t, &stubGemini{response: "### ATS Match Percentage: 80%\n\n<img src=x onerror=alert(1)>\n"}, nil)

	resp, err := ta.app.Test(analyzeRequest(t, "Backend engineer", samplePDF))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[models.AnalyzeResponse](t, resp)
	assert.Contains(t, body.Result, "<img src=x onerror=alert(1)>")
	assert.Contains(t, body.ResultHTML, "<h3>ATS Match Percentage: 80%</h3>")
	assert.NotContains(t, body.ResultHTML, "onerror")
}

func TestAnalyzeRejectsUnreadableForm(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{name: "json body", contentType: "application/json", body: `{"job_description": "Backend engineer"}`},
		{name: "broken multipart", contentType: "multipart/form-data; boundary=xyz", body: "--xyz\r\nContent-Disposition: form-data; name=\"resume\"; filename=\"cv.pdf\"\r\n\r\n%PDF-1.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t, &stubGemini{response: "unused"}, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			resp, err := ta.app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, MsgInvalidForm, decode[models.ErrorResponse](t, resp).Error)
			assert.Empty(t, ta.gemini.calls)
		})
	}
}

func TestAnalyzeTruncatesLongJobDescription(t *testing.T) {
	ta := newTestApp(t, &stubGemini{response: "ok"}, nil)
	jd := strings.Repeat("0123456789", 2000)

	resp, err := ta.app.Test(analyzeRequest(t, jd, samplePDF))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[models.AnalyzeResponse](t, resp)
	assert.True(t, body.Truncated)
	assert.Equal(t, services.MaxJobDescriptionChars, body.JobDescriptionCharacters)

	require.Len(t, ta.gemini.calls, 1)
	sent := ta.gemini.calls[0].Parts[1].Text
	assert.Len(t, sent, 15000)
	assert.Equal(t, jd[:15000], sent)
}

func TestAnalyzeRemoteFailure(t *testing.T) {
	ta := newTestApp(t, &stubGemini{err: errors.New("quota exceeded")}, nil)

	resp, err := ta.app.Test(analyzeRequest(t, "Backend engineer", samplePDF))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	msg := decode[models.ErrorResponse](t, resp).Error
	assert.True(t, strings.HasPrefix(msg, "An error occurred: "))
	assert.Contains(t, msg, "quota exceeded")
	assert.Len(t, ta.gemini.calls, 1)
}

func TestAnalyzeResumeTooLarge(t *testing.T) {
	ta := newTestApp(t, &stubGemini{response: "unused"}, nil)

	resp, err := ta.app.Test(analyzeRequest(t, "Backend engineer", bytes.Repeat([]byte("x"), 1024*1024+1)))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[models.ErrorResponse](t, resp).Error, "too large")
	assert.Empty(t, ta.gemini.calls)
}

func TestFetchJobDescription(t *testing.T) {
	jobBoard := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs/42" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, `<html><head><script>track()</script></head><body><h1>Go   Engineer</h1><p>Remote</p></body></html>`)
	}))
	defer jobBoard.Close()

	ta := newTestApp(t, &stubGemini{response: "unused"}, services.NewJDFetcher(jobBoard.Client(), zap.NewNop()))

	t.Run("success", func(t *testing.T) {
		resp, err := ta.app.Test(fetchRequest(jobBoard.URL + "/jobs/42"))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decode[models.FetchJobDescriptionResponse](t, resp)
		assert.Equal(t, MsgFetchSucceeded, body.Message)
		assert.Equal(t, "Go Engineer Remote", body.Text)
		assert.Equal(t, len("Go Engineer Remote"), body.Characters)
	})

	t.Run("not found", func(t *testing.T) {
		resp, err := ta.app.Test(fetchRequest(jobBoard.URL + "/jobs/missing"))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, MsgFetchFailed, decode[models.ErrorResponse](t, resp).Error)
	})

	t.Run("missing url", func(t *testing.T) {
		resp, err := ta.app.Test(fetchRequest("   "))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, MsgMissingURL, decode[models.ErrorResponse](t, resp).Error)
	})

	assert.Empty(t, ta.gemini.calls)
}

func TestFetchRouteAbsentInTextOnlyVariant(t *testing.T) {
	ta := newTestApp(t, &stubGemini{response: "unused"}, nil)

	resp, err := ta.app.Test(fetchRequest("https://example.com/jobs/1"))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestIndexPage(t *testing.T) {
	tests := []struct {
		name       string
		fetcher    services.JDFetcher
		wantURLBox bool
	}{
		{name: "url variant", fetcher: services.NewJDFetcher(nil, zap.NewNop()), wantURLBox: true},
		{name: "text-only variant", fetcher: nil, wantURLBox: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t, &stubGemini{}, tt.fetcher)

			resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			page := string(raw)

			assert.Contains(t, page, "Smart ATS Resume Analyzer")
			assert.Contains(t, page, testModel)
			assert.Contains(t, page, `accept=".pdf,application/pdf"`)
			assert.Contains(t, page, "Analyze Resume")
			assert.Contains(t, page, "no OCR required")
			assert.Contains(t, page, "Gemini is analyzing your resume...")
			assert.Contains(t, page, "renderResult(")
			assert.Contains(t, page, "result_html")
			assert.Equal(t, tt.wantURLBox, strings.Contains(page, `id="job_url"`))
		})
	}
}

func TestHealth(t *testing.T) {
	ta := newTestApp(t, &stubGemini{}, nil)

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, testModel, body["model"])
	assert.Equal(t, false, body["url_fetch_enabled"])
}

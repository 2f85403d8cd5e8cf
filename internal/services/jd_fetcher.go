package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	JobDescriptionFetchTimeout = 10 * time.Second
	browserUserAgent           = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ErrJobDescriptionFetchFailed is the only error JDFetcher returns. Causes are logged, not surfaced.
var ErrJobDescriptionFetchFailed = errors.New("failed to fetch job description from the URL")

type JDFetcher interface {
	FetchJobDescription(ctx context.Context, rawURL string) (string, error)
}

type jdFetcher struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewJDFetcher returns a fetcher using httpClient, or a client with the fixed
// 10 second timeout when httpClient is nil.
func NewJDFetcher(httpClient *http.Client, logger *zap.Logger) JDFetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: JobDescriptionFetchTimeout}
	}
	return &jdFetcher{
		httpClient: httpClient,
		logger:     logger,
	}
}

// FetchJobDescription implements JDFetcher.
func (f *jdFetcher) FetchJobDescription(ctx context.Context, rawURL string) (string, error) {
	text, err := f.fetch(ctx, rawURL)
	if err != nil {
		f.logger.Warn("job description fetch failed", zap.String("url", rawURL), zap.Error(err))
		return "", ErrJobDescriptionFetchFailed
	}

	f.logger.Debug("job description fetched",
		zap.String("url", rawURL),
		zap.Int("characters", runeCount(text)),
	)
	return text, nil
}

func (f *jdFetcher) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	text, err := ExtractVisibleText(resp.Body)
	if err != nil {
		return "", err
	}
	return text, nil
}

// ExtractVisibleText parses an HTML document, drops script and style elements,
// and returns the remaining text with whitespace collapsed.
// Scripting is disabled while parsing so noscript content is parsed as markup, not raw text.
func ExtractVisibleText(r io.Reader) (string, error) {
	doc, err := html.ParseWithOptions(r, html.ParseOptionEnableScripting(false))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return NormalizeWhitespace(sb.String()), nil
}

// NormalizeWhitespace collapses every whitespace run into one space and trims the ends.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

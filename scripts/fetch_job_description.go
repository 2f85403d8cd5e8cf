package main

import (
	"context"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"alfredoptarigan/ats-analyzer/internal/config"
	"alfredoptarigan/ats-analyzer/internal/logger"
	"alfredoptarigan/ats-analyzer/internal/services"
)

const previewChars = 300

// Usage: go run ./scripts https://jobs.example.com/posting/1 [more urls...]
func main() {
	urls := os.Args[1:]
	if len(urls) == 0 {
		log.Fatal("❌ Usage: fetch_job_description <url> [url...]")
	}

	cfg := config.Load()
	l, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer func() { _ = l.Sync() }()

	fetcher := services.NewJDFetcher(nil, l)
	ctx := context.Background()

	successCount := 0
	failCount := 0

	for _, url := range urls {
		log.Printf("\n🌐 Fetching: %s", url)

		text, err := fetcher.FetchJobDescription(ctx, url)
		if err != nil || text == "" {
			log.Println("   ❌ Failed to fetch job description from the URL.")
			failCount++
			continue
		}

		chars := utf8.RuneCountInString(text)
		truncated, wasTruncated := services.TruncateJobDescription(text)
		log.Printf("   ✅ Extracted %d characters", chars)
		if wasTruncated {
			log.Printf("   ✂️  Analysis would send the first %d characters", utf8.RuneCountInString(truncated))
		}
		log.Printf("   📄 Preview: %s", logger.TruncateForLog(text, previewChars))
		l.Debug("fetched job description", zap.String("url", url), zap.Int("characters", chars))

		successCount++
	}

	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Fetch Summary:")
	log.Printf("   ✅ Successful: %d pages", successCount)
	log.Printf("   ❌ Failed: %d pages", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		os.Exit(1)
	}
}

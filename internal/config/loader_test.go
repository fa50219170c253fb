package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSourceFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidSourceSet(t *testing.T) {
	content := `
feeds:
  - name: "Fashion Press"
    url: "https://example.jp/rss"
    filterTags:
      - "ポップアップ"
    fetchImage: true

apis:
  - name: "Test Media"
    url: "https://example.jp"
    type: "wordpress"
    pages: 2
    storeTag: "原宿"

scrapes:
  - name: "Test Shop"
    type: "shop-news"
    urls:
      - "https://example.jp/news/"
    baseUrl: "https://example.jp"

shopify:
  - name: "Test Store"
    url: "https://store.example.jp"
    limit: 5
`

	set, err := LoadSourceSet(writeSourceFile(t, content))
	if err != nil {
		t.Fatal(err)
	}

	if len(set.Feeds) != 1 || len(set.APIs) != 1 || len(set.Scrapes) != 1 || len(set.Shopifys) != 1 {
		t.Fatalf("Unexpected source counts: %+v", set)
	}
	if set.Feeds[0].FilterTags[0] != "ポップアップ" {
		t.Errorf("Expected filter tag parsed, got %v", set.Feeds[0].FilterTags)
	}
	if !set.Feeds[0].FetchImage {
		t.Error("Expected fetchImage true")
	}
	if set.APIs[0].StoreTag != "原宿" {
		t.Errorf("Expected storeTag parsed, got %q", set.APIs[0].StoreTag)
	}
	if set.Shopifys[0].Limit != 5 {
		t.Errorf("Expected limit 5, got %d", set.Shopifys[0].Limit)
	}
}

func TestLoadSourceSetDefaults(t *testing.T) {
	content := `
feeds:
  - name: "Minimal Feed"
    url: "https://example.jp/rss"

apis:
  - name: "Minimal API"
    url: "https://example.jp"
    type: "wordpress"
`

	set, err := LoadSourceSet(writeSourceFile(t, content))
	if err != nil {
		t.Fatal(err)
	}

	if set.Feeds[0].Language != "ja" {
		t.Errorf("Expected default language 'ja', got %q", set.Feeds[0].Language)
	}
	if set.Feeds[0].Category != "news" {
		t.Errorf("Expected default category 'news', got %q", set.Feeds[0].Category)
	}
	if set.APIs[0].Pages != 1 {
		t.Errorf("Expected default pages 1, got %d", set.APIs[0].Pages)
	}
}

func TestLoadSourceSetValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing name", `
feeds:
  - url: "https://example.jp/rss"
`},
		{"missing url", `
feeds:
  - name: "No URL"
`},
		{"unknown api type", `
apis:
  - name: "Bad"
    url: "https://example.jp"
    type: "graphql"
`},
		{"scrape without urls", `
scrapes:
  - name: "Empty"
    type: "shop-news"
`},
		{"duplicate names", `
feeds:
  - name: "Same"
    url: "https://a.example.jp/rss"
shopify:
  - name: "Same"
    url: "https://b.example.jp"
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadSourceSet(writeSourceFile(t, tt.content)); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadSourceSetMissingFile(t *testing.T) {
	if _, err := LoadSourceSet("/nonexistent/sources.yml"); err == nil {
		t.Error("Expected error for missing file")
	}
}

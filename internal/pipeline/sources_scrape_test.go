package pipeline

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func mustParseRFC3339(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatal(err)
	}
	return parsed
}

func TestCollectScrapeSourceShopNews(t *testing.T) {
	page := `<html><body>
	<article class="news-item">
	  <a href="/harajuku/news/101"><h3>限定プラッシュ 新発売</h3></a>
	  <time datetime="2026-08-20">2026年8月20日</time>
	  <img data-src="https://cdn.example.jp/plush.jpg" src="https://cdn.example.jp/loading.gif"/>
	  <p>価格は2,200円。</p>
	</article>
	<article class="news-item">
	  <a href="javascript:void(0)"><h3>無効なリンク</h3></a>
	</article>
	<article class="news-item">
	  <a href="/harajuku/news/102"><h3>TOP</h3></a>
	</article>
	</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer server.Close()

	src := ScrapeSource{
		Name:     "Test Shop",
		Type:     "shop-news",
		URLs:     []string{server.URL + "/harajuku/news/"},
		BaseURL:  "https://www.shop.example.jp",
		StoreTag: "原宿",
		Language: "ja",
		Category: "products",
	}

	items, err := collectScrapeSource(src, testSourceConfig())
	if err != nil {
		t.Fatal(err)
	}

	// javascript:リンクとjunkタイトル（TOP）は除外される
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d: %+v", len(items), items)
	}

	got := items[0]
	if got.Title != "限定プラッシュ 新発売" {
		t.Errorf("Unexpected title %q", got.Title)
	}
	if got.Link != "https://www.shop.example.jp/harajuku/news/101" {
		t.Errorf("Expected link resolved against baseUrl, got %q", got.Link)
	}
	if !strings.HasPrefix(got.PublishedAt, "2026-08-20") {
		t.Errorf("Expected date from datetime attr, got %q", got.PublishedAt)
	}
	// data-srcを優先し、loading.gifのプレースホルダは採用しない
	if got.Image != "https://cdn.example.jp/plush.jpg" {
		t.Errorf("Expected lazy-load image, got %q", got.Image)
	}
	if got.Price != "¥2,200" {
		t.Errorf("Expected price from container text, got %q", got.Price)
	}
	if got.StoreTag != "原宿" {
		t.Errorf("Expected storeTag carried over, got %q", got.StoreTag)
	}
}

func TestCollectScrapeSourceGenericFallback(t *testing.T) {
	// 主要セレクタにマッチしないマークアップでも /news/ リンクは拾える
	page := `<html><body>
	<div class="totally-custom">
	  <a href="/news/42">シーズン限定コレクション<img src="https://cdn.example.jp/season.jpg"/></a>
	</div>
	</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer server.Close()

	src := ScrapeSource{
		Name:    "Fallback Shop",
		Type:    "shop-news",
		URLs:    []string{server.URL},
		BaseURL: "https://www.shop.example.jp",
	}

	items, err := collectScrapeSource(src, testSourceConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item via generic fallback, got %d", len(items))
	}
	if items[0].Link != "https://www.shop.example.jp/news/42" {
		t.Errorf("Unexpected link %q", items[0].Link)
	}
	if items[0].Image != "https://cdn.example.jp/season.jpg" {
		t.Errorf("Expected image from anchor child, got %q", items[0].Image)
	}
}

func TestCollectScrapeSourceJSONLD(t *testing.T) {
	page := `<html><head>
	<script type="application/ld+json">
	{"@type": "ItemList", "itemListElement": [
	  {"item": {"@type": "Product", "name": "コラボTシャツ", "url": "https://www.shop.example.jp/items/1", "image": "https://cdn.example.jp/t1.jpg"}},
	  {"item": {"@type": "Product", "name": "コラボトート", "url": "https://www.shop.example.jp/items/2", "image": ""}}
	]}
	</script>
	</head><body>
	<article class="news-item"><a href="/news/999"><h3>セレクタ経由のアイテム</h3></a></article>
	</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer server.Close()

	src := ScrapeSource{Name: "LD Shop", Type: "shop-news", URLs: []string{server.URL}}

	items, err := collectScrapeSource(src, testSourceConfig())
	if err != nil {
		t.Fatal(err)
	}

	// JSON-LDが存在する場合はセレクタより優先される
	if len(items) != 2 {
		t.Fatalf("Expected 2 items from JSON-LD, got %d", len(items))
	}
	if items[0].Title != "コラボTシャツ" {
		t.Errorf("Unexpected title %q", items[0].Title)
	}
	if items[0].Image != "https://cdn.example.jp/t1.jpg" {
		t.Errorf("Unexpected image %q", items[0].Image)
	}
}

func TestCollectScrapeSourcePageCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&sb, `<article class="news-item"><a href="/news/%d"><h3>新商品その%d</h3></a></article>`, i, i)
	}
	sb.WriteString("</body></html>")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sb.String())
	}))
	defer server.Close()

	src := ScrapeSource{Name: "Big Shop", Type: "shop-news", URLs: []string{server.URL}}
	items, err := collectScrapeSource(src, testSourceConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != maxScrapeItems {
		t.Errorf("Expected cap of %d items, got %d", maxScrapeItems, len(items))
	}
}

func TestCollectScrapeSourceAllPagesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	src := ScrapeSource{Name: "Gone", Type: "shop-news", URLs: []string{server.URL}}
	if _, err := collectScrapeSource(src, testSourceConfig()); err == nil {
		t.Error("Expected error when every page fails")
	}
}

func TestParseLooseDate(t *testing.T) {
	fallback := mustParseRFC3339(t, "2026-08-28T00:00:00+09:00")

	tests := []struct {
		input string
		want  string
	}{
		{"2026年8月20日", "2026-08-20T00:00:00+09:00"},
		{"2026.8.20", "2026-08-20T00:00:00+09:00"},
		{"2026-08-20", "2026-08-20T00:00:00Z"},
		{"日付なしのテキスト", "2026-08-28T00:00:00+09:00"},
	}

	for _, tt := range tests {
		got := parseLooseDate(tt.input, fallback)
		if got != tt.want {
			t.Errorf("parseLooseDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsValidScrapedTitle(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"限定プラッシュ", true},
		{"ab", false},
		{"1,200", false},
		{"TOP", false},
		{"カート", false},
		{"Shibuya pop-up", true},
	}

	for _, tt := range tests {
		if got := isValidScrapedTitle(tt.title); got != tt.want {
			t.Errorf("isValidScrapedTitle(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}

// =============================================================================
// sources_feed.go - RSS/Atomフィードアダプター
// =============================================================================
//
// このファイルはRSS/Atomフィードを使用するソースのアダプターを定義します。
// gofeed ライブラリを使用してフィードを解析します。
//
// 【処理の概要】
//   1. フィードを取得・パース（fetchRSSFeed）
//   2. filterTags が設定されていればカテゴリの部分一致でフィルタ
//   3. 各エントリを NormalizedItem に変換
//   4. 画像の優先順: enclosure → media:content/media:thumbnail →
//      フィード画像 → 本文中の最初の <img>（lazy-load属性を優先）
//   5. fetchImage 有効時、画像が無いアイテムの記事ページから og:image を補完
//      （ソースあたり最大10リクエスト、5秒タイムアウト、失敗は無視）
//
// =============================================================================
package pipeline

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// maxImageBackfill はソースあたりの記事ページ画像補完リクエストの上限
const maxImageBackfill = 10

var reImgTag = regexp.MustCompile(`(?is)<img[^>]+>`)
var reImgDataOriginal = regexp.MustCompile(`(?i)data-original\s*=\s*["']([^"']+)["']`)
var reImgDataSrc = regexp.MustCompile(`(?i)data-src\s*=\s*["']([^"']+)["']`)
var reImgSrc = regexp.MustCompile(`(?i)\bsrc\s*=\s*["']([^"']+)["']`)

// collectFeedSource はフィードソースから記事を収集してNormalizedItemに変換する
//
// フィードの取得・パースに失敗した場合はエラーを返す（呼び出し側の
// アグリゲーターがログに記録して他ソースの処理を続行する）。
// 個々のエントリの変換失敗はそのエントリのスキップに留める。
func collectFeedSource(src FeedSource, cfg SourceConfig) ([]NormalizedItem, error) {
	feed, err := fetchRSSFeed(src.URL, cfg)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", src.Name, err)
	}

	if len(feed.Items) == 0 {
		return nil, fmt.Errorf("no items in %s feed", src.Name)
	}

	now := time.Now()
	out := make([]NormalizedItem, 0, len(feed.Items))

	for _, entry := range feed.Items {
		title := StripHTML(entry.Title)
		if title == "" {
			continue
		}

		// filterTags が設定されていればカテゴリの部分一致でフィルタ
		if len(src.FilterTags) > 0 && !matchesFilterTags(entry.Categories, src.FilterTags) {
			continue
		}

		// 日付のパース（取得できない場合は収集時刻）
		publishedAt := now.Format(time.RFC3339)
		if entry.PublishedParsed != nil {
			publishedAt = entry.PublishedParsed.Format(time.RFC3339)
		} else if entry.UpdatedParsed != nil {
			publishedAt = entry.UpdatedParsed.Format(time.RFC3339)
		}

		// 要約: content:encoded 優先、なければ description
		raw := entry.Content
		if raw == "" {
			raw = entry.Description
		}
		summary := Truncate(StripHTML(raw), summaryMaxLen)

		link := strings.TrimSpace(entry.Link)
		idKey := link
		if idKey == "" {
			idKey = entry.GUID
		}

		out = append(out, NormalizedItem{
			ID:          GenerateID(idKey),
			Title:       title,
			Summary:     summary,
			Link:        link,
			Image:       NormalizeImageURL(feedItemImage(entry)),
			Source:      src.Name,
			StoreTag:    src.StoreTag,
			PublishedAt: publishedAt,
			Language:    src.Language,
			Category:    src.Category,
			Price:       ExtractPrice(title + " " + summary),
		})
	}

	if src.FetchImage {
		backfillArticleImages(out, cfg)
	}

	return out, nil
}

// matchesFilterTags はエントリのカテゴリがフィルタタグのいずれかを
// 部分一致で含むかチェックする（大文字小文字は区別しない）
func matchesFilterTags(categories, filterTags []string) bool {
	joined := strings.ToLower(strings.Join(categories, " "))
	for _, tag := range filterTags {
		if strings.Contains(joined, strings.ToLower(tag)) {
			return true
		}
	}
	return false
}

// feedItemImage はフィードエントリから画像URLを抽出する
//
// 優先順: enclosure → media:content → media:thumbnail → フィードエントリの
// image → 本文HTML中の最初の<img>（data-original / data-src を src より優先）
func feedItemImage(entry *gofeed.Item) string {
	for _, enc := range entry.Enclosures {
		if enc.URL != "" && (enc.Type == "" || strings.HasPrefix(enc.Type, "image/")) {
			return enc.URL
		}
	}

	if media, ok := entry.Extensions["media"]; ok {
		for _, key := range []string{"content", "thumbnail"} {
			for _, ext := range media[key] {
				if u := ext.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}

	if entry.Image != nil && entry.Image.URL != "" {
		return entry.Image.URL
	}

	if u := firstImageInHTML(entry.Content); u != "" {
		return u
	}
	return firstImageInHTML(entry.Description)
}

// firstImageInHTML はHTML断片中の最初の<img>タグから画像URLを抽出する
//
// lazy-load属性（data-original, data-src）を通常のsrcより優先する。
// フィード本文のサムネイルはlazy-loadプレースホルダをsrcに入れている
// サイトが多いため。
func firstImageInHTML(htmlStr string) string {
	tag := reImgTag.FindString(htmlStr)
	if tag == "" {
		return ""
	}
	for _, re := range []*regexp.Regexp{reImgDataOriginal, reImgDataSrc, reImgSrc} {
		if m := re.FindStringSubmatch(tag); len(m) == 2 {
			return m[1]
		}
	}
	return ""
}

// backfillArticleImages は画像が欠落しているアイテムの記事ページを取得し、
// Open Graph / Twitter Card のメタタグから画像を補完する
//
// 外部リクエスト量と総レイテンシを抑えるため、ソース実行あたりの
// フェッチ数に上限を設ける。失敗は黙って無視する（画像なしのまま）。
func backfillArticleImages(items []NormalizedItem, cfg SourceConfig) {
	fetched := 0
	for i := range items {
		if items[i].Image != "" || items[i].Link == "" {
			continue
		}
		if fetched >= maxImageBackfill {
			break
		}
		fetched++

		if u := fetchOGImage(items[i].Link, cfg); u != "" {
			items[i].Image = NormalizeImageURL(u)
		}
	}
}

// fetchOGImage は記事ページから og:image / twitter:image のメタタグを取得する
func fetchOGImage(articleURL string, cfg SourceConfig) string {
	resp, err := httpGet(articleURL, cfg.UserAgent, cfg.ImageTimeout)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	for _, sel := range []string{
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
	} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok && content != "" {
			return content
		}
	}
	return ""
}

// fetchRSSFeed は指定URLからRSS/Atomフィードを取得してパースする
//
// 共有HTTPクライアントを使用してフィードをフェッチし、gofeedでパースする。
func fetchRSSFeed(feedURL string, cfg SourceConfig) (*gofeed.Feed, error) {
	client := cfg.Client
	req, err := http.NewRequest("GET", feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	fp := gofeed.NewParser()
	feed, err := fp.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("RSS parse failed: %w", err)
	}

	return feed, nil
}

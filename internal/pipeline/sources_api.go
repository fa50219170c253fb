// =============================================================================
// sources_api.go - JSON APIアダプター（WordPress REST / イベントAPI）
// =============================================================================
//
// このファイルはJSON APIを使用するソースのアダプターを定義します。
//
// 【対応するAPI】
//   - WordPress REST API（/wp-json/wp/v2/posts）
//     title.rendered / content.rendered / _embedded のアイキャッチ画像。
//     レンダリング済みタイトルは &#8211; などの数値エンティティを含むため
//     デコードが必要。
//   - イベントAPI（商業施設の独自スキーマ）
//     name / slug / eventStartsAt / eventEndsAt / status。
//     status が PUBLISHED のイベントのみ採用。
//
// =============================================================================
package pipeline

import (
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// jsonAPI は大きなAPIレスポンスのデコードに使用するjson-iterator設定
var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// bannerImageDenylist は広告・ロゴなどの非コンテンツ画像のファイル名パターン
//
// マッチした画像は「誤った画像を残す」より「画像なし」を選ぶ。
var bannerImageDenylist = []string{
	"banner", "logo", "noimage", "no-image", "placeholder",
	"loading", "spinner", "dummy", "common/ogp",
}

// collectAPISource はJSON APIソースから記事を収集する
//
// 記述子の Type フィールドでスキーマを選択する。未知のTypeはエラー
// （アグリゲーターがログに記録してスキップする）。
func collectAPISource(src APISource, cfg SourceConfig) ([]NormalizedItem, error) {
	switch src.Type {
	case "wordpress":
		return collectWordPressSource(src, cfg)
	case "events":
		return collectEventSource(src, cfg)
	default:
		return nil, fmt.Errorf("unknown api source type: %q", src.Type)
	}
}

// -----------------------------------------------------------------------------
// WordPress REST API
// -----------------------------------------------------------------------------

// collectWordPressSource はWordPress REST APIから記事を収集する
//
// pages が2以上の場合は page=N パラメータでページネーションする。
// 1ページの取得失敗は以降のページの中断に留め、取得済み分は返す。
func collectWordPressSource(src APISource, cfg SourceConfig) ([]NormalizedItem, error) {
	perPage := src.Params["per_page"]
	if perPage == "" {
		perPage = "20"
	}

	pages := src.Pages
	if pages <= 0 {
		pages = 1
	}

	var out []NormalizedItem
	for page := 1; page <= pages; page++ {
		apiURL := fmt.Sprintf("%s/wp-json/wp/v2/posts?per_page=%s&page=%d&_embed=wp:featuredmedia",
			strings.TrimRight(src.URL, "/"), perPage, page)

		var posts []WPPost
		if err := httpGetJSON(apiURL, cfg, &posts); err != nil {
			if page == 1 {
				return nil, fmt.Errorf("fetching %s API: %w", src.Name, err)
			}
			warnf("%s: page %d fetch failed, keeping %d items: %v", src.Name, page, len(out), err)
			break
		}
		if len(posts) == 0 {
			break
		}

		for _, p := range posts {
			item, ok := wordPressItem(p, src)
			if !ok {
				continue
			}
			out = append(out, item)
		}
	}

	return out, nil
}

// wordPressItem は1件のWPPostをNormalizedItemに変換する
func wordPressItem(p WPPost, src APISource) (NormalizedItem, bool) {
	// レンダリング済みタイトルのエンティティ（&#8211; &#8217; &amp; など）を
	// デコードしてからタグを除去
	title := StripHTML(DecodeEntities(p.Title.Rendered))
	if title == "" || p.Link == "" {
		return NormalizedItem{}, false
	}

	raw := p.Excerpt.Rendered
	if raw == "" {
		raw = p.Content.Rendered
	}
	summary := Truncate(StripHTML(raw), summaryMaxLen)

	// date_gmt はタイムゾーン表記なしのUTC（"2026-01-05T14:42:50"）
	publishedAt := time.Now().Format(time.RFC3339)
	if p.DateGMT != "" {
		publishedAt = p.DateGMT + "Z"
	}

	image := ""
	if len(p.Embedded.FeaturedMedia) > 0 {
		image = p.Embedded.FeaturedMedia[0].SourceURL
	}

	return NormalizedItem{
		ID:          GenerateID(p.Link),
		Title:       title,
		Summary:     summary,
		Link:        p.Link,
		Image:       NormalizeImageURL(image),
		Source:      src.Name,
		StoreTag:    src.StoreTag,
		PublishedAt: publishedAt,
		Language:    src.Language,
		Category:    src.Category,
		Price:       ExtractPrice(title + " " + summary),
	}, true
}

// -----------------------------------------------------------------------------
// イベントAPI
// -----------------------------------------------------------------------------

// collectEventSource は商業施設のイベントAPIから開催情報を収集する
//
// status が "PUBLISHED" のイベントのみ採用し、バナー・ロゴ画像は
// denylist で除外する（誤った画像より画像なし）。開催期間が両端とも
// 取得できた場合は "Jan 5–Feb 2 | " 形式で要約の先頭に畳み込む。
func collectEventSource(src APISource, cfg SourceConfig) ([]NormalizedItem, error) {
	var events []eventRecord
	if err := httpGetJSON(src.URL, cfg, &events); err != nil {
		return nil, fmt.Errorf("fetching %s events: %w", src.Name, err)
	}

	linkBase := strings.TrimRight(src.Params["linkBase"], "/")
	now := time.Now()

	out := make([]NormalizedItem, 0, len(events))
	for _, ev := range events {
		if ev.Status != "PUBLISHED" {
			continue
		}

		title := StripHTML(ev.Name)
		if title == "" {
			continue
		}

		link := ""
		if linkBase != "" && ev.Slug != "" {
			link = linkBase + "/" + ev.Slug
		}

		summary := StripHTML(ev.Description)
		if period := formatEventPeriod(ev.EventStartsAt, ev.EventEndsAt); period != "" {
			summary = period + " | " + summary
		}
		summary = Truncate(summary, summaryMaxLen)

		image := ev.BannerImage
		if isDeniedBannerImage(image) {
			image = ""
		}

		publishedAt := now.Format(time.RFC3339)
		if ev.EventStartsAt != "" {
			publishedAt = ev.EventStartsAt
		}

		// IDはリンクから生成（リンクが組み立てられない場合はslugで代用）
		idKey := link
		if idKey == "" {
			idKey = ev.Slug
		}

		out = append(out, NormalizedItem{
			ID:          GenerateID(idKey),
			Title:       title,
			Summary:     summary,
			Link:        link,
			Image:       NormalizeImageURL(image),
			Source:      src.Name,
			StoreTag:    src.StoreTag,
			PublishedAt: publishedAt,
			Language:    src.Language,
			Category:    src.Category,
			EventStart:  ev.EventStartsAt,
			EventEnd:    ev.EventEndsAt,
		})
	}

	return out, nil
}

// formatEventPeriod は開催期間を "Jan 5–Feb 2" 形式に整形する
//
// 両端が揃わない場合は空を返す（要約に畳み込まない）。
func formatEventPeriod(startsAt, endsAt string) string {
	start, err := time.Parse(time.RFC3339, startsAt)
	if err != nil {
		return ""
	}
	end, err := time.Parse(time.RFC3339, endsAt)
	if err != nil {
		return ""
	}
	return start.Format("Jan 2") + "–" + end.Format("Jan 2")
}

// isDeniedBannerImage は既知の広告・ロゴ画像のファイル名かチェックする
func isDeniedBannerImage(imageURL string) bool {
	lower := strings.ToLower(imageURL)
	for _, pat := range bannerImageDenylist {
		if strings.Contains(lower, pat) {
			return true
		}
	}
	return false
}

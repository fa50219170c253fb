// =============================================================================
// sources_scrape.go - HTMLスクレイピングアダプター
// =============================================================================
//
// このファイルはHTMLスクレイピングを使用するソースのアダプターを定義します。
// goquery ライブラリを使用してHTML構造から商品・ニュース情報を抽出します。
//
// 【セレクタカスケード】
//   同系テンプレートのページでもマークアップが微妙に違うため、
//   ソースタイプごとに順序付きのセレクタリストを持ち、最初に1件以上
//   マッチしたセレクタを採用する。デプロイごとの設定変更なしに
//   マークアップの揺れに耐えるための仕組み。
//
// 【JSON-LD ファストパス】
//   ページが schema.org の ItemList を埋め込んでいる場合は
//   セレクタより先にそちらをパースする（構造化データの方が安定するため）。
//
// =============================================================================
package pipeline

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// maxScrapeItems はスクレイピングソースあたりのアイテム数上限
//
// 巨大な一覧ページ・壊れたマークアップによる暴走を抑える。
const maxScrapeItems = 12

var reJapaneseDateYMD = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日`)
var reDottedDateYMD = regexp.MustCompile(`(\d{4})\.(\d{1,2})\.(\d{1,2})`)
var reNumericOnly = regexp.MustCompile(`^[0-9,.\s]+$`)

// junkTitleDenylist はナビゲーション等の非商品テキスト
var junkTitleDenylist = []string{
	"top", "home", "menu", "cart", "login", "search",
	"一覧", "もっと見る", "カート", "ログイン",
}

// placeholderImagePatterns は既知のプレースホルダ画像のファイル名パターン
var placeholderImagePatterns = []string{
	"noimage", "no-image", "no_image", "placeholder", "loading",
	"spinner", "blank.", "dummy", "transparent",
}

// scrapeStrategy は1つの抽出戦略（コンテナと各フィールドのセレクタ）
type scrapeStrategy struct {
	container string // アイテムのコンテナ要素
	title     string // コンテナ内のタイトル要素（空ならリンクテキスト）
	link      string // コンテナ内のリンク要素（空ならコンテナ自身のa）
	date      string // コンテナ内の日付要素
}

// scrapeStrategies はソースタイプごとのセレクタカスケード
//
// 上から順に試し、最初に1件以上マッチした戦略を採用する。
// 最後の "generic" はどのタイプでも最終フォールバックとして試される。
var scrapeStrategies = map[string][]scrapeStrategy{
	// 店舗のニュース・新着一覧ページ
	"shop-news": {
		{container: "article.news-item", title: "h3, .title", link: "a", date: "time, .date"},
		{container: "ul.news-list li, ul.newsList li", title: ".title, h3", link: "a", date: ".date, time"},
		{container: "div.news-entry, div.post-item", title: "h2, h3, .entry-title", link: "a", date: "time, .date, .published"},
	},
	// 催事・イベント一覧ページ
	"event-list": {
		{container: "li.event-item, article.event", title: "h3, .event-title", link: "a", date: ".event-date, time"},
		{container: "div.event-card, section.event", title: "h2, h3, .title", link: "a", date: ".period, .date, time"},
	},
	// 商品一覧ページ
	"product-list": {
		{container: "li.product-item, div.product-card", title: ".product-name, h3", link: "a", date: "time, .date"},
		{container: "ul.item-list li, div.items div.item", title: ".name, .title, h3", link: "a", date: ".date"},
	},
}

// genericStrategies は全タイプ共通の最終フォールバック
//
// 記事らしいパスを持つアンカーを直接拾う。仕様上のフォールバック経路:
// 主要セレクタが全滅しても /news/ や /products/ を含むリンクは拾える。
var genericStrategies = []scrapeStrategy{
	{container: `a[href*="/news/"], a[href*="/products/"], a[href*="/event"], a[href*="/item"]`},
}

// collectScrapeSource はHTMLスクレイピングソースから収集する
//
// 記述子のURLsを順に処理し、各ページにタイプ別のセレクタカスケードを
// 適用する。1ページの取得失敗はそのページのスキップに留める。
// 全ページで1件も取れなかった場合のみエラーを返す。
func collectScrapeSource(src ScrapeSource, cfg SourceConfig) ([]NormalizedItem, error) {
	var out []NormalizedItem
	var lastErr error

	for _, pageURL := range src.URLs {
		if len(out) >= maxScrapeItems {
			break
		}

		items, err := scrapePage(pageURL, src, cfg, maxScrapeItems-len(out))
		if err != nil {
			warnf("%s: %v", src.Name, err)
			lastErr = err
			continue
		}
		out = append(out, items...)
	}

	if len(out) == 0 && lastErr != nil {
		return nil, fmt.Errorf("scraping %s: %w", src.Name, lastErr)
	}
	return out, nil
}

// scrapePage は1ページ分のHTMLを取得して抽出戦略を適用する
func scrapePage(pageURL string, src ScrapeSource, cfg SourceConfig, limit int) ([]NormalizedItem, error) {
	resp, err := httpGet(pageURL, cfg.UserAgent, cfg.PageTimeout)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse HTML failed: %w", err)
	}

	baseURL := src.BaseURL
	if baseURL == "" {
		baseURL = pageURL
	}

	// JSON-LD ItemList ファストパス
	if items := scrapeJSONLDItemList(doc, src, baseURL, limit); len(items) > 0 {
		return items, nil
	}

	// セレクタカスケード: タイプ別の戦略 → 共通フォールバック
	strategies := append([]scrapeStrategy{}, scrapeStrategies[src.Type]...)
	strategies = append(strategies, genericStrategies...)

	for _, strat := range strategies {
		items := applyStrategy(doc, strat, src, baseURL, limit)
		if len(items) > 0 {
			return items, nil
		}
	}

	return nil, nil
}

// applyStrategy は1つの抽出戦略をドキュメントに適用する
func applyStrategy(doc *goquery.Document, strat scrapeStrategy, src ScrapeSource, baseURL string, limit int) []NormalizedItem {
	now := time.Now()
	var out []NormalizedItem
	seen := make(map[string]bool)

	doc.Find(strat.container).Each(func(_ int, sel *goquery.Selection) {
		if len(out) >= limit {
			return
		}

		// リンク: 戦略にlinkセレクタがあればその要素、なければコンテナ自身
		linkSel := sel
		if strat.link != "" {
			linkSel = sel.Find(strat.link).First()
		}
		href, ok := linkSel.Attr("href")
		if !ok || !isValidScrapedLink(href) {
			return
		}
		link := resolveURL(baseURL, href)
		if link == "" || seen[link] {
			return
		}

		// タイトル: titleセレクタ優先、なければリンクテキスト
		title := ""
		if strat.title != "" {
			title = sel.Find(strat.title).First().Text()
		}
		if strings.TrimSpace(title) == "" {
			title = linkSel.Text()
		}
		if strings.TrimSpace(title) == "" {
			title, _ = sel.Find("img").First().Attr("alt")
		}
		title = normalizeWhitespace(title)
		if !isValidScrapedTitle(title) {
			return
		}

		// 日付: 戦略の日付要素 → コンテナ全文からのパターン抽出 → 収集時刻
		dateText := ""
		if strat.date != "" {
			dateSel := sel.Find(strat.date).First()
			if dt, ok := dateSel.Attr("datetime"); ok {
				dateText = dt
			} else {
				dateText = dateSel.Text()
			}
		}
		if strings.TrimSpace(dateText) == "" {
			dateText = sel.Text()
		}
		publishedAt := parseLooseDate(dateText, now)

		image := extractElementImage(sel)
		seen[link] = true

		out = append(out, NormalizedItem{
			ID:          GenerateID(link),
			Title:       title,
			Summary:     Truncate(normalizeWhitespace(sel.Find("p, .description, .summary").First().Text()), summaryMaxLen),
			Link:        link,
			Image:       NormalizeImageURL(resolveURL(baseURL, image)),
			Source:      src.Name,
			StoreTag:    src.StoreTag,
			PublishedAt: publishedAt,
			Language:    src.Language,
			Category:    src.Category,
			Price:       ExtractPrice(sel.Text()),
		})
	})

	return out
}

// scrapeJSONLDItemList はページ埋め込みの schema.org ItemList をパースする
//
// 構造化データが存在する場合はセレクタヒューリスティクスより優先する。
// 見つからない・壊れている場合は空を返してセレクタに任せる。
type jsonLDList struct {
	Type            string `json:"@type"`
	ItemListElement []struct {
		Item struct {
			Type  string `json:"@type"`
			Name  string `json:"name"`
			URL   string `json:"url"`
			Image string `json:"image"`
		} `json:"item"`
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"itemListElement"`
}

func scrapeJSONLDItemList(doc *goquery.Document, src ScrapeSource, baseURL string, limit int) []NormalizedItem {
	now := time.Now()
	var out []NormalizedItem

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, script *goquery.Selection) {
		if len(out) > 0 {
			return // 最初のItemListのみ使用
		}

		var list jsonLDList
		if err := jsonAPI.Unmarshal([]byte(script.Text()), &list); err != nil {
			return
		}
		if list.Type != "ItemList" {
			return
		}

		seen := make(map[string]bool)
		for _, el := range list.ItemListElement {
			if len(out) >= limit {
				break
			}

			name, itemURL, image := el.Item.Name, el.Item.URL, el.Item.Image
			if name == "" {
				name = el.Name
			}
			if itemURL == "" {
				itemURL = el.URL
			}

			title := normalizeWhitespace(name)
			link := resolveURL(baseURL, itemURL)
			if !isValidScrapedTitle(title) || link == "" || seen[link] {
				continue
			}
			seen[link] = true

			out = append(out, NormalizedItem{
				ID:          GenerateID(link),
				Title:       title,
				Link:        link,
				Image:       NormalizeImageURL(image),
				Source:      src.Name,
				StoreTag:    src.StoreTag,
				PublishedAt: now.Format(time.RFC3339),
				Language:    src.Language,
				Category:    src.Category,
			})
		}
	})

	return out
}

// -----------------------------------------------------------------------------
// 抽出ヘルパー
// -----------------------------------------------------------------------------

// isValidScrapedTitle はスクレイピングで拾ったタイトルの妥当性をチェックする
//
//   - 3文字未満は拒否
//   - 数字・記号のみは拒否（価格やページ番号の誤検出）
//   - ナビゲーション語のdenylistに完全一致するものは拒否
func isValidScrapedTitle(title string) bool {
	title = strings.TrimSpace(title)
	if len([]rune(title)) < 3 {
		return false
	}
	if reNumericOnly.MatchString(title) {
		return false
	}
	lower := strings.ToLower(title)
	for _, junk := range junkTitleDenylist {
		if lower == junk {
			return false
		}
	}
	return true
}

// isValidScrapedLink は疑似リンク（javascript:, 素の#アンカー）を拒否する
func isValidScrapedLink(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return false
	}
	return !strings.HasPrefix(strings.ToLower(href), "javascript:")
}

// extractElementImage は要素内の最初の<img>から画像URLを抽出する
//
// lazy-load属性（data-original, data-src）をsrcより優先し、
// 既知のプレースホルダ画像は除外する。
func extractElementImage(sel *goquery.Selection) string {
	img := sel.Find("img").First()
	if img.Length() == 0 {
		return ""
	}
	for _, attr := range []string{"data-original", "data-src", "src"} {
		if u, ok := img.Attr(attr); ok && u != "" && !isPlaceholderImage(u) {
			return u
		}
	}
	return ""
}

// isPlaceholderImage は既知のプレースホルダ画像のファイル名かチェックする
func isPlaceholderImage(imageURL string) bool {
	lower := strings.ToLower(imageURL)
	for _, pat := range placeholderImagePatterns {
		if strings.Contains(lower, pat) {
			return true
		}
	}
	return false
}

// parseLooseDate はテキストから公開日をゆるくパースする
//
// 対応形式:
//   - 日本語形式: 2025年12月26日
//   - ドット区切り: 2025.12.26
//   - その他はdateparseの汎用パースに委ねる
//
// どれにもマッチしない場合は収集時刻を返す（並び順に参加させるため、
// 除外はしない）。
func parseLooseDate(text string, fallback time.Time) string {
	if m := reJapaneseDateYMD.FindStringSubmatch(text); len(m) == 4 {
		return formatYMD(m[1], m[2], m[3])
	}
	if m := reDottedDateYMD.FindStringSubmatch(text); len(m) == 4 {
		return formatYMD(m[1], m[2], m[3])
	}

	trimmed := strings.TrimSpace(text)
	if trimmed != "" && len(trimmed) < 40 {
		if t, err := dateparse.ParseAny(trimmed); err == nil {
			return t.Format(time.RFC3339)
		}
	}
	return fallback.Format(time.RFC3339)
}

// formatYMD は年月日の文字列からRFC3339形式（JST深夜0時）を組み立てる
func formatYMD(year, month, day string) string {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	return fmt.Sprintf("%04d-%02d-%02dT00:00:00+09:00", y, m, d)
}

// =============================================================================
// sources_shopify.go - Shopify products.json アダプター
// =============================================================================
//
// このファイルはShopifyストアフロントの公開 products.json エンドポイントから
// 商品情報を収集するアダプターを定義します。認証不要の公開APIです。
//
// 【処理の概要】
//   1. {店舗URL}/products.json?limit=N を取得
//   2. created_at の降順でソート（新着順）
//   3. 上限件数まで NormalizedItem に変換
//   4. 価格は最初のバリアントから取得し "¥1,200" 形式に整形
//
// =============================================================================
package pipeline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// defaultShopifyLimit はShopifyソースあたりのデフォルト件数
const defaultShopifyLimit = 12

// yenPrinter は価格の桁区切り整形用（1200 → 1,200）
var yenPrinter = message.NewPrinter(language.Japanese)

// collectShopifySource はShopifyストアのproducts.jsonから新着商品を収集する
func collectShopifySource(src ShopifySource, cfg SourceConfig) ([]NormalizedItem, error) {
	limit := src.Limit
	if limit <= 0 {
		limit = defaultShopifyLimit
	}

	apiURL := fmt.Sprintf("%s/products.json?limit=%d", strings.TrimRight(src.URL, "/"), limit*2)

	var payload struct {
		Products []shopifyProduct `json:"products"`
	}
	if err := httpGetJSON(apiURL, cfg, &payload); err != nil {
		return nil, fmt.Errorf("fetching %s products: %w", src.Name, err)
	}

	products := payload.Products

	// created_at の降順（新着順）に並べ替える。文字列比較はタイムゾーン
	// オフセットが混在すると順序を誤るため、パースしてから比較する。
	// パースできない値は最古扱い。
	sort.SliceStable(products, func(i, j int) bool {
		return parseShopifyTime(products[i].CreatedAt).After(parseShopifyTime(products[j].CreatedAt))
	})

	linkBase := strings.TrimRight(src.LinkBase, "/")
	if linkBase == "" {
		linkBase = strings.TrimRight(src.URL, "/")
	}
	now := time.Now()

	out := make([]NormalizedItem, 0, limit)
	for _, p := range products {
		if len(out) >= limit {
			break
		}

		title := normalizeWhitespace(DecodeEntities(p.Title))
		if title == "" || p.Handle == "" {
			continue
		}

		link := linkBase + "/products/" + p.Handle

		publishedAt := now.Format(time.RFC3339)
		if t, err := time.Parse(time.RFC3339, p.CreatedAt); err == nil {
			publishedAt = t.Format(time.RFC3339)
		}

		image := ""
		if len(p.Images) > 0 {
			image = p.Images[0].Src
		}

		price := ""
		if len(p.Variants) > 0 {
			price = formatShopifyPrice(p.Variants[0].Price)
		}

		out = append(out, NormalizedItem{
			ID:          GenerateID(link),
			Title:       title,
			Summary:     Truncate(StripHTML(p.BodyHTML), summaryMaxLen),
			Link:        link,
			Image:       NormalizeImageURL(image),
			Source:      src.Name,
			StoreTag:    src.StoreTag,
			PublishedAt: publishedAt,
			Language:    src.Language,
			Category:    src.Category,
			Price:       price,
		})
	}

	return out, nil
}

// parseShopifyTime はcreated_atをパースする（失敗時はゼロ値＝最古扱い）
func parseShopifyTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// formatShopifyPrice はバリアント価格の文字列を "¥1,200" 形式に整形する
//
// Shopifyの価格表現は店舗の通貨設定に依存する。日本円の店舗は "1200.00"
// のように円の整数値、ドル建てに近い設定では "12.00" のような小数値を
// 返すことがある。ここでは「100以上なら円の額面そのまま、100未満なら
// 100倍して円に換算」というヒューリスティクスを使う。対象ストアは
// すべて日本円設定のため実運用では前者のパスのみ通る想定。
func formatShopifyPrice(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 {
		return ""
	}

	yen := int64(f)
	if f < 100 {
		yen = int64(f * 100)
	}
	return yenPrinter.Sprintf("¥%d", yen)
}

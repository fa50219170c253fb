// =============================================================================
// finalize.go - 最終整形とスナップショット構築
// =============================================================================
//
// このファイルは出力直前の最終整形（ID重複排除・新着順ソート・件数上限）と
// スナップショットの組み立てを定義します。
//
// 【処理の順序】
//   1. IDによる重複排除（先勝ち。同一リンクが複数ソース経由で来た場合）
//   2. 公開日時の降順ソート（安定ソート: 同時刻はソース実行順を保持）
//   3. 件数上限で切り詰め（デフォルト60件）
//
// =============================================================================
package pipeline

import (
	"sort"
	"time"
)

// DefaultMaxItems はスナップショットに含めるアイテム数の上限
const DefaultMaxItems = 60

// publishedAtLayouts はPublishedAtのパースに試すレイアウト（順に試行）
var publishedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Finalize はID重複排除・新着順ソート・件数上限を適用する
//
// maxItems が0以下の場合は DefaultMaxItems を使用する。
func Finalize(items []NormalizedItem, maxItems int) []NormalizedItem {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	// ID重複排除（先勝ち）
	seen := make(map[string]bool, len(items))
	deduped := make([]NormalizedItem, 0, len(items))
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		deduped = append(deduped, item)
	}

	// 公開日時の降順（新着順）。パースできない日付は最古扱いで末尾に回す。
	sort.SliceStable(deduped, func(i, j int) bool {
		return parsePublishedAt(deduped[i].PublishedAt).After(parsePublishedAt(deduped[j].PublishedAt))
	})

	if len(deduped) > maxItems {
		deduped = deduped[:maxItems]
	}
	return deduped
}

// FilterItemsByHours は指定時間以内に公開されたアイテムのみ残す
//
// hoursBack が0以下の場合はフィルタしない（全件通過）。
// パースできない日付のアイテムは除外する。
func FilterItemsByHours(items []NormalizedItem, hoursBack int) []NormalizedItem {
	if hoursBack <= 0 {
		return items
	}

	cutoff := time.Now().Add(-time.Duration(hoursBack) * time.Hour)
	out := make([]NormalizedItem, 0, len(items))
	for _, item := range items {
		t := parsePublishedAt(item.PublishedAt)
		if t.IsZero() || t.Before(cutoff) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// BuildSnapshot は最終整形済みのアイテムリストからスナップショットを組み立てる
func BuildSnapshot(items []NormalizedItem) Snapshot {
	return Snapshot{
		LastUpdated: time.Now().Format(time.RFC3339),
		Count:       len(items),
		Items:       items,
	}
}

// parsePublishedAt はPublishedAt文字列を複数レイアウトでパースする
//
// どのレイアウトにもマッチしない場合はゼロ値を返す（ソートで最古扱い）。
func parsePublishedAt(s string) time.Time {
	for _, layout := range publishedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

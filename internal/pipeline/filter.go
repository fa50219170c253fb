// =============================================================================
// filter.go - フィルタリングと重複排除
// =============================================================================
//
// このファイルは収集直後のアイテムリストに適用するコンテンツポリシーを
// 定義します。
//
// 【処理の順序】
//   1. 必須フィールド検査（タイトル・リンクが空のアイテムを除去）
//   2. タイトルの重複排除（正規化タイトルの一致、先勝ち）
//   3. 全国チェーン店の除外（有効時のみ、限定・コラボ記事は残す）
//
// フィルタは全て冪等: 2回適用しても結果は変わらない。
//
// =============================================================================
package pipeline

import (
	"regexp"
	"strings"
)

// chainTermsJP は除外対象の全国チェーン名（日本語・部分一致）
var chainTermsJP = []string{
	"ユニクロ", "ジーユー", "ダイソー", "セリア", "キャンドゥ",
	"ニトリ", "イオン", "無印良品", "しまむら", "ドン・キホーテ",
}

// reChainTermsLatin は除外対象チェーン名の英語表記（単語境界一致）
//
// 部分一致だと "guitar" が "gu" に、"uniform" 系の語が誤爆するため、
// 英語側は単語境界つきの正規表現で照合する。
var reChainTermsLatin = regexp.MustCompile(`(?i)\b(uniqlo|gu|daiso|seria|nitori|aeon|muji|shimamura|donki)\b`)

// keepOverrideTerms はチェーン記事でも残す「限定・コラボ」系キーワード
//
// チェーン店でも限定商品・コラボ情報はランディングページの対象読者に
// とって価値があるため、除外より優先する。
var keepOverrideTerms = []string{
	"限定", "コラボ", "先行販売", "ポップアップ",
	"limited", "exclusive", "collab", "pop-up",
}

// FilterItems は必須フィールド検査・タイトル重複排除・チェーン除外を適用する
//
// excludeChains が false の場合はチェーン除外をスキップする。
func FilterItems(items []NormalizedItem, excludeChains bool) []NormalizedItem {
	out := make([]NormalizedItem, 0, len(items))
	seenTitles := make(map[string]bool)

	for _, item := range items {
		if strings.TrimSpace(item.Title) == "" || strings.TrimSpace(item.Link) == "" {
			continue
		}

		// タイトル重複排除（先勝ち）: 同じ商品が複数ソースに載る場合、
		// 実行順で先に来たソースのアイテムを残す
		titleKey := strings.ToLower(strings.TrimSpace(item.Title))
		if seenTitles[titleKey] {
			continue
		}
		seenTitles[titleKey] = true

		if excludeChains && isChainItem(item) {
			continue
		}

		out = append(out, item)
	}

	return out
}

// isChainItem は全国チェーン店の一般記事かチェックする
//
// タイトルと要約を対象に照合し、限定・コラボ系キーワードを含む場合は
// チェーン記事でも false を返す（残す）。
func isChainItem(item NormalizedItem) bool {
	text := item.Title + " " + item.Summary

	matched := false
	for _, term := range chainTermsJP {
		if strings.Contains(text, term) {
			matched = true
			break
		}
	}
	if !matched && reChainTermsLatin.MatchString(text) {
		matched = true
	}
	if !matched {
		return false
	}

	lower := strings.ToLower(text)
	for _, keep := range keepOverrideTerms {
		if strings.Contains(lower, strings.ToLower(keep)) {
			return false
		}
	}
	return true
}

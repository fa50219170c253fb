// =============================================================================
// aggregate.go - ソース横断の収集オーケストレーション
// =============================================================================
//
// このファイルは設定済みの全ソースを順に実行し、結果を1つのリストに
// 連結する収集ループを定義します。
//
// 【障害分離】
//   1ソースの失敗（ネットワークエラー、マークアップ変更、スキーマ変更）は
//   そのソースの0件扱いに留め、他ソースの収集は続行する。収集ループから
//   エラーが伝播することはない。失敗したソース名は実行サマリーに記録する。
//
// 【順序】
//   ソースはファミリー順（feeds → apis → scrapes → shopify）、各ファミリー
//   内は設定順に実行する。出力は実行順の連結で、並び替えは後段の
//   finalize に任せる。
//
// =============================================================================
package pipeline

import "strings"

// CollectResult は1回の収集実行のサマリー
type CollectResult struct {
	Items         []NormalizedItem // 全ソースの連結結果（実行順）
	SourceCounts  map[string]int   // ソース名 → 取得件数
	FailedSources []string         // 失敗したソース名（実行順）
}

// CollectFromSources は設定済みの全ソースから収集して連結する
//
// names が空でない場合、名前が一致するソースのみ実行する（部分実行用）。
func CollectFromSources(set SourceSet, names []string, cfg SourceConfig) CollectResult {
	result := CollectResult{
		SourceCounts: make(map[string]int),
	}

	run := func(name string, collect func() ([]NormalizedItem, error)) {
		if !sourceSelected(name, names) {
			return
		}

		items, err := collect()
		if err != nil {
			errorf("%s: collection failed: %v", name, err)
			result.FailedSources = append(result.FailedSources, name)
			result.SourceCounts[name] = 0
			return
		}

		infof("%s: collected %d items", name, len(items))
		result.SourceCounts[name] = len(items)
		result.Items = append(result.Items, items...)
	}

	for _, src := range set.Feeds {
		src := src
		run(src.Name, func() ([]NormalizedItem, error) { return collectFeedSource(src, cfg) })
	}
	for _, src := range set.APIs {
		src := src
		run(src.Name, func() ([]NormalizedItem, error) { return collectAPISource(src, cfg) })
	}
	for _, src := range set.Scrapes {
		src := src
		run(src.Name, func() ([]NormalizedItem, error) { return collectScrapeSource(src, cfg) })
	}
	for _, src := range set.Shopifys {
		src := src
		run(src.Name, func() ([]NormalizedItem, error) { return collectShopifySource(src, cfg) })
	}

	if len(result.FailedSources) > 0 {
		warnf("collection finished with %d failed source(s): %s",
			len(result.FailedSources), strings.Join(result.FailedSources, ", "))
	}

	return result
}

// sourceSelected は部分実行時のソース名フィルタ
//
// names が空の場合は全ソースを選択。比較は大文字小文字を区別しない。
func sourceSelected(name string, names []string) bool {
	if len(names) == 0 {
		return true
	}
	for _, n := range names {
		if strings.EqualFold(strings.TrimSpace(n), name) {
			return true
		}
	}
	return false
}

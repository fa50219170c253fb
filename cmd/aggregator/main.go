// =============================================================================
// main.go - Retail Relay アグリゲーターのエントリーポイント
// =============================================================================
//
// このプログラムは、東京の小売・ポップカルチャー情報（新商品・イベント・
// ニュース）を複数ソースから収集し、ランディングページ用の単一JSON
// スナップショットを生成するCLIツールです。
//
// =============================================================================
// 【処理フロー】
// =============================================================================
//
//   ┌─────────────┐    ┌─────────────┐    ┌─────────────┐
//   │  1. 設定    │ -> │  2. 収集    │ -> │  3. フィルタ│
//   │  読み込み   │    │  全ソース   │    │  重複排除   │
//   └─────────────┘    └─────────────┘    └─────────────┘
//          │                  │                  │
//          v                  v                  v
//   .env読み込み        RSS/API/スクレイ   タイトル重複排除
//   CLIフラグ解析       プ/Shopifyを順次   チェーン店除外
//
//   ┌─────────────┐    ┌─────────────┐    ┌─────────────┐
//   │  4. 翻訳    │ -> │  5. 最終整形│ -> │  6. 出力    │
//   │  ja -> en   │    │  ソート・上限│   │  JSON生成   │
//   └─────────────┘    └─────────────┘    └─────────────┘
//          │                  │                  │
//          v                  v                  v
//   バッチ翻訳API       ID重複排除         ファイル or
//   キー無しはスキップ  新着順・60件       stdout
//
// =============================================================================
// 【CLIフラグ一覧】
// =============================================================================
//
// ▼ 入力設定
//   -sourcesFile     YAMLソースリストのパス（省略時: 組み込みリスト）
//   -sources         実行するソース名（カンマ区切り、省略時: 全ソース）
//
// ▼ フィルタ設定
//   -excludeChains   全国チェーン店の一般記事を除外（デフォルト: true）
//   -hoursBack       新しさの考慮期間（時間、デフォルト: 0=無効）
//
// ▼ 翻訳設定
//   -noTranslate     翻訳ステージをスキップ
//   -targetLang      翻訳先言語コード（デフォルト: en）
//
// ▼ 出力設定
//   -out             出力JSONファイルパス（省略時: stdout）
//   -maxItems        スナップショットの件数上限（デフォルト: 60）
//
// =============================================================================
// 【初心者向けポイント】
// =============================================================================
//
// - flag パッケージでCLI引数を解析
// - godotenv パッケージで.envファイルを読み込み
// - エラーは標準エラー出力（os.Stderr）に出力
// - 処理の進捗も標準エラー出力に出力（stdoutはJSONのみ）
//
// =============================================================================
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv" // .env ファイル読み込み

	"retail-relay/internal/config"
	"retail-relay/internal/pipeline"
)

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "WARN: "+format+"\n", args...)
}

func infof(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "INFO: "+format+"\n", args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "FATAL: "+format+"\n", args...)
	os.Exit(1)
}

// main はパイプライン全体の制御フロー
//
// パイプライン処理の概要:
//  1. 設定済みの全ソースから収集（失敗したソースはスキップ）
//  2. タイトル重複排除とチェーン店除外
//  3. 日本語アイテムのタイトル・要約を英語に翻訳（APIキー設定時のみ）
//  4. ID重複排除・新着順ソート・件数上限を適用してスナップショットを出力
func main() {
	// .env ファイルから環境変数を読み込み
	// ファイルが存在しない場合はログを出力するが、処理は続行する
	if err := godotenv.Load(); err != nil {
		warnf(".env file not loaded: %v (using environment variables only)", err)
	}

	// CLIフラグを解析（config.goのParseFlags）
	cfg := pipeline.ParseFlags()

	// --- 1) Load source list (YAML file or built-in) ---
	set := pipeline.DefaultSourceSet()
	if cfg.Input.SourcesFile != "" {
		var err error
		set, err = config.LoadSourceSet(cfg.Input.SourcesFile)
		if err != nil {
			fatalf("loading sources: %v", err)
		}
	}

	// --- 2) Collect from all sources ---
	srcCfg := pipeline.DefaultSourceConfig()
	result := pipeline.CollectFromSources(set, cfg.Input.Sources(), srcCfg)
	infof("collected %d items from %d source(s), %d failed",
		len(result.Items), len(result.SourceCounts), len(result.FailedSources))

	// --- 3) Filter and dedupe ---
	items := pipeline.FilterItems(result.Items, cfg.Filter.ExcludeChains)
	if cfg.Filter.HoursBack > 0 {
		items = pipeline.FilterItemsByHours(items, cfg.Filter.HoursBack)
		infof("after time filter: %d items (last %d hours)", len(items), cfg.Filter.HoursBack)
	}

	// --- 4) Translate (skipped when no API key is configured) ---
	if !cfg.Translate.NoTranslate {
		tcfg := pipeline.DefaultTranslateConfig(os.Getenv("DEEPL_API_KEY"))
		tcfg.TargetLang = cfg.Translate.TargetLang
		items = pipeline.TranslateItems(items, tcfg)
	}

	// --- 5) Finalize and build the snapshot ---
	items = pipeline.Finalize(items, cfg.Output.MaxItems)
	snapshot := pipeline.BuildSnapshot(items)

	// --- 6) Output ---
	if cfg.Output.OutFile != "" {
		// 上流の全滅で空になったスナップショットで、既存の正常な
		// スナップショットを上書きしない（ランディングページ保護）
		if snapshot.Count == 0 && hasNonEmptySnapshot(cfg.Output.OutFile) {
			fatalf("refusing to overwrite %s with an empty snapshot", cfg.Output.OutFile)
		}
		if err := pipeline.WriteJSONFile(cfg.Output.OutFile, snapshot); err != nil {
			fatalf("writing snapshot: %v", err)
		}
		infof("wrote %d items to %s", snapshot.Count, cfg.Output.OutFile)
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		fatalf("encoding snapshot: %v", err)
	}
}

// hasNonEmptySnapshot は既存ファイルが1件以上のスナップショットかチェックする
func hasNonEmptySnapshot(path string) bool {
	var existing pipeline.Snapshot
	if err := pipeline.ReadJSONFile(path, &existing); err != nil {
		return false
	}
	return existing.Count > 0
}

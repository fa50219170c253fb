// =============================================================================
// config.go - パイプライン設定
// =============================================================================
//
// このファイルはCLIフラグの解析と設定管理を行います。
//
// 【設定グループ】
//   - InputConfig:     入力ソース設定
//   - FilterConfig:    フィルタリング設定
//   - TranslateFlags:  翻訳設定
//   - OutputConfig:    出力設定
//
// =============================================================================
package pipeline

import (
	"flag"
	"strings"
)

// =============================================================================
// 設定構造体
// =============================================================================

// PipelineConfig はパイプラインの全設定を保持する
type PipelineConfig struct {
	Input     InputConfig
	Filter    FilterConfig
	Translate TranslateFlags
	Output    OutputConfig
}

// InputConfig は入力ソースに関する設定
type InputConfig struct {
	// SourcesFile が指定された場合、組み込みリストの代わりにYAMLから読み込む
	SourcesFile string

	// SourcesRaw はカンマ区切りのソース名（-sources フラグの値、空なら全ソース）
	SourcesRaw string
}

// Sources はSourcesRawをパースしてスライスで返す
func (c *InputConfig) Sources() []string {
	var result []string
	for _, s := range strings.Split(c.SourcesRaw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}

// FilterConfig はフィルタリングに関する設定
type FilterConfig struct {
	// ExcludeChains がtrueの場合、全国チェーン店の一般記事を除外する
	ExcludeChains bool

	// HoursBack は新しさの考慮期間（時間、0で無効）
	HoursBack int
}

// TranslateFlags は翻訳に関する設定
type TranslateFlags struct {
	// NoTranslate がtrueの場合、翻訳ステージをスキップする
	NoTranslate bool

	// TargetLang は翻訳先の言語コード
	TargetLang string
}

// OutputConfig は出力に関する設定
type OutputConfig struct {
	// OutFile が指定された場合、ファイルに出力（空の場合はstdout）
	OutFile string

	// MaxItems はスナップショットの件数上限
	MaxItems int
}

// =============================================================================
// フラグ解析
// =============================================================================

// ParseFlags はCLIフラグを解析してPipelineConfigを返す
func ParseFlags() *PipelineConfig {
	cfg := &PipelineConfig{}

	// Input flags
	flag.StringVar(&cfg.Input.SourcesFile, "sourcesFile", "", "optional: path to YAML source list; if empty, use built-in sources")
	flag.StringVar(&cfg.Input.SourcesRaw, "sources", "", "optional: comma-separated source names to run (default: all)")

	// Filter flags
	flag.BoolVar(&cfg.Filter.ExcludeChains, "excludeChains", true, "exclude generic nationwide chain-store items")
	flag.IntVar(&cfg.Filter.HoursBack, "hoursBack", 0, "recency window in hours (0 disables)")

	// Translate flags
	flag.BoolVar(&cfg.Translate.NoTranslate, "noTranslate", false, "skip the translation stage")
	flag.StringVar(&cfg.Translate.TargetLang, "targetLang", "en", "translation target language code")

	// Output flags
	flag.StringVar(&cfg.Output.OutFile, "out", "", "optional: write snapshot JSON to this path (default: stdout)")
	flag.IntVar(&cfg.Output.MaxItems, "maxItems", DefaultMaxItems, "max items in the snapshot")

	flag.Parse()
	return cfg
}

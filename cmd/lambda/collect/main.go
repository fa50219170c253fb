// =============================================================================
// Lambda: collect-snapshot
// =============================================================================
//
// 全ソースから収集し、スナップショットJSONをファイルに書き出すLambda関数。
// EventBridgeの定期実行（日次バッチ）を想定。
//
// 環境変数:
//   - OUT_FILE:       スナップショットの書き出し先 (デフォルト: /tmp/snapshot.json)
//   - SOURCES:        実行するソース名（カンマ区切り、デフォルト: 全ソース）
//   - MAX_ITEMS:      スナップショットの件数上限 (デフォルト: 60)
//   - HOURS_BACK:     何時間以内のアイテムを残すか (デフォルト: 0=フィルタなし)
//   - EXCLUDE_CHAINS: 全国チェーン店の除外 (デフォルト: true、"false"で無効)
//   - DEEPL_API_KEY:  翻訳APIキー (任意、未設定なら翻訳スキップ)
//
// =============================================================================
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"

	"retail-relay/internal/pipeline"
)

// LambdaConfig は環境変数から読み込む設定
type LambdaConfig struct {
	OutFile       string
	Sources       string
	MaxItems      int
	HoursBack     int // 何時間以内のアイテムを残すか（0=フィルタなし）
	ExcludeChains bool
	DeepLAPIKey   string
}

// Response はLambdaレスポンス
type Response struct {
	StatusCode    int      `json:"statusCode"`
	Message       string   `json:"message"`
	Collected     int      `json:"collected"`
	Published     int      `json:"published"`
	FailedSources []string `json:"failedSources,omitempty"`
}

// Handler はLambdaのメインハンドラー
func Handler(ctx context.Context, event interface{}) (Response, error) {
	log.Println("Starting collect-snapshot Lambda...")

	// 1. 環境変数から設定を読み込む
	cfg := loadConfig()
	log.Printf("Config: out=%s, sources=%s, maxItems=%d, hoursBack=%d",
		cfg.OutFile, cfg.Sources, cfg.MaxItems, cfg.HoursBack)

	// 2. 全ソースから収集
	srcCfg := pipeline.DefaultSourceConfig()
	result := pipeline.CollectFromSources(pipeline.DefaultSourceSet(), parseSources(cfg.Sources), srcCfg)
	log.Printf("Collected %d items from %d source(s)", len(result.Items), len(result.SourceCounts))

	if len(result.FailedSources) > 0 {
		log.Printf("WARNING: %d source(s) failed:", len(result.FailedSources))
		for _, name := range result.FailedSources {
			log.Printf("  %s", name)
		}
	}

	// 3. フィルタリングと重複排除
	items := pipeline.FilterItems(result.Items, cfg.ExcludeChains)
	if cfg.HoursBack > 0 {
		items = pipeline.FilterItemsByHours(items, cfg.HoursBack)
		log.Printf("After time filter: %d items (last %d hours)", len(items), cfg.HoursBack)
	}

	// 4. 翻訳（APIキー設定時のみ）
	items = pipeline.TranslateItems(items, pipeline.DefaultTranslateConfig(cfg.DeepLAPIKey))

	// 5. 最終整形とスナップショット書き出し
	items = pipeline.Finalize(items, cfg.MaxItems)
	snapshot := pipeline.BuildSnapshot(items)

	if snapshot.Count == 0 {
		log.Println("No items collected, keeping the previous snapshot")
		return Response{
			StatusCode:    200,
			Message:       "No items collected",
			Collected:     len(result.Items),
			Published:     0,
			FailedSources: result.FailedSources,
		}, nil
	}

	if err := pipeline.WriteJSONFile(cfg.OutFile, snapshot); err != nil {
		log.Printf("Error writing snapshot: %v", err)
		return Response{StatusCode: 500, Message: err.Error(), Collected: len(result.Items)}, err
	}

	log.Printf("Wrote %d items to %s", snapshot.Count, cfg.OutFile)

	return Response{
		StatusCode:    200,
		Message:       fmt.Sprintf("Successfully published %d items to %s", snapshot.Count, cfg.OutFile),
		Collected:     len(result.Items),
		Published:     snapshot.Count,
		FailedSources: result.FailedSources,
	}, nil
}

// loadConfig は環境変数から設定を読み込む
func loadConfig() LambdaConfig {
	maxItems := pipeline.DefaultMaxItems
	if mi := os.Getenv("MAX_ITEMS"); mi != "" {
		if val, err := strconv.Atoi(mi); err == nil && val > 0 {
			maxItems = val
		}
	}

	hoursBack := 0
	if hb := os.Getenv("HOURS_BACK"); hb != "" {
		if val, err := strconv.Atoi(hb); err == nil && val >= 0 {
			hoursBack = val
		}
	}

	outFile := os.Getenv("OUT_FILE")
	if outFile == "" {
		outFile = "/tmp/snapshot.json"
	}

	return LambdaConfig{
		OutFile:       outFile,
		Sources:       os.Getenv("SOURCES"),
		MaxItems:      maxItems,
		HoursBack:     hoursBack,
		ExcludeChains: os.Getenv("EXCLUDE_CHAINS") != "false",
		DeepLAPIKey:   os.Getenv("DEEPL_API_KEY"),
	}
}

// parseSources はソース文字列をパースしてスライスで返す
func parseSources(sourcesRaw string) []string {
	var result []string
	for _, s := range strings.Split(sourcesRaw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}

func main() {
	lambda.Start(Handler)
}

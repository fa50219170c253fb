// =============================================================================
// translate.go - 翻訳ステージ
// =============================================================================
//
// このファイルは日本語アイテムのタイトル・要約を英語に翻訳するステージを
// 定義します。DeepL互換のREST APIを使用します。
//
// 【グレースフルデグラデーション】
//   APIキーが未設定の場合は警告を1回だけ出力し、アイテムを無変更で
//   通過させる（パイプラインは止めない）。バッチ単位の翻訳失敗も
//   そのバッチのアイテムを原文のまま残すだけで、エラーは伝播しない。
//
// 【レート制御】
//   アイテムをバッチ（デフォルト10件）にまとめて1リクエストで送信し、
//   バッチ間に固定のディレイを挟む。最後のバッチの後にはスリープしない。
//
// =============================================================================
package pipeline

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// TranslateConfig は翻訳ステージの設定
type TranslateConfig struct {
	SourceLang string        // 翻訳対象の言語コード（この言語のアイテムのみ翻訳）
	TargetLang string        // 翻訳先の言語コード
	BatchSize  int           // 1リクエストあたりのアイテム数
	BatchDelay time.Duration // バッチ間のディレイ
	APIKey     string        // DeepL互換APIの認証キー（空なら翻訳をスキップ）
	Endpoint   string        // APIエンドポイント（テスト時に差し替え可能）
	Client     *http.Client
}

// DefaultTranslateConfig は環境変数からデフォルトの翻訳設定を組み立てる
func DefaultTranslateConfig(apiKey string) TranslateConfig {
	return TranslateConfig{
		SourceLang: "ja",
		TargetLang: "en",
		BatchSize:  10,
		BatchDelay: 1 * time.Second,
		APIKey:     apiKey,
		Endpoint:   "https://api-free.deepl.com/v2/translate",
		Client:     &http.Client{Timeout: 20 * time.Second},
	}
}

// translationResponse はDeepL互換APIのレスポンス
type translationResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// TranslateItems は対象言語のアイテムのタイトル・要約を翻訳する
//
// 翻訳に成功したアイテムは Title / Summary を差し替え、OriginalTitle に
// 原文タイトルを保存し、Translated=true / Language=翻訳先 に更新する。
// 失敗したアイテムは原文のまま（Translated=false）。
func TranslateItems(items []NormalizedItem, cfg TranslateConfig) []NormalizedItem {
	if cfg.APIKey == "" {
		warnf("translation API key not set, keeping items untranslated")
		return items
	}

	if _, err := language.Parse(cfg.TargetLang); err != nil {
		warnf("invalid target language %q, keeping items untranslated: %v", cfg.TargetLang, err)
		return items
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}

	// 翻訳対象（SourceLang一致）のインデックスを集める
	var targets []int
	for i := range items {
		if items[i].Language == cfg.SourceLang {
			targets = append(targets, i)
		}
	}
	if len(targets) == 0 {
		return items
	}

	translated := 0
	for start := 0; start < len(targets); start += batchSize {
		end := start + batchSize
		if end > len(targets) {
			end = len(targets)
		}
		batch := targets[start:end]

		if err := translateBatch(items, batch, cfg); err != nil {
			warnf("translation batch failed, keeping %d items untranslated: %v", len(batch), err)
		} else {
			translated += len(batch)
		}

		// レート制限対策: 最後のバッチの後にはスリープしない
		if end < len(targets) && cfg.BatchDelay > 0 {
			time.Sleep(cfg.BatchDelay)
		}
	}

	infof("translated %d/%d items", translated, len(targets))
	return items
}

// translateBatch は1バッチ分のアイテムを1リクエストで翻訳する
//
// アイテムごとにタイトルと要約の2テキストを送信する。レスポンスの
// テキスト数が送信数と一致しない場合はバッチ全体を失敗扱いにする
// （ずれたまま適用すると取り違えが起きるため）。
func translateBatch(items []NormalizedItem, batch []int, cfg TranslateConfig) error {
	form := url.Values{}
	form.Set("target_lang", strings.ToUpper(cfg.TargetLang))
	form.Set("source_lang", strings.ToUpper(cfg.SourceLang))
	for _, idx := range batch {
		form.Add("text", items[idx].Title)
		form.Add("text", items[idx].Summary)
	}

	req, err := http.NewRequest("POST", cfg.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+cfg.APIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result translationResponse
	if err := jsonAPI.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if len(result.Translations) != len(batch)*2 {
		return fmt.Errorf("expected %d translations, got %d", len(batch)*2, len(result.Translations))
	}

	for i, idx := range batch {
		title := strings.TrimSpace(result.Translations[i*2].Text)
		summary := strings.TrimSpace(result.Translations[i*2+1].Text)
		if title == "" {
			continue // 空訳は原文を残す
		}

		items[idx].OriginalTitle = items[idx].Title
		items[idx].Title = title
		items[idx].Summary = summary
		items[idx].Language = cfg.TargetLang
		items[idx].Translated = true
	}

	return nil
}

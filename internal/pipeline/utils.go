// =============================================================================
// utils.go - ユーティリティ関数
// =============================================================================
//
// このファイルはシステム全体で使用する汎用的なヘルパー関数を提供します。
//
// 【このファイルで提供する機能】
//   - ログ出力: 警告・情報メッセージの出力（stdoutはJSON専用のためstderrを使用）
//   - HTTP操作: User-Agent付きGET、JSONレスポンスのデコード
//   - JSON操作: ファイル読み書き
//
// =============================================================================
package pipeline

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// -----------------------------------------------------------------------------
// ログ出力関数
// -----------------------------------------------------------------------------

// warnf は警告メッセージを標準エラー出力に書き出す
//
// 【なぜ標準エラー出力を使うか】
//
//	標準出力（stdout）はパイプラインでJSONを渡すために使用するため、
//	ログメッセージは標準エラー出力（stderr）に出力する
func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "WARN: "+format+"\n", args...)
}

// infof は情報メッセージを標準エラー出力に書き出す
func infof(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "INFO: "+format+"\n", args...)
}

// errorf はエラーメッセージを標準エラー出力に書き出す
//
// 【注意】この関数はログ出力のみでプログラムは終了しない
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...)
}

// -----------------------------------------------------------------------------
// 文字列操作関数
// -----------------------------------------------------------------------------

// normalizeWhitespace は文字列内の連続する空白を単一スペースに正規化する
//
// 【処理の流れ】
//  1. strings.Fields: 空白で分割してスライスに（連続空白は無視される）
//  2. strings.Join: スペースで再結合
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// resolveURL は相対URLをベースURLに対して絶対化する
//
// 既に絶対URLの場合はそのまま返す。パースできない入力は空を返す。
func resolveURL(baseURL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

// -----------------------------------------------------------------------------
// HTTP操作関数
// -----------------------------------------------------------------------------

// SourceConfig は収集時のHTTP設定を保持
//
// フェッチ種別ごとにタイムアウト予算が異なる（フィード20秒、
// 画像補完5秒、スクレイピング15秒、翻訳API20秒）。
type SourceConfig struct {
	UserAgent    string        // HTTPリクエスト時のUser-Agentヘッダー
	FeedTimeout  time.Duration // フィード取得のタイムアウト
	PageTimeout  time.Duration // 一覧ページスクレイピングのタイムアウト
	ImageTimeout time.Duration // 記事ページからの画像補完のタイムアウト
	Client       *http.Client  // 共有HTTPクライアント（コネクションプーリング有効）
}

// DefaultSourceConfig はデフォルトの収集設定を返す
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		UserAgent:    "Mozilla/5.0 (compatible; retail-relay/1.0; +https://example.invalid)",
		FeedTimeout:  20 * time.Second,
		PageTimeout:  15 * time.Second,
		ImageTimeout: 5 * time.Second,
		Client: &http.Client{
			Timeout: 20 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// httpGet はHTTP GETリクエストを実行する
//
// User-Agentヘッダーを設定し、タイムアウト付きでリクエストを送信する。
// 呼び出し元でresp.Body.Close()を行う必要がある。
func httpGet(url, userAgent string, timeout time.Duration) (*http.Response, error) {
	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json")
	return client.Do(req)
}

// httpGetJSON はHTTP GETリクエストを実行し、JSONレスポンスをデコードする
//
// レスポンスボディを自動的にクローズし、指定した型にJSONをデコードする。
// デコードには json-iterator を使用（大きなREST APIレスポンス向け）。
func httpGetJSON(url string, cfg SourceConfig, v any) error {
	client := cfg.Client
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return jsonAPI.NewDecoder(resp.Body).Decode(v)
}

// -----------------------------------------------------------------------------
// JSON操作関数
// -----------------------------------------------------------------------------

// WriteJSONFile は任意のデータをJSON形式でファイルに保存する
//
// 【ファイル権限】0o644 = 所有者は読み書き可、他は読み取りのみ
func WriteJSONFile(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// ReadJSONFile はJSONファイルを読み込んで指定した型に変換する
func ReadJSONFile(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// =============================================================================
// normalize.go - 正規化ユーティリティ
// =============================================================================
//
// このファイルは全アダプター共通の純粋関数を提供します。
//
// 【このファイルで提供する機能】
//   - GenerateID:        リンクからの決定的ID生成
//   - StripHTML:         HTMLタグ除去とエンティティのデコード
//   - Truncate:          省略記号付きの文字数制限
//   - NormalizeImageURL: 画像URLのプロトコル・パス正規化
//   - ExtractPrice:      日本円の価格パターン抽出
//
// =============================================================================
package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"html"
	"regexp"
	"strings"
)

// idHexLen はGenerateIDが返すhex文字列の長さ
const idHexLen = 12

// summaryMaxLen は要約の最大文字数（省略記号を含む）
const summaryMaxLen = 200

// Package-level compiled regex for performance (avoid recompiling on every call)
var reScriptTags = regexp.MustCompile(`(?s)<(script|style)[^>]*>.*?</(script|style)>`)
var reHTMLTags = regexp.MustCompile(`<[^>]*>`)
var reShortcodes = regexp.MustCompile(`\[/?[a-z_]+[^\]]*\]`)
var reDupSlashes = regexp.MustCompile(`/{2,}`)
var reYenAfter = regexp.MustCompile(`([0-9][0-9,]*)\s*円`)
var reYenBefore = regexp.MustCompile(`[¥￥]\s*([0-9][0-9,]*)`)

// GenerateID はリンク（またはguid）から決定的なIDを生成する
//
// 同じリンクは常に同じIDになるため、実行をまたいだ・ソースをまたいだ
// 重複排除のキーとして使える。SHA-256の先頭12桁hexを使用。
//
// 空文字列でも決定的なIDを返す（空リンクのアイテムは後段のフィルタで
// 落ちるので、ここで弾く必要はない）。
func GenerateID(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:idHexLen]
}

// StripHTML はHTMLタグを除去し、エンティティをデコードしてプレーンテキストにする
//
// 【処理の流れ】
//  1. <script>/<style>ブロックを中身ごと除去
//  2. HTMLタグを除去
//  3. WordPress/Diviのショートコード（[et_pb_section ...]など）を除去
//  4. HTMLエンティティをデコード（&amp; &#8211; など、日本語文字も対応）
//  5. 連続する空白を単一スペースに正規化してトリム
func StripHTML(htmlStr string) string {
	text := reScriptTags.ReplaceAllString(htmlStr, "")
	text = reHTMLTags.ReplaceAllString(text, " ")
	text = reShortcodes.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	return normalizeWhitespace(text)
}

// DecodeEntities はHTMLエンティティのみをデコードする（タグは残す）
//
// WordPress REST APIのtitle.renderedは &#8211;（en-dash）や &#8217;
// （右シングルクォート）などの数値エンティティを多用するため、
// タイトル整形時に使用する。
func DecodeEntities(s string) string {
	return html.UnescapeString(s)
}

// Truncate は文字列を指定した長さに切り詰める
//
// maxLen文字を超える場合、maxLen-3文字にカットして末尾に"..."を付ける。
// 出力の長さはmaxLenを超えない。日本語などのマルチバイト文字も
// 正しく処理する（runeを使用）。
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	// 省略記号すら入らない上限は単純カット
	if maxLen <= 0 {
		return ""
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	cut := strings.TrimRight(string(runes[:maxLen-3]), " ")
	return cut + "..."
}

// NormalizeImageURL は画像URLを正規化する
//
//   - プロトコル相対URL（//host/...）に https: を付与
//   - パス部分の連続スラッシュを1つに畳む（scheme:// とクエリ・
//     フラグメントは対象外。クエリ内のURLを壊さないため）
//   - 空入力は空のまま返す
func NormalizeImageURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "//") {
		u = "https:" + u
	}

	head := ""
	if idx := strings.Index(u, "://"); idx >= 0 {
		head = u[:idx+3]
		u = u[idx+3:]
	}

	// パス部分のみを対象にする（? / # 以降は手を付けない）
	tail := ""
	if idx := strings.IndexAny(u, "?#"); idx >= 0 {
		tail = u[idx:]
		u = u[:idx]
	}

	return head + reDupSlashes.ReplaceAllString(u, "/") + tail
}

// ExtractPrice はテキストから日本円の価格を抽出する
//
// 対応パターン（最初にマッチしたものを採用）:
//   - "1,200円" のような円表記
//   - "¥1,200" / "￥1,200" のような円記号表記
//
// 戻り値は "¥" プレフィックス付きに正規化した文字列。見つからない場合は空。
// 通貨換算は行わない。
func ExtractPrice(text string) string {
	if m := reYenAfter.FindStringSubmatch(text); len(m) == 2 {
		return "¥" + m[1]
	}
	if m := reYenBefore.FindStringSubmatch(text); len(m) == 2 {
		return "¥" + m[1]
	}
	return ""
}

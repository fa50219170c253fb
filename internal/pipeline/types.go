// =============================================================================
// types.go - データ構造定義
// =============================================================================
//
// このファイルはRetail Relayシステム全体で使用するデータ構造（型）を定義します。
//
// 【このファイルで定義している型】
//   - NormalizedItem: 全アダプター共通の正規化済みアイテム
//   - Snapshot:       ランディングページ用の出力スナップショット
//   - SourceSet:      設定済みソース一覧（アダプターファミリーごと）
//   - FeedSource / APISource / ScrapeSource / ShopifySource: ソース記述子
//   - WPPost / eventRecord / shopifyProduct: 各上流フォーマットのレスポンス構造体
//
// =============================================================================
package pipeline

// -----------------------------------------------------------------------------
// NormalizedItem - 正規化済みアイテム
// -----------------------------------------------------------------------------
//
// RSS、WordPress API、HTMLスクレイピング、Shopify JSONから取得した
// 商品・イベント・ニュースを表す共通の形。各アイテムは1つのアダプターが
// 1つの上流レコードから一度だけ構築する。後段で書き換えるのは
// 翻訳ステージのみ（Title/Summary/Language/OriginalTitle/Translated）。
//
// 【フィールドの説明】
//   ID:          リンク（またはguid）のハッシュ。実行をまたいだ重複排除のキー
//   PublishedAt: 公開日時（RFC3339形式）。不明な場合は収集時刻
//   StoreTag:    店舗・エリアのグルーピング用ラベル（例: "渋谷", "原宿"）
//
type NormalizedItem struct {
	ID            string `json:"id"`                      // リンクの決定的ハッシュ（12桁hex）
	Title         string `json:"title"`                   // タイトル（HTMLタグ除去済み）
	Summary       string `json:"summary"`                 // 要約（最大200文字、"..."付き）
	Link          string `json:"link"`                    // 記事・商品URL
	Image         string `json:"image,omitempty"`         // 画像URL（プロトコル正規化済み）
	Source        string `json:"source"`                  // ソース名
	StoreTag      string `json:"storeTag,omitempty"`      // 店舗・エリアラベル
	PublishedAt   string `json:"publishedAt"`             // 公開日時（RFC3339形式）
	Language      string `json:"language"`                // 言語コード（"ja" / "en"）
	Category      string `json:"category"`                // 分類（products / events / news）
	Translated    bool   `json:"translated"`              // 翻訳済みフラグ
	OriginalTitle string `json:"originalTitle,omitempty"` // 翻訳前タイトル（翻訳時のみ）
	Price         string `json:"price,omitempty"`         // 価格（"¥"プレフィックス付き）
	EventStart    string `json:"eventStart,omitempty"`    // イベント開始（RFC3339形式）
	EventEnd      string `json:"eventEnd,omitempty"`      // イベント終了（RFC3339形式）
}

// Snapshot はランディングページのウィジェットが読み込む出力形式
//
// 互換性のため、トップレベルのキー名（lastUpdated / count / items）は
// 変更しないこと。
type Snapshot struct {
	LastUpdated string           `json:"lastUpdated"` // 生成日時（RFC3339形式）
	Count       int              `json:"count"`       // itemsの件数
	Items       []NormalizedItem `json:"items"`       // 正規化済みアイテム
}

// -----------------------------------------------------------------------------
// ソース記述子
// -----------------------------------------------------------------------------
//
// 1つの上流ソースとアダプター固有のパラメータを表す設定レコード。
// sources.go の組み込みリスト、または internal/config のYAMLから構築される。
//

// SourceSet は全アダプターファミリーのソース一覧を保持する
type SourceSet struct {
	Feeds    []FeedSource    `yaml:"feeds"`
	APIs     []APISource     `yaml:"apis"`
	Scrapes  []ScrapeSource  `yaml:"scrapes"`
	Shopifys []ShopifySource `yaml:"shopify"`
}

// FeedSource はRSS/Atomフィードソースの記述子
type FeedSource struct {
	Name       string   `yaml:"name"`
	URL        string   `yaml:"url"`
	Language   string   `yaml:"language"`
	Category   string   `yaml:"category"`
	FilterTags []string `yaml:"filterTags"` // カテゴリの部分一致フィルタ（空なら全件）
	StoreTag   string   `yaml:"storeTag"`
	FetchImage bool     `yaml:"fetchImage"` // 画像欠落時に記事ページからog:imageを補完
}

// APISource はJSON API（WordPress REST / イベントAPI）ソースの記述子
type APISource struct {
	Name     string            `yaml:"name"`
	URL      string            `yaml:"url"`
	Type     string            `yaml:"type"` // "wordpress" | "events"
	Params   map[string]string `yaml:"params"`
	Pages    int               `yaml:"pages"` // ページネーション数（0は1扱い）
	StoreTag string            `yaml:"storeTag"`
	Category string            `yaml:"category"`
	Language string            `yaml:"language"`
}

// ScrapeSource はHTMLスクレイピングソースの記述子
type ScrapeSource struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"` // セレクタカスケードの選択キー（"shop-news" | "event-list" | "product-list"、未知の値は共通フォールバックのみ）
	URLs     []string `yaml:"urls"`
	BaseURL  string   `yaml:"baseUrl"` // 相対リンク解決用（空ならURLsの各ページを基準にする）
	StoreTag string   `yaml:"storeTag"`
	Category string   `yaml:"category"`
	Language string   `yaml:"language"`
}

// ShopifySource はShopify products.json エンドポイントの記述子
type ShopifySource struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`      // /products.json エンドポイント
	LinkBase string `yaml:"linkBase"` // 商品ページURLのベース（/products/<handle>を連結）
	StoreTag string `yaml:"storeTag"`
	Category string `yaml:"category"`
	Language string `yaml:"language"`
	Limit    int    `yaml:"limit"` // 取得する最新商品数（0はデフォルト12）
}

// -----------------------------------------------------------------------------
// WPPost - WordPress REST API レスポンス用構造体
// -----------------------------------------------------------------------------
//
// WordPress REST API（/wp-json/wp/v2/posts）から取得した記事データを表します。
// 複数のWordPressベースのメディアサイトで共通して使用されます。
//
// 【WordPress REST API について】
//   WordPressサイトには標準でREST APIが用意されており、
//   /wp-json/wp/v2/posts エンドポイントで記事一覧を取得できる。
//   _embed=wp:featuredmedia を付けるとアイキャッチ画像も同時に取得できる。
//
type WPPost struct {
	Title   struct{ Rendered string `json:"rendered"` } `json:"title"`    // 記事タイトル（HTMLエンコード済み）
	Link    string                                      `json:"link"`     // 記事URL
	DateGMT string                                      `json:"date_gmt"` // 公開日時（UTC）
	Excerpt struct{ Rendered string `json:"rendered"` } `json:"excerpt"`  // 抜粋（HTML形式）
	Content struct{ Rendered string `json:"rendered"` } `json:"content"`  // 記事本文（HTML形式）

	Embedded struct {
		FeaturedMedia []struct {
			SourceURL string `json:"source_url"`
		} `json:"wp:featuredmedia"`
	} `json:"_embedded"`
}

// eventRecord はイベントAPI（商業施設の独自スキーマ）のレスポンス用構造体
type eventRecord struct {
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Description   string `json:"description"`
	EventStartsAt string `json:"eventStartsAt"`
	EventEndsAt   string `json:"eventEndsAt"`
	Status        string `json:"status"` // "PUBLISHED" のみ採用
	BannerImage   string `json:"bannerImage"`
}

// shopifyProduct は Shopify /products.json のレスポンス用構造体
type shopifyProduct struct {
	Title     string `json:"title"`
	Handle    string `json:"handle"`
	BodyHTML  string `json:"body_html"`
	CreatedAt string `json:"created_at"`

	Images []struct {
		Src string `json:"src"`
	} `json:"images"`

	Variants []struct {
		Price string `json:"price"`
	} `json:"variants"`
}

// =============================================================================
// sources.go - 組み込みソース一覧
// =============================================================================
//
// このファイルはデフォルトで収集する東京の小売・ポップカルチャー系ソースの
// 一覧を定義します。YAMLの設定ファイル（-sourcesFile）で置き換え可能。
//
// 【ソースの追加方法】
//   1. 対応するアダプターファミリー（feeds / apis / scrapes / shopify）を選ぶ
//   2. 記述子を下のリストに追加する
//   3. 新しいフェッチ方式が必要な場合のみ sources_*.go にアダプターを追加
//
// =============================================================================
package pipeline

// DefaultSourceSet は組み込みのソース一覧を返す
func DefaultSourceSet() SourceSet {
	return SourceSet{
		Feeds: []FeedSource{
			{
				Name:       "Fashion Press",
				URL:        "https://www.fashion-press.net/news/rss",
				Language:   "ja",
				Category:   "news",
				FilterTags: []string{"ポップアップ", "限定", "コラボ", "渋谷", "原宿"},
			},
			{
				Name:     "PR TIMES",
				URL:      "https://prtimes.jp/index.rdf",
				Language: "ja",
				Category: "news",
				FilterTags: []string{
					"ファッション", "雑貨", "キャラクター", "ポップアップ",
				},
				FetchImage: true,
			},
			{
				Name:     "Time Out Tokyo",
				URL:      "https://www.timeout.jp/tokyo/ja/feed",
				Language: "ja",
				Category: "events",
			},
		},

		APIs: []APISource{
			{
				Name:     "Moshi Moshi Nippon",
				URL:      "https://www.moshimoshi-nippon.jp",
				Type:     "wordpress",
				Pages:    2,
				Params:   map[string]string{"per_page": "20"},
				StoreTag: "原宿",
				Category: "news",
				Language: "ja",
			},
			{
				Name: "Shibuya PARCO Events",
				URL:  "https://api.art.parco.jp/events?status=published",
				Type: "events",
				Params: map[string]string{
					"linkBase": "https://shibuya.parco.jp/event",
				},
				StoreTag: "渋谷",
				Category: "events",
				Language: "ja",
			},
		},

		Scrapes: []ScrapeSource{
			{
				Name: "Kiddy Land Harajuku",
				Type: "shop-news",
				URLs: []string{
					"https://www.kiddyland.co.jp/harajuku/news/",
				},
				BaseURL:  "https://www.kiddyland.co.jp",
				StoreTag: "原宿",
				Category: "products",
				Language: "ja",
			},
			{
				Name: "Village Vanguard Shibuya",
				Type: "event-list",
				URLs: []string{
					"https://www.village-v.co.jp/news/event/",
					"https://www.village-v.co.jp/news/fair/",
				},
				BaseURL:  "https://www.village-v.co.jp",
				StoreTag: "渋谷",
				Category: "events",
				Language: "ja",
			},
		},

		Shopifys: []ShopifySource{
			{
				Name:     "Village Vanguard Online",
				URL:      "https://vvstore.jp",
				LinkBase: "https://vvstore.jp",
				Category: "products",
				Language: "ja",
				Limit:    12,
			},
		},
	}
}

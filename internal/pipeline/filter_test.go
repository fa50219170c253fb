package pipeline

import (
	"reflect"
	"testing"
)

func item(title, link string) NormalizedItem {
	return NormalizedItem{
		ID:    GenerateID(link),
		Title: title,
		Link:  link,
	}
}

func TestFilterItemsDropsEmptyFields(t *testing.T) {
	items := []NormalizedItem{
		item("", "https://example.com/1"),
		item("valid", ""),
		item("   ", "https://example.com/2"),
		item("kept", "https://example.com/3"),
	}

	got := FilterItems(items, false)
	if len(got) != 1 || got[0].Title != "kept" {
		t.Errorf("Expected only 'kept' to survive, got %+v", got)
	}
}

func TestFilterItemsTitleDedup(t *testing.T) {
	items := []NormalizedItem{
		{ID: "a", Title: "Sanrio Pop-up", Link: "https://a.example.com/1", Source: "first"},
		{ID: "b", Title: "sanrio pop-up", Link: "https://b.example.com/2", Source: "second"},
		{ID: "c", Title: "  Sanrio Pop-up ", Link: "https://c.example.com/3", Source: "third"},
	}

	got := FilterItems(items, false)
	if len(got) != 1 {
		t.Fatalf("Expected 1 item after title dedup, got %d", len(got))
	}
	// 先勝ち: 実行順で先に来たソースが残る
	if got[0].Source != "first" {
		t.Errorf("Expected first occurrence to win, got source %q", got[0].Source)
	}
}

func TestFilterItemsIdempotent(t *testing.T) {
	items := []NormalizedItem{
		item("ポケモンセンター新作", "https://example.com/1"),
		item("ユニクロ新作発表", "https://example.com/2"),
		item("原宿ポップアップ", "https://example.com/3"),
	}

	once := FilterItems(items, true)
	twice := FilterItems(once, true)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Expected filter to be idempotent: %+v vs %+v", once, twice)
	}
}

func TestFilterItemsChainExclusion(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  bool // true = アイテムが残る
	}{
		{"JP chain excluded", "ユニクロの春物セール", false},
		{"latin chain excluded", "UNIQLO spring lineup", false},
		{"substring not matched", "guitar shop opens in Shibuya", true},
		{"chain with 限定 kept", "ユニクロ渋谷店限定アイテム", true},
		{"chain with collab kept", "DAISO collab with local artist", true},
		{"unrelated kept", "キデイランド原宿の新商品", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterItems([]NormalizedItem{item(tt.title, "https://example.com/x")}, true)
			if (len(got) == 1) != tt.want {
				t.Errorf("title %q: survived=%v, want %v", tt.title, len(got) == 1, tt.want)
			}
		})
	}
}

func TestFilterItemsChainExclusionDisabled(t *testing.T) {
	items := []NormalizedItem{item("ユニクロの春物セール", "https://example.com/1")}
	got := FilterItems(items, false)
	if len(got) != 1 {
		t.Errorf("Expected chain item kept when exclusion disabled, got %d items", len(got))
	}
}

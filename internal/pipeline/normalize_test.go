package pipeline

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	a := GenerateID("https://example.com/news/1")
	b := GenerateID("https://example.com/news/1")
	c := GenerateID("https://example.com/news/2")

	if a != b {
		t.Errorf("Expected same ID for same link, got %s and %s", a, b)
	}
	if a == c {
		t.Errorf("Expected different IDs for different links, both were %s", a)
	}
	if len(a) != 12 {
		t.Errorf("Expected 12-char ID, got %d chars: %s", len(a), a)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tags and entity", "<p>A &amp; B</p>", "A & B"},
		{"empty", "", ""},
		{"script removed", "<script>alert(1)</script>hello", "hello"},
		{"style removed", "<style>.a{color:red}</style>text", "text"},
		{"numeric entity", "Spring &#8211; Summer", "Spring – Summer"},
		{"shortcode removed", "[et_pb_section admin_label=\"x\"]body[/et_pb_section]", "body"},
		{"whitespace collapsed", "a\n\n  b\t c", "a b c"},
		{"nested tags", "<div><span>限定</span>グッズ</div>", "限定 グッズ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripHTML(tt.input)
			if got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 250)
	got := Truncate(long, 200)
	if len([]rune(got)) != 200 {
		t.Errorf("Expected 200 runes, got %d", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected truncated string to end with ..., got %q", got[len(got)-10:])
	}

	short := "短いテキスト"
	if Truncate(short, 200) != short {
		t.Errorf("Expected short string unchanged")
	}

	// 日本語250文字もrune単位で200に収まる
	longJP := strings.Repeat("あ", 250)
	gotJP := Truncate(longJP, 200)
	if len([]rune(gotJP)) != 200 {
		t.Errorf("Expected 200 runes for Japanese text, got %d", len([]rune(gotJP)))
	}
}

func TestTruncateDegenerateCap(t *testing.T) {
	// 省略記号が入らない上限でもパニックしない
	tests := []struct {
		maxLen int
		want   string
	}{
		{3, "abc"},
		{1, "a"},
		{0, ""},
		{-1, ""},
	}

	for _, tt := range tests {
		got := Truncate("abcdef", tt.maxLen)
		if got != tt.want {
			t.Errorf("Truncate(\"abcdef\", %d) = %q, want %q", tt.maxLen, got, tt.want)
		}
	}
}

func TestNormalizeImageURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"//cdn.example.com/a//b.jpg", "https://cdn.example.com/a/b.jpg"},
		{"https://cdn.example.com/img//x.png", "https://cdn.example.com/img/x.png"},
		{"https://cdn.example.com/ok.jpg", "https://cdn.example.com/ok.jpg"},
		// クエリ・フラグメント内は畳まない
		{"https://cdn.example.com/r//img.jpg?next=https://x.example.com//y", "https://cdn.example.com/r/img.jpg?next=https://x.example.com//y"},
		{"https://cdn.example.com/a//b.jpg#frag//ment", "https://cdn.example.com/a/b.jpg#frag//ment"},
		{"", ""},
	}

	for _, tt := range tests {
		got := NormalizeImageURL(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeImageURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"新商品は1,200円で発売", "¥1,200"},
		{"価格: ¥980", "¥980"},
		{"￥2,500（税込）", "¥2,500"},
		{"価格未定", ""},
		{"", ""},
	}

	for _, tt := range tests {
		got := ExtractPrice(tt.input)
		if got != tt.want {
			t.Errorf("ExtractPrice(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

package security

import (
	"testing"
)

func TestContentSanitizer_Sanitize(t *testing.T) {
	s := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "プレーンテキストはそのまま",
			input: "開発ボード",
			want:  "開発ボード",
		},
		{
			name:  "scriptタグを除去",
			input: `<script>alert("xss")</script>設計`,
			want:  "設計",
		},
		{
			name:  "書式タグも除去",
			input: "<b>重要</b>なタスク",
			want:  "重要なタスク",
		},
		{
			name:  "onイベント属性付きタグを除去",
			input: `<img src="x" onerror="alert(1)">画像`,
			want:  "画像",
		},
		{
			name:  "空文字列",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestContentSanitizer_Idempotent(t *testing.T) {
	s := NewContentSanitizer()
	input := `<a href="https://example.com">リンク</a>付きテキスト`

	once := s.Sanitize(input)
	twice := s.Sanitize(once)
	if once != twice {
		t.Errorf("Sanitize is not idempotent: %q != %q", once, twice)
	}
}

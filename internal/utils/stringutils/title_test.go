package stringutils

import "testing"

func TestSanitizeTitleContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "plain text unchanged",
			content: "How do I configure Postgres",
			want:    "How do I configure Postgres",
		},
		{
			name:    "strips URL",
			content: "Check https://example.com/docs for details",
			want:    "Check for details",
		},
		{
			name:    "strips www URL",
			content: "see www.example.com please",
			want:    "see please",
		},
		{
			name:    "keeps markdown link text",
			content: "read [the guide](https://example.com) first",
			want:    "read the guide first",
		},
		{
			name:    "strips email",
			content: "mail me at user@example.com tomorrow",
			want:    "mail me at tomorrow",
		},
		{
			name:    "collapses whitespace",
			content: "too   many    spaces",
			want:    "too many spaces",
		},
		{
			name:    "trims trailing punctuation",
			content: "what is this?!",
			want:    "what is this",
		},
		{
			name:    "keeps unicode letters",
			content: "café résumé 日本語",
			want:    "café résumé 日本語",
		},
		{
			name:    "empty input",
			content: "",
			want:    "",
		},
		{
			name:    "only URL",
			content: "https://example.com",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeTitleContent(tt.content); got != tt.want {
				t.Errorf("SanitizeTitleContent(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		maxLen int
		want   string
	}{
		{
			name:   "short title unchanged",
			title:  "Hello world",
			maxLen: 50,
			want:   "Hello world",
		},
		{
			name:   "exact length unchanged",
			title:  "12345",
			maxLen: 5,
			want:   "12345",
		},
		{
			name:   "truncates at word boundary",
			title:  "a conversation about distributed consensus algorithms",
			maxLen: 30,
			want:   "a conversation about...",
		},
		{
			name:   "hard cut when no usable boundary",
			title:  "supercalifragilisticexpialidocious",
			maxLen: 10,
			want:   "superca...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateTitle(tt.title, tt.maxLen)
			if got != tt.want {
				t.Errorf("TruncateTitle(%q, %d) = %q, want %q", tt.title, tt.maxLen, got, tt.want)
			}
			if len(got) > tt.maxLen {
				t.Errorf("TruncateTitle result %q exceeds maxLen %d", got, tt.maxLen)
			}
		})
	}
}

func TestGenerateTitle(t *testing.T) {
	got := GenerateTitle("  Check https://example.com and tell me   what it says!  ", 40)
	want := "Check and tell me what it says"
	if got != want {
		t.Errorf("GenerateTitle() = %q, want %q", got, want)
	}

	if got := GenerateTitle("https://only-a-url.example.com", 40); got != "" {
		t.Errorf("GenerateTitle(url only) = %q, want empty", got)
	}
}

package chat

import (
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

// concatText joins every text segment's content in order.
func concatText(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.Type == SegmentText {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

func TestSplitSegments_NoTools(t *testing.T) {
	segments := SplitSegments("plain answer text", nil, true)
	if len(segments) != 1 {
		t.Fatalf("len(segments) = %d, want 1", len(segments))
	}
	if segments[0].Type != SegmentText || segments[0].Text != "plain answer text" {
		t.Errorf("unexpected segment: %+v", segments[0])
	}
}

func TestSplitSegments_InterleaveDisabled(t *testing.T) {
	tools := []ToolInvocation{{Name: "search", Offset: intPtr(3)}}
	segments := SplitSegments("hello world", tools, false)
	if len(segments) != 1 || segments[0].Type != SegmentText {
		t.Fatalf("want single text segment, got %+v", segments)
	}
	if segments[0].Text != "hello world" {
		t.Errorf("text = %q, want unchanged input", segments[0].Text)
	}
}

func TestSplitSegments_BoundarySafety(t *testing.T) {
	// Raw offset 3 falls inside "hello"; the split must land on or after the
	// space at index 5, never inside the word.
	tools := []ToolInvocation{{Name: "search", Offset: intPtr(3)}}
	segments := SplitSegments("hello world", tools, true)

	var toolOffset int
	found := false
	for _, seg := range segments {
		if seg.Type == SegmentTools {
			toolOffset = seg.Offset
			found = true
		}
	}
	if !found {
		t.Fatal("no tools segment produced")
	}
	if toolOffset < 5 {
		t.Errorf("tool offset = %d, want >= 5", toolOffset)
	}
	if got := concatText(segments); got != "hello world" {
		t.Errorf("round-trip failed: %q", got)
	}
}

func TestSplitSegments_PunctuationKeptLeft(t *testing.T) {
	// Offset 2 is inside "end"; the boundary found is the period, which stays
	// on the left side of the split.
	tools := []ToolInvocation{{Name: "lookup", Offset: intPtr(2)}}
	segments := SplitSegments("end. next", tools, true)

	if len(segments) != 3 {
		t.Fatalf("len(segments) = %d, want 3: %+v", len(segments), segments)
	}
	if segments[0].Text != "end." {
		t.Errorf("left text = %q, want %q", segments[0].Text, "end.")
	}
	if segments[1].Type != SegmentTools || segments[1].Offset != 4 {
		t.Errorf("tools segment = %+v, want offset 4", segments[1])
	}
	if segments[2].Text != " next" {
		t.Errorf("right text = %q, want %q", segments[2].Text, " next")
	}
}

func TestSplitSegments_OffsetClamping(t *testing.T) {
	tests := []struct {
		name       string
		offset     int
		wantOffset int
	}{
		{name: "negative clamps to start", offset: -5, wantOffset: 0},
		{name: "past end clamps to end", offset: 999, wantOffset: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tools := []ToolInvocation{{Name: "t", Offset: intPtr(tt.offset)}}
			segments := SplitSegments("hello", tools, true)
			for _, seg := range segments {
				if seg.Type == SegmentTools && seg.Offset != tt.wantOffset {
					t.Errorf("tool offset = %d, want %d", seg.Offset, tt.wantOffset)
				}
			}
			if got := concatText(segments); got != "hello" {
				t.Errorf("round-trip failed: %q", got)
			}
		})
	}
}

func TestSplitSegments_NilOffsetDefaults(t *testing.T) {
	text := "some answer"

	// Ordinary tools without an offset anchor to the start.
	segments := SplitSegments(text, []ToolInvocation{{Name: "search"}}, true)
	if segments[0].Type != SegmentTools || segments[0].Offset != 0 {
		t.Errorf("default tool segment = %+v, want tools at 0", segments[0])
	}

	// Form tools without an offset anchor to the end.
	segments = SplitSegments(text, []ToolInvocation{{Name: "intake", Type: ToolTypeForm}}, true)
	last := segments[len(segments)-1]
	if last.Type != SegmentTools || last.Offset != len([]rune(text)) {
		t.Errorf("form tool segment = %+v, want tools at end", last)
	}
}

func TestSplitSegments_EmptyTextWithTools(t *testing.T) {
	tools := []ToolInvocation{{Name: "search", Offset: intPtr(7)}}
	segments := SplitSegments("", tools, true)
	if len(segments) != 1 {
		t.Fatalf("len(segments) = %d, want 1", len(segments))
	}
	if segments[0].Type != SegmentTools || segments[0].Offset != 0 {
		t.Errorf("segment = %+v, want tools at 0", segments[0])
	}
}

func TestSplitSegments_GroupingPreservesInputOrder(t *testing.T) {
	step1, step2 := 1, 2
	tools := []ToolInvocation{
		{Name: "first", Step: &step1, Offset: intPtr(3)},
		{Name: "second", Step: &step2, Offset: intPtr(4)},
	}
	// Both offsets normalize to the space at index 5.
	segments := SplitSegments("hello world", tools, true)

	var group []ToolInvocation
	for _, seg := range segments {
		if seg.Type == SegmentTools {
			group = seg.Tools
		}
	}
	if len(group) != 2 {
		t.Fatalf("len(group) = %d, want 2", len(group))
	}
	if group[0].Name != "first" || group[1].Name != "second" {
		t.Errorf("group order = %s, %s; want input order", group[0].Name, group[1].Name)
	}
}

func TestSplitSegments_LookaheadBound(t *testing.T) {
	// A run longer than the lookahead forces a mid-word split at the clamped
	// offset rather than unbounded scanning.
	long := strings.Repeat("a", 64)
	tools := []ToolInvocation{{Name: "t", Offset: intPtr(2)}}
	segments := SplitSegments(long, tools, true)

	var toolOffset int
	for _, seg := range segments {
		if seg.Type == SegmentTools {
			toolOffset = seg.Offset
		}
	}
	if toolOffset != 2 {
		t.Errorf("tool offset = %d, want mid-word split at 2", toolOffset)
	}
	if got := concatText(segments); got != long {
		t.Errorf("round-trip failed")
	}
}

func TestSplitSegments_RoundTripAndTotality(t *testing.T) {
	texts := []string{
		"",
		"one",
		"a longer answer with several words, punctuation... and unicode: café 日本語 text",
		strings.Repeat("word boundary cases ", 20),
	}
	offsets := [][]int{
		{0},
		{-3, 1, 2, 100},
		{5, 17, 17, 42, 9999},
		{0, 50, 120, 333},
	}

	for i, text := range texts {
		tools := make([]ToolInvocation, 0, len(offsets[i]))
		for _, off := range offsets[i] {
			o := off
			tools = append(tools, ToolInvocation{Name: "t", Offset: &o})
		}

		segments := SplitSegments(text, tools, true)

		if got := concatText(segments); got != text {
			t.Errorf("case %d: round-trip failed: got %q want %q", i, got, text)
		}

		// Offsets are non-decreasing and text segments tile the string.
		prev := -1
		cursor := 0
		for _, seg := range segments {
			if seg.Offset < prev {
				t.Errorf("case %d: offsets decrease: %d after %d", i, seg.Offset, prev)
			}
			prev = seg.Offset
			if seg.Type == SegmentText {
				if seg.Offset != cursor {
					t.Errorf("case %d: text segment at %d, cursor %d", i, seg.Offset, cursor)
				}
				cursor += len([]rune(seg.Text))
			}
		}
		if cursor != len([]rune(text)) {
			t.Errorf("case %d: text segments cover %d of %d runes", i, cursor, len([]rune(text)))
		}
	}
}

package chat

import (
	"sort"
	"unicode"
)

// SegmentType discriminates prose from tool groups in an interleaved answer.
type SegmentType string

const (
	SegmentText  SegmentType = "text"
	SegmentTools SegmentType = "tools"
)

// Segment is a contiguous run of answer text or a group of tool invocations
// sharing a normalized offset.
type Segment struct {
	Type   SegmentType      `json:"type"`
	Offset int              `json:"offset"`
	Text   string           `json:"text,omitempty"`
	Tools  []ToolInvocation `json:"tools,omitempty"`
}

// boundaryLookahead bounds how far a mid-word offset is advanced to find the
// next word boundary before accepting the mid-word split.
const boundaryLookahead = 24

// SplitSegments splits answer text into an ordered sequence of text and tools
// segments covering the whole string exactly once.
//
// Raw tool offsets are clamped to the text, then snapped forward to the next
// word boundary when they would split a word. Punctuation boundaries are kept
// on the left side of the split; any other boundary character splits exactly
// at itself. Records sharing a normalized offset form one tools segment in
// input order. Concatenating the text segments always reproduces the input
// text exactly.
//
// When interleave is false or there are no tool records, the entire text is
// returned as a single text segment.
func SplitSegments(text string, tools []ToolInvocation, interleave bool) []Segment {
	if !interleave || len(tools) == 0 {
		return []Segment{{Type: SegmentText, Offset: 0, Text: text}}
	}

	runes := []rune(text)
	n := len(runes)

	groups := make(map[int][]ToolInvocation)
	for _, tool := range tools {
		offset := normalizeOffset(runes, rawOffset(tool, n))
		groups[offset] = append(groups[offset], tool)
	}

	offsets := make([]int, 0, len(groups))
	for offset := range groups {
		offsets = append(offsets, offset)
	}
	sort.Ints(offsets)

	segments := make([]Segment, 0, 2*len(offsets)+1)
	cursor := 0
	for _, offset := range offsets {
		if offset > cursor {
			segments = append(segments, Segment{
				Type:   SegmentText,
				Offset: cursor,
				Text:   string(runes[cursor:offset]),
			})
			cursor = offset
		}
		segments = append(segments, Segment{
			Type:   SegmentTools,
			Offset: offset,
			Tools:  groups[offset],
		})
	}
	if cursor < n {
		segments = append(segments, Segment{
			Type:   SegmentText,
			Offset: cursor,
			Text:   string(runes[cursor:n]),
		})
	}

	return segments
}

// rawOffset resolves a record's offset before normalization. Records without
// an offset default to the start of the text, except form tools which anchor
// to the end.
func rawOffset(tool ToolInvocation, textLen int) int {
	if tool.Offset == nil {
		if tool.Type == ToolTypeForm {
			return textLen
		}
		return 0
	}
	return *tool.Offset
}

// normalizeOffset clamps offset into [0, len] and, when it falls strictly
// inside an alphanumeric run, advances to the next word boundary within the
// lookahead window. If no boundary is found the clamped offset is kept: a
// mid-word split beats unbounded scanning.
func normalizeOffset(runes []rune, offset int) int {
	n := len(runes)
	if offset < 0 {
		return 0
	}
	if offset >= n {
		return n
	}
	if offset == 0 {
		return 0
	}

	if !isWordRune(runes[offset-1]) || !isWordRune(runes[offset]) {
		return offset
	}

	limit := offset + boundaryLookahead
	if limit > n {
		limit = n
	}
	for i := offset; i < limit; i++ {
		if isWordRune(runes[i]) {
			continue
		}
		// Punctuation stays on the left of the split.
		if unicode.IsPunct(runes[i]) {
			return i + 1
		}
		return i
	}
	if limit == n {
		return n
	}
	return offset
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

package render

import (
	"slices"
	"testing"
)

func TestWrapTextWithWideRunes(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{
			name:  "pure wide runes",
			text:  "你好世界",
			width: 4,
			want:  []string{"你好", "世界"},
		},
		{
			name:  "mix wide and ascii",
			text:  "你好 hello",
			width: 4,
			want:  []string{"你好", "hell", "o"},
		},
		{
			name:  "word wrap keeps words intact",
			text:  "the quick brown fox jumps",
			width: 9,
			want:  []string{"the quick", "brown fox", "jumps"},
		},
		{
			name:  "empty line preserved",
			text:  "a\n\nb",
			width: 10,
			want:  []string{"a", "", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.text, tt.width)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("WrapText(%q,%d)=%v want %v", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestWrapTextZeroWidthReturnsInput(t *testing.T) {
	got := WrapText("anything at all", 0)
	if !slices.Equal(got, []string{"anything at all"}) {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestWrapPreformattedKeepsLeadingSpaces(t *testing.T) {
	got := WrapPreformatted("    result: 4250000", 12)
	want := []string{"    result: ", "4250000"}
	if !slices.Equal(got, want) {
		t.Fatalf("WrapPreformatted=%v want %v", got, want)
	}
}

func TestWrapPreformattedShortLineUntouched(t *testing.T) {
	got := WrapPreformatted("  ok", 80)
	if !slices.Equal(got, []string{"  ok"}) {
		t.Fatalf("unexpected result: %v", got)
	}
}

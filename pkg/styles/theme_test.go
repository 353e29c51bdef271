//go:build !integration && !js && !wasm

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestAdaptiveColorsHaveBothVariants(t *testing.T) {
	colors := map[string]lipgloss.AdaptiveColor{
		"ColorError":      ColorError,
		"ColorWarning":    ColorWarning,
		"ColorInfo":       ColorInfo,
		"ColorPurple":     ColorPurple,
		"ColorComment":    ColorComment,
		"ColorForeground": ColorForeground,
		"ColorBackground": ColorBackground,
		"ColorBorder":     ColorBorder,
	}

	for name, color := range colors {
		t.Run(name, func(t *testing.T) {
			if color.Light == "" {
				t.Errorf("%s has empty Light variant", name)
			}
			if color.Dark == "" {
				t.Errorf("%s has empty Dark variant", name)
			}
			if color.Light == color.Dark {
				t.Errorf("%s has identical Light and Dark variants: %s", name, color.Light)
			}
		})
	}
}

func TestStylesRenderNonEmpty(t *testing.T) {
	testText := "Hello World"

	tests := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Error", Error},
		{"Warning", Warning},
		{"Info", Info},
		{"FilePath", FilePath},
		{"LineNumber", LineNumber},
		{"ContextLine", ContextLine},
		{"Highlight", Highlight},
		{"TableHeader", TableHeader},
		{"TableCell", TableCell},
		{"TableTitle", TableTitle},
		{"TableBorder", TableBorder},
		{"TreeEnumerator", TreeEnumerator},
		{"TreeNode", TreeNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.style.Render(testText)
			if len(result) < len(testText) {
				t.Errorf("style %s: rendered length %d is less than input length %d",
					tt.name, len(result), len(testText))
			}
		})
	}
}

func TestRoundedBorderHasCurvedCorner(t *testing.T) {
	if RoundedBorder.TopLeft != "╭" {
		t.Errorf("RoundedBorder.TopLeft = %q, want curved corner ╭", RoundedBorder.TopLeft)
	}
}

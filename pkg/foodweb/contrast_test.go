package foodweb

import (
	"testing"

	"github.com/matzehuels/foodweb/pkg/errors"
)

func TestFontColor(t *testing.T) {
	tests := []struct {
		name     string
		contrast Contrast
		fill     string
		want     string
	}{
		{"binary default gray", ContrastBinary, "#f0f0f0", Black},
		{"binary default gray upper", ContrastBinary, "#F0F0F0", Black},
		{"binary red", ContrastBinary, "#ff0000", White},
		{"binary light yellow", ContrastBinary, "#ffffcc", White},
		{"luminance default gray", ContrastLuminance, "#f0f0f0", Black},
		{"luminance light yellow", ContrastLuminance, "#ffffcc", Black},
		{"luminance short white", ContrastLuminance, "#fff", Black},
		{"luminance navy", ContrastLuminance, "#000080", White},
		{"luminance invalid falls back", ContrastLuminance, "tomato", White},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.contrast.FontColor(tt.fill); got != tt.want {
				t.Errorf("FontColor(%q) = %s, want %s", tt.fill, got, tt.want)
			}
		})
	}
}

func TestParseContrast(t *testing.T) {
	tests := []struct {
		in      string
		want    Contrast
		wantErr bool
	}{
		{"", ContrastBinary, false},
		{"binary", ContrastBinary, false},
		{" Luminance ", ContrastLuminance, false},
		{"wcag", "", true},
	}
	for _, tt := range tests {
		got, err := ParseContrast(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseContrast(%q) error = %v", tt.in, err)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidOption) {
			t.Errorf("ParseContrast(%q) code = %v", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseContrast(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

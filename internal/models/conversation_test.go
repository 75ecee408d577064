package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short content kept verbatim", "Hello there", "Hello there"},
		{"exactly thirty characters", strings.Repeat("x", 30), strings.Repeat("x", 30)},
		{"truncated with ellipsis", strings.Repeat("x", 31), strings.Repeat("x", 30) + "..."},
		{"multibyte content counts runes", strings.Repeat("é", 31), strings.Repeat("é", 30) + "..."},
		{"empty content", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleFromContent(tt.content))
		})
	}
}

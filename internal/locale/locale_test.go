package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Code
	}{
		{"", EnglishUS},
		{"en-US", EnglishUS},
		{"en", EnglishUS},
		{"fr-FR", EnglishUS},
		{"zh", SimplifiedChinese},
		{"zh-CN", SimplifiedChinese},
		{"zh_cn", SimplifiedChinese},
		{"  ZH-cn ", SimplifiedChinese},
		{"zh-TW", EnglishUS},
		{"zh-Hant", EnglishUS},
		{"!!garbage!!", EnglishUS},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestConventionFor(t *testing.T) {
	assert.Equal(t, SundayStart, ConventionFor(EnglishUS))
	assert.Equal(t, MondayStart, ConventionFor(SimplifiedChinese))
	assert.Equal(t, SundayStart, ConventionFor(Code("xx")))
}

func TestWeekConventionString(t *testing.T) {
	assert.Equal(t, "sunday", SundayStart.String())
	assert.Equal(t, "monday", MondayStart.String())
}

func TestCodeTag(t *testing.T) {
	assert.Equal(t, "zh-CN", SimplifiedChinese.Tag().String())
}

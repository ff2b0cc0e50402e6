package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	l := New("ru")
	assert.Equal(t, "Minimum withdrawal: 50 USDT", l.T(EN, BelowMinimum))
	assert.Equal(t, "Минимальный вывод: 50 USDT", l.T(RU, BelowMinimum))
	assert.Equal(t, "Минимальный вывод: 50 USDT", l.T(Lang("de"), BelowMinimum))
	assert.Equal(t, "no.such.key", l.T(EN, "no.such.key"))
}

func TestResolve(t *testing.T) {
	l := New("ru")
	tests := []struct {
		name     string
		explicit string
		accept   string
		want     Lang
	}{
		{"explicit wins", "en", "ru-RU", EN},
		{"unknown explicit ignored", "de", "", RU},
		{"accept english", "", "en-US,en;q=0.9", EN},
		{"accept russian", "", "ru-RU,ru;q=0.9,en;q=0.5", RU},
		{"accept unsupported", "", "ja-JP", RU},
		{"garbage header", "", ";;;", RU},
		{"empty", "", "", RU},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Resolve(tt.explicit, tt.accept))
		})
	}
}

func TestEnglishFallback(t *testing.T) {
	l := New("en")
	assert.Equal(t, EN, l.Fallback())
	assert.Equal(t, EN, l.Resolve("", ""))
	assert.Equal(t, New("xx").Fallback(), RU)
}

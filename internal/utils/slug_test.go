package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Английский язык", "angliyskiy-yazyk"},
		{"Курсы программирования", "kursy-programmirovaniya"},
		{"Hello World", "hello-world"},
		{"  Много   пробелов  ", "mnogo-probelov"},
		{"Спец!@#символы", "spetssimvoly"},
		{"Ёжик в тумане", "yozhik-v-tumane"},
		{"объём", "obyom"},
		{"!!!", "course"},
		{"", "course"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Slugify(tt.input), "input %q", tt.input)
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"kurs": true, "kurs-1": true}
	exists := func(slug string) bool { return taken[slug] }

	assert.Equal(t, "kurs-2", UniqueSlug("kurs", exists))
	assert.Equal(t, "drugoy", UniqueSlug("drugoy", exists))
}

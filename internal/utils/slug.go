package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// Cyrillic to Latin transliteration used for URL slugs.
var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9\-]+`)
	dashRuns     = regexp.MustCompile(`\-\-+`)
)

// Slugify converts a title into a URL-safe slug, transliterating Cyrillic.
// Returns "course" for input that slugifies to nothing so callers always get
// a usable base.
func Slugify(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))

	var b strings.Builder
	for _, r := range lowered {
		if mapped, ok := translit[r]; ok {
			b.WriteString(mapped)
			continue
		}
		b.WriteRune(r)
	}

	result := strings.ReplaceAll(b.String(), " ", "-")
	result = nonSlugChars.ReplaceAllString(result, "")
	result = dashRuns.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if result == "" {
		return "course"
	}
	return result
}

// UniqueSlug appends a numeric suffix to base until exists reports false.
func UniqueSlug(base string, exists func(string) bool) string {
	slug := base
	for counter := 1; exists(slug); counter++ {
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
	return slug
}

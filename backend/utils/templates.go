package utils

import (
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// TemplateFuncs returns a map of functions that can be used in templates
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatTime":  formatTime,
		"formatPrice": formatPrice,
		"capitalize":  capitalize,
		"truncate":    truncate,
		"pluralize":   pluralize,
		"add":         add,
		"subtract":    subtract,
		"pageURL":     pageURL,
		"selected":    selected,
		"isValue":     isValue,
	}
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

func formatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return strings.ToUpper(string(r)) + s[size:]
}

// truncate cuts s to length runes.
func truncate(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}
	return string([]rune(s)[:length]) + "..."
}

func pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

func add(a, b int) int {
	return a + b
}

func subtract(a, b int) int {
	return a - b
}

// pageURL builds a list link that keeps the active filter.
func pageURL(filterKey, filterValue string, page int) string {
	q := url.Values{}
	if filterValue != "" {
		q.Set(filterKey, filterValue)
	}
	q.Set("page", strconv.Itoa(page))
	return "?" + q.Encode()
}

// selected reports whether id is among the submitted option values.
func selected(values []string, id int64) bool {
	for _, v := range values {
		if isValue(v, id) {
			return true
		}
	}
	return false
}

func isValue(value string, id int64) bool {
	return value == strconv.FormatInt(id, 10)
}

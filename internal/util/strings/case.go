// Package strings holds the identifier transforms used to derive table and column names.
package strings

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ToSnakeCase converts CamelCase to snake_case
// Handles acronyms properly (HTTPRequest -> http_request)
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '_' {
				prev := runes[i-1]
				// Add underscore before uppercase letter if:
				// 1. Previous char is lowercase
				// 2. Next char is lowercase (for acronyms like HTTPRequest -> http_request)
				if unicode.IsLower(prev) {
					result.WriteRune('_')
				} else if i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
					result.WriteRune('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// ToCamelCase converts snake_case to lowerCamelCase (user_account -> userAccount)
func ToCamelCase(s string) string {
	parts := strings.Split(s, "_")
	var result strings.Builder
	first := true
	for _, part := range parts {
		if part == "" {
			continue
		}
		if first {
			result.WriteString(strings.ToLower(part))
			first = false
			continue
		}
		result.WriteString(FirstToUpper(strings.ToLower(part)))
	}
	return result.String()
}

// FirstToLower lowers the first rune of s.
func FirstToLower(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// FirstToUpper upper-cases the first rune of s.
func FirstToUpper(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// ToLowerCamel lowers a leading initialism as well as a leading capital
// (UserName -> userName, ID -> id, HTTPStatus -> httpStatus)
func ToLowerCamel(s string) string {
	runes := []rune(s)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return s
	case n > 1 && n < len(runes) && unicode.IsLower(runes[n]):
		// The last capital starts the next word
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

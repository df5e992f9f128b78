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
		if r == '-' || r == ' ' {
			result.WriteRune('_')
			continue
		}
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				// Add underscore before uppercase letter if:
				// 1. Previous char is lowercase or a digit
				// 2. Next char is lowercase (for acronyms like HTTPRequest -> http_request)
				if unicode.IsLower(prev) || unicode.IsDigit(prev) {
					result.WriteRune('_')
				} else if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
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

// ToKebabCase converts CamelCase to kebab-case (EdFi -> ed-fi)
func ToKebabCase(s string) string {
	return strings.ReplaceAll(ToSnakeCase(s), "_", "-")
}

// Uncapitalize lowercases the first rune (SchoolId -> schoolId)
func Uncapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// Capitalize uppercases the first rune (schoolId -> SchoolId)
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Alphanumeric drops every rune that is not a letter or digit (Ed-Fi -> EdFi)
func Alphanumeric(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// JoinRole prefixes name with a role name. The role is elided when it is
// exactly the leading words of name, so Rank with Ranking gives RankRanking.
func JoinRole(role, name string) string {
	if role == "" || name == role {
		return name
	}
	if strings.HasPrefix(name, role) && startsWord(name, len(role)) {
		return name
	}
	return role + name
}

// TrimParentPrefix removes a leading parent entity name from name. Names
// equal to the parent are returned unchanged.
func TrimParentPrefix(parent, name string) string {
	if parent == "" || len(name) <= len(parent) || !strings.HasPrefix(name, parent) {
		return name
	}
	rest := name[len(parent):]
	if r, _ := utf8.DecodeRuneInString(rest); !unicode.IsUpper(r) {
		return name
	}
	return rest
}

// irregularPlurals maps lowercase singular suffixes to their plural form
var irregularPlurals = map[string]string{
	"person": "people",
	"child":  "children",
	"man":    "men",
	"woman":  "women",
	"mouse":  "mice",
}

// Pluralize returns the plural form of a PascalCase or camelCase word,
// inflecting only its last word.
func Pluralize(word string) string {
	if word == "" {
		return word
	}

	lower := strings.ToLower(word)
	for singular, plural := range irregularPlurals {
		if lower == singular || (strings.HasSuffix(lower, singular) && startsWord(word, len(word)-len(singular))) {
			head := word[:len(word)-len(singular)]
			tail := word[len(word)-len(singular):]
			if r, _ := utf8.DecodeRuneInString(tail); unicode.IsUpper(r) {
				return head + Capitalize(plural)
			}
			return head + plural
		}
	}

	switch {
	case strings.HasSuffix(word, "y"):
		if len(word) > 1 && !isVowel(word[len(word)-2]) {
			return word[:len(word)-1] + "ies"
		}
		return word + "s"
	case strings.HasSuffix(word, "s") || strings.HasSuffix(word, "x") ||
		strings.HasSuffix(word, "z") || strings.HasSuffix(word, "ch") ||
		strings.HasSuffix(word, "sh"):
		return word + "es"
	default:
		return word + "s"
	}
}

// startsWord reports whether the byte at i begins a new PascalCase word
func startsWord(word string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeRuneInString(word[i:])
	return unicode.IsUpper(r)
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return true
	}
	return false
}

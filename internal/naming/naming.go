// Package naming converts domain names into the identifier, file and table
// names of generated code.
package naming

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})
	title    = cases.Title(language.Und, cases.NoLower)
	lower    = cases.Lower(language.Und)
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{
		"ACL", "API", "ASCII", "CPU", "CSS", "DNS", "EOF", "GUID", "HTML", "HTTP",
		"HTTPS", "ID", "IP", "JSON", "LHS", "QPS", "RAM", "RHS", "RPC", "SLA",
		"SMTP", "SQL", "SSH", "TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI",
		"URL", "UTF8", "UUID", "VM", "XML", "XMPP", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// Capitalize upper-cases the first letter of s and keeps the rest.
// "lastLoginDate" becomes "LastLoginDate".
func Capitalize(s string) string {
	return title.String(s)
}

// Uncapitalize lower-cases the first letter of s and keeps the rest.
func Uncapitalize(s string) string {
	for i := range s {
		if i > 0 {
			return lower.String(s[:i]) + s[i:]
		}
	}
	return lower.String(s)
}

// Snake converts s to snake_case. Acronyms stay together: "HTTPCode"
// becomes "http_code".
func Snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// A word starts at an upper-case letter that follows a lower-case one
		// ("UserInfo") or that ends an acronym ("HTTPCode").
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Pascal converts a snake or kebab cased name to PascalCase.
func Pascal(s string) string {
	return pascalWords(words(s))
}

// Camel converts a snake or kebab cased name to camelCase.
func Camel(s string) string {
	w := words(s)
	if len(w) == 0 {
		return ""
	}
	return strings.ToLower(w[0]) + pascalWords(w[1:])
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
}

func pascalWords(words []string) string {
	var b strings.Builder
	for _, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			b.WriteString(upper)
			continue
		}
		b.WriteString(rules.Capitalize(w))
	}
	return b.String()
}

// Receiver returns a short Go receiver name for the type name s.
func Receiver(s string) string {
	s = strings.Trim(s, "[]*&0123456789")
	var b strings.Builder
	for _, w := range strings.Split(Snake(s), "_") {
		if w != "" {
			b.WriteByte(w[0])
		}
	}
	r := b.String()
	if r == "" || token.IsKeyword(r) {
		r = "_" + r
	}
	return r
}

// Plural returns the plural form of s.
func Plural(s string) string {
	return rules.Pluralize(s)
}

// TableName returns the default table name of an entity: the snake cased
// plural of its name.
func TableName(entity string) string {
	return Plural(Snake(entity))
}

// EnumConstant converts an upper snake constant name to the PascalCase suffix
// of a Go constant: "IN_PROGRESS" becomes "InProgress".
func EnumConstant(s string) string {
	return Pascal(strings.ToLower(s))
}

// Package css provides the minimal CSS syntax support sprite processing
// needs: extracting individual property declarations from a line fragment
// and unpacking url() literals. Full stylesheet parsing is intentionally
// out of scope - only the declaration adjacent to a sprite directive is
// ever interpreted.
package css

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Declaration is a single CSS property declaration.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// ExtractDeclarations tokenizes a text fragment and returns all complete
// "property: value" declarations found in it. Selector prefixes and braces
// are skipped, `!important` is recognized and stripped from the value.
// Directive bodies use the same `key: value;` shape, so they are parsed
// with this extractor too.
func ExtractDeclarations(fragment string) []Declaration {
	lexer := css.NewLexer(parse.NewInputString(fragment))

	var (
		decls     []Declaration
		prop      string
		value     strings.Builder
		inValue   bool
		bang      bool
		important bool
	)

	reset := func() {
		prop = ""
		value.Reset()
		inValue, bang, important = false, false, false
	}
	flush := func() {
		v := strings.TrimSpace(value.String())
		if len(prop) > 0 && inValue && len(v) > 0 {
			decls = append(decls, Declaration{
				Property:  strings.ToLower(prop),
				Value:     v,
				Important: important,
			})
		}
		reset()
	}
	appendValue := func(data []byte) {
		if bang {
			// a lone "!" that was not followed by "important"
			value.WriteByte('!')
			bang = false
		}
		value.Write(data)
	}

	for {
		tt, data := lexer.Next()
		switch tt {
		case css.ErrorToken:
			// EOF or lexing error, either way we are done
			flush()
			return decls
		case css.SemicolonToken, css.RightBraceToken:
			flush()
		case css.LeftBraceToken:
			// whatever was gathered so far belongs to a selector
			reset()
		case css.ColonToken:
			if len(prop) > 0 && !inValue {
				inValue = true
			} else if inValue {
				appendValue(data)
			}
		case css.IdentToken:
			if !inValue {
				prop = string(data)
			} else if bang && strings.EqualFold(string(data), "important") {
				important = true
				bang = false
			} else {
				appendValue(data)
			}
		case css.DelimToken:
			if inValue && len(data) == 1 && data[0] == '!' {
				bang = true
			} else if inValue {
				appendValue(data)
			}
		case css.WhitespaceToken:
			if inValue && value.Len() > 0 {
				value.WriteByte(' ')
			}
		case css.CommentToken:
			// comments never contribute to values
		default:
			if inValue {
				appendValue(data)
			}
		}
	}
}

// UnpackURL extracts the location from a url() literal, stripping optional
// single or double quotes. Returns false when the value is not a url()
// form or the location is empty.
func UnpackURL(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if len(v) < len("url()") || !strings.EqualFold(v[:len("url(")], "url(") || !strings.HasSuffix(v, ")") {
		return "", false
	}
	u := unquote(strings.TrimSpace(v[len("url(") : len(v)-1]))
	if len(u) == 0 {
		return "", false
	}
	return u, true
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}

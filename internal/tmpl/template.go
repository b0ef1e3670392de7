// Package tmpl splits the body of a template literal into literal text and
// ${...} interpolations.
package tmpl

import (
	"errors"
	"strings"
)

// Fragment is one piece of a template: literal text or the source of an
// interpolated expression.
type Fragment struct {
	value      string
	isVariable bool
	offset     int
}

// Value returns the fragment text. For interpolations this is the
// expression source without the surrounding ${ and }.
func (f *Fragment) Value() string { return f.value }

// IsVariable reports whether the fragment is an interpolation.
func (f *Fragment) IsVariable() bool { return f.isVariable }

// Offset returns the byte offset of the fragment value within the template
// body.
func (f *Fragment) Offset() int { return f.offset }

// Template is a parsed template literal body.
type Template struct {
	value     string
	fragments []*Fragment
}

// Value returns the original template body.
func (t *Template) Value() string { return t.value }

// Fragments returns the fragments in source order.
func (t *Template) Fragments() []*Fragment { return t.fragments }

// Expressions returns only the interpolation fragments.
func (t *Template) Expressions() []*Fragment {
	var out []*Fragment
	for _, f := range t.fragments {
		if f.isVariable {
			out = append(out, f)
		}
	}
	return out
}

var (
	errUnterminated = errors.New("unterminated template interpolation")
	errUnbalanced   = errors.New("unbalanced braces in template interpolation")
)

// Parse splits a template literal body (the text between the backticks).
func Parse(body string) (*Template, error) {
	t := &Template{value: body}
	var text strings.Builder
	textStart := 0
	flush := func() {
		if text.Len() > 0 {
			t.fragments = append(t.fragments, &Fragment{value: text.String(), offset: textStart})
			text.Reset()
		}
	}
	for i := 0; i < len(body); {
		ch := body[i]
		if ch == '\\' && i+1 < len(body) {
			if text.Len() == 0 {
				textStart = i
			}
			text.WriteString(body[i : i+2])
			i += 2
			continue
		}
		if ch == '$' && i+1 < len(body) && body[i+1] == '{' {
			flush()
			start := i + 2
			end, err := scanInterpolation(body, start)
			if err != nil {
				return nil, err
			}
			t.fragments = append(t.fragments, &Fragment{
				value:      body[start:end],
				isVariable: true,
				offset:     start,
			})
			i = end + 1
			continue
		}
		if text.Len() == 0 {
			textStart = i
		}
		text.WriteByte(ch)
		i++
	}
	flush()
	return t, nil
}

// scanInterpolation returns the index of the brace closing an interpolation
// that starts at body[start].
func scanInterpolation(body string, start int) (int, error) {
	depth := 1
	for i := start; i < len(body); i++ {
		switch c := body[i]; c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
			if depth < 0 {
				return 0, errUnbalanced
			}
		case '"', '\'':
			j, ok := skipQuoted(body, i)
			if !ok {
				return 0, errUnterminated
			}
			i = j
		case '`':
			j, ok := skipNestedTemplate(body, i)
			if !ok {
				return 0, errUnterminated
			}
			i = j
		}
	}
	return 0, errUnterminated
}

func skipQuoted(body string, i int) (int, bool) {
	quote := body[i]
	for i++; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case quote:
			return i, true
		case '\n':
			return 0, false
		}
	}
	return 0, false
}

func skipNestedTemplate(body string, i int) (int, bool) {
	for i++; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case '`':
			return i, true
		case '$':
			if i+1 < len(body) && body[i+1] == '{' {
				end, err := scanInterpolation(body, i+2)
				if err != nil {
					return 0, false
				}
				i = end
			}
		}
	}
	return 0, false
}

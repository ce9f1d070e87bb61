// Package routepath compiles route patterns (:name, :name(regex), literal
// regex groups, optional segments) into anchored regular expressions and
// supports reverse routing via BuildPath.
package routepath

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Key identifies one capture group of a compiled pattern, in group order.
// Unnamed regex literals get positional names ("0", "1", ...).
type Key struct {
	Name string
}

// Options controls pattern compilation.
type Options struct {
	// Sensitive enables case-sensitive matching.
	Sensitive bool

	// Strict disallows an optional trailing slash.
	Strict bool

	// End anchors the match at the end of the path. When false the pattern
	// matches any sub-path from the mount point onward, stopping at a
	// segment boundary.
	End bool
}

// DefaultOptions returns the options used for plain route registration:
// case-insensitive, non-strict, anchored.
func DefaultOptions() Options {
	return Options{End: true}
}

// Matcher is a compiled route pattern: an anchored regular expression plus
// the ordered parameter keys of its capture groups.
type Matcher struct {
	pattern string
	re      *regexp.Regexp
	keys    []Key
	opts    Options
}

// Compile compiles a route pattern into a Matcher.
//
// Pattern syntax:
//   - static segments match literally ("/users")
//   - named parameters capture one segment ("/users/:id")
//   - a parameter may carry a custom expression ("/files/:name(\\d+)")
//   - bare parenthesized expressions capture positionally ("/(.*)")
//   - braced groups with a trailing ? are optional ("/users{/:id}?")
func Compile(pattern string, opts Options) (*Matcher, error) {
	var (
		src     strings.Builder
		keys    []Key
		capture int
		depth   int
	)

	if !opts.Sensitive {
		src.WriteString("(?i)")
	}
	src.WriteString("^")

	i := 0
	for i < len(pattern) {
		c := pattern[i]
		switch {
		case c == ':' && i+1 < len(pattern) && isNameChar(pattern[i+1]):
			j := i + 1
			for j < len(pattern) && isNameChar(pattern[j]) {
				j++
			}
			name := pattern[i+1 : j]
			expr := "[^/]+"
			if j < len(pattern) && pattern[j] == '(' {
				inner, end, err := readGroup(pattern, j)
				if err != nil {
					return nil, err
				}
				expr = inner
				j = end
			}
			src.WriteString("(" + expr + ")")
			keys = append(keys, Key{Name: name})
			capture++
			i = j

		case c == '(':
			inner, end, err := readGroup(pattern, i)
			if err != nil {
				return nil, err
			}
			if strings.HasPrefix(inner, "?") {
				// Already a (?...) construct, not a capture.
				src.WriteString("(" + inner + ")")
			} else {
				src.WriteString("(" + inner + ")")
				keys = append(keys, Key{Name: strconv.Itoa(capture)})
				capture++
			}
			i = end

		case c == '{':
			src.WriteString("(?:")
			depth++
			i++

		case c == '}':
			if depth == 0 {
				return nil, fmt.Errorf("routepath: unbalanced } in pattern %q", pattern)
			}
			depth--
			src.WriteString(")")
			i++
			if i < len(pattern) && pattern[i] == '?' {
				src.WriteString("?")
				i++
			}

		default:
			src.WriteString(regexp.QuoteMeta(string(c)))
			i++
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("routepath: unbalanced { in pattern %q", pattern)
	}

	if opts.End {
		if !opts.Strict {
			src.WriteString("/?")
		}
		src.WriteString("$")
	}

	re, err := regexp.Compile(src.String())
	if err != nil {
		return nil, fmt.Errorf("routepath: pattern %q: %w", pattern, err)
	}

	return &Matcher{pattern: pattern, re: re, keys: keys, opts: opts}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string, opts Options) *Matcher {
	m, err := Compile(pattern, opts)
	if err != nil {
		panic(err)
	}
	return m
}

// Pattern returns the source pattern.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// Keys returns the ordered parameter keys.
func (m *Matcher) Keys() []Key {
	return m.keys
}

// Match reports whether the path matches the pattern.
func (m *Matcher) Match(path string) bool {
	_, ok := m.Captures(path)
	return ok
}

// Captures matches the path and returns the raw (undecoded) capture groups.
// Unmatched optional groups yield empty strings.
//
// In prefix mode (End false) the expression itself cannot express a
// lookahead under RE2, so the segment-boundary requirement is enforced on
// the match end offset instead.
func (m *Matcher) Captures(path string) ([]string, bool) {
	loc := m.re.FindStringSubmatchIndex(path)
	if loc == nil || loc[0] != 0 {
		return nil, false
	}

	if !m.opts.End {
		end := loc[1]
		boundary := end == len(path) ||
			path[end] == '/' ||
			(end > 0 && path[end-1] == '/')
		if !boundary {
			return nil, false
		}
	}

	caps := make([]string, 0, len(m.keys))
	for g := 1; g <= len(m.keys); g++ {
		start, end := loc[2*g], loc[2*g+1]
		if start < 0 {
			caps = append(caps, "")
			continue
		}
		caps = append(caps, path[start:end])
	}
	return caps, true
}

// BuildPath substitutes params into a route pattern, producing a concrete
// path. Custom parameter expressions and unnamed groups are dropped;
// optional groups are included only when every parameter inside them is
// present. Used for reverse routing (named-route redirects).
func BuildPath(pattern string, params map[string]string) string {
	var out strings.Builder
	i := 0
	for i < len(pattern) {
		c := pattern[i]
		switch {
		case c == ':' && i+1 < len(pattern) && isNameChar(pattern[i+1]):
			j := i + 1
			for j < len(pattern) && isNameChar(pattern[j]) {
				j++
			}
			name := pattern[i+1 : j]
			if j < len(pattern) && pattern[j] == '(' {
				if _, end, err := readGroup(pattern, j); err == nil {
					j = end
				}
			}
			out.WriteString(url.PathEscape(params[name]))
			i = j

		case c == '(':
			if _, end, err := readGroup(pattern, i); err == nil {
				i = end
			} else {
				i++
			}

		case c == '{':
			inner, end, ok := readBraced(pattern, i)
			if !ok {
				out.WriteByte(c)
				i++
				continue
			}
			if bracedParamsPresent(inner, params) {
				out.WriteString(BuildPath(inner, params))
			}
			i = end

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// readGroup reads a balanced parenthesized expression starting at
// pattern[start] == '(' and returns the inner source and the index just
// past the closing parenthesis.
func readGroup(pattern string, start int) (inner string, end int, err error) {
	depth := 0
	for i := start; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return pattern[start+1 : i], i + 1, nil
			}
		}
	}
	return "", 0, fmt.Errorf("routepath: unbalanced ( in pattern %q", pattern)
}

// readBraced reads a braced group starting at pattern[start] == '{' and
// returns the inner source and the index just past the group (including a
// trailing ?).
func readBraced(pattern string, start int) (inner string, end int, ok bool) {
	depth := 0
	for i := start; i < len(pattern); i++ {
		switch pattern[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i + 1
				if end < len(pattern) && pattern[end] == '?' {
					end++
				}
				return pattern[start+1 : i], end, true
			}
		}
	}
	return "", 0, false
}

// bracedParamsPresent reports whether every named parameter inside a braced
// group has a value.
func bracedParamsPresent(inner string, params map[string]string) bool {
	i := 0
	for i < len(inner) {
		if inner[i] == ':' && i+1 < len(inner) && isNameChar(inner[i+1]) {
			j := i + 1
			for j < len(inner) && isNameChar(inner[j]) {
				j++
			}
			if params[inner[i+1:j]] == "" {
				return false
			}
			i = j
			continue
		}
		i++
	}
	return true
}

func isNameChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

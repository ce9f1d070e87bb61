package routepath

import (
	"reflect"
	"testing"
)

func mustCompile(t *testing.T, pattern string, opts Options) *Matcher {
	t.Helper()
	m, err := Compile(pattern, opts)
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", pattern, err)
	}
	return m
}

func TestCompileStatic(t *testing.T) {
	m := mustCompile(t, "/users", DefaultOptions())

	if !m.Match("/users") {
		t.Error("expected match for /users")
	}
	if !m.Match("/users/") {
		t.Error("expected match for /users/ (non-strict)")
	}
	if m.Match("/users/42") {
		t.Error("unexpected match for /users/42")
	}
	if m.Match("/user") {
		t.Error("unexpected match for /user")
	}
}

func TestCompileNamedParam(t *testing.T) {
	m := mustCompile(t, "/users/:id", DefaultOptions())

	if got := len(m.Keys()); got != 1 {
		t.Fatalf("len(Keys) = %d, want 1", got)
	}
	if m.Keys()[0].Name != "id" {
		t.Errorf("key = %q, want id", m.Keys()[0].Name)
	}

	caps, ok := m.Captures("/users/42")
	if !ok {
		t.Fatal("expected match for /users/42")
	}
	if !reflect.DeepEqual(caps, []string{"42"}) {
		t.Errorf("captures = %v, want [42]", caps)
	}

	if m.Match("/users") {
		t.Error("unexpected match for /users")
	}
	if m.Match("/users/42/posts") {
		t.Error("unexpected match for /users/42/posts")
	}
}

func TestCompileMultipleParams(t *testing.T) {
	m := mustCompile(t, "/forums/:fid/posts/:pid", DefaultOptions())

	caps, ok := m.Captures("/forums/1/posts/2")
	if !ok {
		t.Fatal("expected match")
	}
	if !reflect.DeepEqual(caps, []string{"1", "2"}) {
		t.Errorf("captures = %v", caps)
	}
}

func TestCompileCustomParamExpression(t *testing.T) {
	m := mustCompile(t, `/files/:id(\d+)`, DefaultOptions())

	if !m.Match("/files/123") {
		t.Error("expected match for digits")
	}
	if m.Match("/files/abc") {
		t.Error("unexpected match for letters")
	}
}

func TestCompileUnnamedGroup(t *testing.T) {
	m := mustCompile(t, "/report/(.*)", DefaultOptions())

	if got := m.Keys()[0].Name; got != "0" {
		t.Errorf("unnamed key = %q, want 0", got)
	}

	caps, ok := m.Captures("/report/a/b/c")
	if !ok {
		t.Fatal("expected match")
	}
	if caps[0] != "a/b/c" {
		t.Errorf("captures[0] = %q", caps[0])
	}
}

func TestCompileOptionalGroup(t *testing.T) {
	m := mustCompile(t, "/users{/:id}?", DefaultOptions())

	caps, ok := m.Captures("/users/42")
	if !ok {
		t.Fatal("expected match with param")
	}
	if caps[0] != "42" {
		t.Errorf("captures[0] = %q, want 42", caps[0])
	}

	caps, ok = m.Captures("/users")
	if !ok {
		t.Fatal("expected match without optional group")
	}
	if caps[0] != "" {
		t.Errorf("captures[0] = %q, want empty for unmatched optional", caps[0])
	}
}

func TestCompileCaseSensitivity(t *testing.T) {
	insensitive := mustCompile(t, "/Users", DefaultOptions())
	if !insensitive.Match("/users") {
		t.Error("default matching should be case-insensitive")
	}

	sensitive := mustCompile(t, "/Users", Options{Sensitive: true, End: true})
	if sensitive.Match("/users") {
		t.Error("sensitive matching should reject /users")
	}
	if !sensitive.Match("/Users") {
		t.Error("sensitive matching should accept /Users")
	}
}

func TestCompileStrictTrailingSlash(t *testing.T) {
	strict := mustCompile(t, "/users", Options{Strict: true, End: true})
	if strict.Match("/users/") {
		t.Error("strict matching should reject trailing slash")
	}
	if !strict.Match("/users") {
		t.Error("strict matching should accept exact path")
	}
}

func TestCompilePrefixMode(t *testing.T) {
	m := mustCompile(t, "/static", Options{End: false})

	if !m.Match("/static") {
		t.Error("expected match for exact path")
	}
	if !m.Match("/static/css/site.css") {
		t.Error("expected match for sub-path")
	}
	if m.Match("/staticfile") {
		t.Error("prefix must stop at a segment boundary")
	}
}

func TestCompilePrefixModeWithParam(t *testing.T) {
	m := mustCompile(t, "/tenants/:tid", Options{End: false})

	caps, ok := m.Captures("/tenants/7/billing")
	if !ok {
		t.Fatal("expected match")
	}
	if caps[0] != "7" {
		t.Errorf("captures[0] = %q, want 7", caps[0])
	}
}

func TestCompileCatchAllFragment(t *testing.T) {
	// The pattern a bare use-layer gets: matches any sub-path from the
	// mount point onward.
	m := mustCompile(t, "([^/]*)", Options{End: false})

	for _, path := range []string{"/", "/a", "/a/b"} {
		if !m.Match(path) {
			t.Errorf("expected match for %q", path)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	for _, pattern := range []string{"/x{", "/x}", "/x(", "/x(ab"} {
		if _, err := Compile(pattern, DefaultOptions()); err == nil {
			t.Errorf("Compile(%q) should fail", pattern)
		}
	}
}

func TestCompileRawCaptures(t *testing.T) {
	m := mustCompile(t, "/users/:name", DefaultOptions())

	caps, ok := m.Captures("/users/jo%20anne")
	if !ok {
		t.Fatal("expected match")
	}
	if caps[0] != "jo%20anne" {
		t.Errorf("captures must stay undecoded, got %q", caps[0])
	}
}

func TestBuildPath(t *testing.T) {
	tests := []struct {
		pattern string
		params  map[string]string
		want    string
	}{
		{"/users/:id", map[string]string{"id": "42"}, "/users/42"},
		{"/forums/:fid/posts/:pid", map[string]string{"fid": "1", "pid": "2"}, "/forums/1/posts/2"},
		{"/users{/:id}?", map[string]string{"id": "42"}, "/users/42"},
		{"/users{/:id}?", map[string]string{}, "/users"},
		{`/files/:id(\d+)`, map[string]string{"id": "7"}, "/files/7"},
		{"/search/:q", map[string]string{"q": "a b"}, "/search/a%20b"},
	}

	for _, tc := range tests {
		if got := BuildPath(tc.pattern, tc.params); got != tc.want {
			t.Errorf("BuildPath(%q, %v) = %q, want %q", tc.pattern, tc.params, got, tc.want)
		}
	}
}

package engine

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestRender_Inline(t *testing.T) {
	ctx := NewContext()
	ctx.Set("name", "world")
	ctx.Set("count", 5)
	ctx.Set("emails", []any{
		map[string]any{"link": "https://a.example", "subject": "hi"},
		map[string]any{"link": "https://b.example"},
	})
	ctx.PushResult(42)

	tests := []struct {
		name     string
		template string
		want     any
	}{
		{"simple", "hello {{ name }}", "hello world"},
		{"no spaces", "hello {{name}}", "hello world"},
		{"number stays typed", "{{ count }}", float64(5)},
		{"number in text", "count: {{ count }}", "count: 5"},
		{"list index", "{{ emails.0.link }}", "https://a.example"},
		{"second index", "{{ emails.1.link }}", "https://b.example"},
		{"prev", "{{ $prev }}", float64(42)},
		{"prev alias", "{{ prev }}-suffix", "42-suffix"},
		{"results index", "{{ $results.0 }}", float64(42)},
		{"missing path", "[{{ nothing.here }}]", "[]"},
		{"out of bounds", "[{{ emails.9.link }}]", "[]"},
		{"no markup", "plain text", "plain text"},
		{"multiple exprs", "{{ name }}:{{ count }}", "world:5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.template, ctx)
			if err != nil {
				t.Fatalf("Render error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Render(%q) = %#v, want %#v", tt.template, got, tt.want)
			}
		})
	}
}

func TestRender_JSONReparse(t *testing.T) {
	ctx := NewContext()
	ctx.Set("obj", map[string]any{"k": "v"})
	ctx.Set("list", []any{float64(1), float64(2)})

	// Объект переживает раунд через текст и возвращается как map
	got, err := Render("{{ obj }}", ctx)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := got.(map[string]any)
	if !ok || m["k"] != "v" {
		t.Errorf("object template = %#v, want map with k=v", got)
	}

	got, err = Render("{{ list }}", ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []any{float64(1), float64(2)}) {
		t.Errorf("list template = %#v", got)
	}
}

func TestRender_Errors(t *testing.T) {
	ctx := NewContext()

	tests := []struct {
		name     string
		template string
		message  string
	}{
		{"unterminated", "hello {{ name", "unterminated expression"},
		{"empty", "hello {{}}", "empty expression"},
		{"empty with spaces", "hello {{   }}", "empty expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.template, ctx)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrTemplateParse) {
				t.Errorf("error should wrap ErrTemplateParse: %v", err)
			}
			var tmplErr *TemplateError
			if !errors.As(err, &tmplErr) {
				t.Fatalf("error should be *TemplateError: %v", err)
			}
			if tmplErr.Template != tt.template {
				t.Errorf("error should carry template text, got %q", tmplErr.Template)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q should contain %q", err.Error(), tt.message)
			}
		})
	}
}

func TestResolve_TemplateMarker(t *testing.T) {
	ctx := NewContext()
	ctx.Set("user", map[string]any{"id": float64(7)})

	// Map с __template__ заменяется целиком, соседние ключи не сливаются
	value := map[string]any{
		TemplateKey: "{{ user.id }}",
		"ignored":   "gone",
	}
	got, err := Resolve(value, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != float64(7) {
		t.Errorf("Resolve marker = %#v, want 7", got)
	}
}

func TestResolve_Nested(t *testing.T) {
	ctx := NewContext()
	ctx.Set("x", 5)
	ctx.Set("y", 7)

	value := map[string]any{
		"a": map[string]any{TemplateKey: "{{ x }}"},
		"b": []any{1, "{{ y }}"},
		"c": "plain",
		"d": true,
	}

	got, err := Resolve(value, ctx)
	if err != nil {
		t.Fatal(err)
	}

	// Рендеринг проходит через JSON re-parse: числа становятся float64
	want := map[string]any{
		"a": float64(5),
		"b": []any{1, float64(7)},
		"c": "plain",
		"d": true,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve nested = %#v, want %#v", got, want)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	ctx := NewContext()
	ctx.Set("v", "final")

	once, err := Resolve(map[string]any{"k": "{{ v }}"}, ctx)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Resolve(once, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second resolve changed value: %#v != %#v", once, twice)
	}
}

func TestResolve_Passthrough(t *testing.T) {
	ctx := NewContext()

	for _, v := range []any{42, 3.14, true, nil, "no markup here"} {
		got, err := Resolve(v, ctx)
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Errorf("Resolve(%#v) = %#v, want unchanged", v, got)
		}
	}
}

func TestResolveParams(t *testing.T) {
	ctx := NewContext()
	ctx.Set("limit", 5)

	params := map[string]any{
		"limit": map[string]any{TemplateKey: "{{ limit }}"},
		"dry":   false,
	}
	got, err := ResolveParams(params, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got["limit"] != float64(5) {
		t.Errorf("limit = %#v, want 5", got["limit"])
	}
	if got["dry"] != false {
		t.Errorf("dry = %#v, want false", got["dry"])
	}
}

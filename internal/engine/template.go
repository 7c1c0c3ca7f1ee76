package engine

import (
	"encoding/json"
	"strconv"
	"strings"
)

// TemplateKey — зарезервированный ключ явного маркера шаблона.
//
// Map, содержащий этот ключ со строковым значением, целиком
// ЗАМЕНЯЕТСЯ результатом рендеринга — соседние ключи не сливаются.
// Ключ может столкнуться с легитимными пользовательскими данными;
// это осознанное ограничение формата определений.
const TemplateKey = "__template__"

// Resolve рекурсивно раскрывает шаблоны в произвольном значении.
//
// Правила:
//   - map с ключом __template__ (строка) → заменяется результатом рендеринга
//   - строка с {{ ... }} → рендерится на месте
//   - map и slice обходятся рекурсивно, листья первыми
//   - числа, bool, nil и строки без разметки проходят без изменений
//
// Раскрытие идемпотентно на полностью раскрытых значениях.
func Resolve(value any, ctx *Context) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		if tmpl, ok := v[TemplateKey]; ok {
			if s, ok := tmpl.(string); ok {
				return Render(s, ctx)
			}
		}

		result := make(map[string]any, len(v))
		for key, val := range v {
			resolved, err := Resolve(val, ctx)
			if err != nil {
				return nil, err
			}
			result[key] = resolved
		}
		return result, nil

	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			resolved, err := Resolve(val, ctx)
			if err != nil {
				return nil, err
			}
			result[i] = resolved
		}
		return result, nil

	case string:
		if strings.Contains(v, "{{") && strings.Contains(v, "}}") {
			return Render(v, ctx)
		}
		return v, nil

	case map[string]string:
		result := make(map[string]any, len(v))
		for key, val := range v {
			resolved, err := Resolve(val, ctx)
			if err != nil {
				return nil, err
			}
			result[key] = resolved
		}
		return result, nil

	case []string:
		result := make([]any, len(v))
		for i, val := range v {
			resolved, err := Resolve(val, ctx)
			if err != nil {
				return nil, err
			}
			result[i] = resolved
		}
		return result, nil

	default:
		// Остальные типы (int, float64, bool, nil) — как есть.
		return value, nil
	}
}

// ResolveParams раскрывает шаблоны в параметрах шага.
// Каждый top-level параметр раскрывается независимо.
func ResolveParams(params map[string]any, ctx *Context) (map[string]any, error) {
	resolved := make(map[string]any, len(params))
	for key, value := range params {
		v, err := Resolve(value, ctx)
		if err != nil {
			return nil, err
		}
		resolved[key] = v
	}
	return resolved, nil
}

// Render рендерит строковый шаблон в scope текущего snapshot'а.
//
// Каждое выражение {{ expr }} — dotted-path lookup в snapshot:
// ключи map по имени, элементы списков по числовому индексу
// (emails.0.link). Отсутствующий путь даёт пустую строку, а не
// ошибку — нестрогий режим сохраняется намеренно, хотя и маскирует
// опечатки.
//
// После подстановки результат пробуется распарсить как JSON:
// шаблон, дающий "42", становится числом, а дающий JSON-объект —
// вложенным map. Иначе остаётся строкой.
func Render(tmpl string, ctx *Context) (any, error) {
	scope := ctx.Snapshot()

	var b strings.Builder
	rest := tmpl
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			b.WriteString(rest)
			break
		}

		b.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end == -1 {
			return nil, &TemplateError{
				Template: tmpl,
				Message:  "unterminated expression",
				Err:      ErrTemplateParse,
			}
		}

		expr := strings.TrimSpace(rest[:end])
		rest = rest[end+2:]

		if expr == "" {
			return nil, &TemplateError{
				Template: tmpl,
				Message:  "empty expression",
				Err:      ErrTemplateParse,
			}
		}

		b.WriteString(formatValue(lookupPath(scope, expr)))
	}

	rendered := b.String()

	// Пробуем типизировать результат: JSON → значение, иначе строка.
	var parsed any
	if err := json.Unmarshal([]byte(rendered), &parsed); err == nil {
		return parsed, nil
	}
	return rendered, nil
}

// lookupPath выполняет dotted-path lookup в scope.
// Отсутствующий путь, нечисловой индекс списка или выход за границы
// дают nil.
func lookupPath(scope map[string]any, path string) any {
	var current any = scope

	for _, part := range strings.Split(path, ".") {
		part = strings.TrimSpace(part)

		switch v := current.(type) {
		case map[string]any:
			val, ok := v[part]
			if !ok {
				return nil
			}
			current = val

		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil
			}
			current = v[idx]

		default:
			return nil
		}
	}

	return current
}

// formatValue превращает значение в текст для подстановки.
// Строки подставляются как есть, nil — пустая строка, остальное
// сериализуется в JSON (чтобы объекты и списки пережили re-parse).
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

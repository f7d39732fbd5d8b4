package pdftemplar

import (
	"fmt"
	"strings"
	"testing"
)

// Ошибка выражения в одном поле стиля не прерывает остальные поля:
// поле сохраняет исходный литерал, предупреждение уходит в warn.
func TestEvaluateStyleExpressions_DegradePerField(t *testing.T) {
	var warnings []string
	r := NewStyleResolverWithWarn(NewEvaluator(), func(f string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(f, args...))
	})
	data, err := ParseData(`{"theme": {"accent": "#00AACC"}}`)
	if err != nil {
		t.Fatal(err)
	}
	ctx := NewRenderContext(data)

	style := &StyleProperties{
		Color:           strp("{{ data.theme.accent }}"),
		BackgroundColor: strp("{{ data.theme.accent > }}"), // синтаксическая ошибка
		BorderColor:     strp("#EEEEEE"),
		FontFamily:      strp("{{ data.theme.font }}"), // nil форматируется в пустую строку
	}
	out := r.EvaluateStyleExpressions(style, ctx)

	if *out.Color != "#00AACC" {
		t.Fatalf("color: got %q", *out.Color)
	}
	if *out.BackgroundColor != "{{ data.theme.accent > }}" {
		t.Fatalf("backgroundColor должен сохранить литерал, got %q", *out.BackgroundColor)
	}
	if *out.BorderColor != "#EEEEEE" {
		t.Fatalf("borderColor без выражений не должен меняться, got %q", *out.BorderColor)
	}
	if *out.FontFamily != "" {
		t.Fatalf("fontFamily: got %q", *out.FontFamily)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "backgroundColor") {
		t.Fatalf("ожидалось одно предупреждение про backgroundColor, got %v", warnings)
	}
	// исходный стиль не мутирован
	if *style.Color != "{{ data.theme.accent }}" {
		t.Fatalf("вход мутирован: %q", *style.Color)
	}
}

func TestEvaluateStyleExpressions_NoExpressions(t *testing.T) {
	r := NewStyleResolver(NewEvaluator())
	style := &StyleProperties{Color: strp("#123456"), FontSize: nump(10)}
	out := r.EvaluateStyleExpressions(style, NewRenderContext(nil))
	if *out.Color != "#123456" || *out.FontSize != 10 {
		t.Fatalf("литеральный стиль изменился: %+v", out)
	}
	*out.Color = "#000000"
	if *style.Color != "#123456" {
		t.Fatalf("результат разделяет память со входом")
	}
}

// Дочерний контекст несёт вычисленный стиль как унаследованный; область
// данных и переменные родителя проходят без изменений.
func TestCreateChildContext(t *testing.T) {
	r := NewStyleResolver(NewEvaluator())
	data, err := ParseData(`{"color": "#AA0000"}`)
	if err != nil {
		t.Fatal(err)
	}
	parent := NewRenderContext(data).WithVar("chapter", 3)
	node := &LayoutNode{Type: "section", Props: map[string]interface{}{
		"style": map[string]interface{}{"color": "{{ data.color }}"},
	}}

	child := r.CreateChildContext(node, parent)

	if child.Style == nil || child.Style.Color == nil || *child.Style.Color != "#AA0000" {
		t.Fatalf("унаследованный стиль ребёнка: %+v", child.Style)
	}
	if child.Vars["chapter"] != 3 {
		t.Fatalf("переменные родителя потеряны: %v", child.Vars)
	}
	m, ok := child.Data.(map[string]interface{})
	if !ok || m["color"] != "#AA0000" {
		t.Fatalf("область данных изменилась: %v", child.Data)
	}
	// родитель не затронут
	if parent.Style != nil {
		t.Fatalf("контекст родителя мутирован: %+v", parent.Style)
	}
}

// Повторное построение дочернего контекста с теми же входами даёт
// структурно равный стиль — измерительные проходы пагинации не расходятся.
func TestCreateChildContext_Repeatable(t *testing.T) {
	r := NewStyleResolver(NewEvaluator())
	parent := NewRenderContext(nil).withStyle(&StyleProperties{FontSize: nump(15)})
	node := &LayoutNode{Type: "row", Props: map[string]interface{}{
		"style": map[string]interface{}{"color": "#010101"},
	}}

	a := r.CreateChildContext(node, parent)
	b := r.CreateChildContext(node, parent)
	if *a.Style.Color != *b.Style.Color || *a.Style.FontSize != *b.Style.FontSize {
		t.Fatalf("проходы разошлись: %+v vs %+v", a.Style, b.Style)
	}
	*a.Style.Color = "#FFFFFF"
	if *b.Style.Color != "#010101" {
		t.Fatalf("контексты разделяют стиль")
	}
}

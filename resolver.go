package pdftemplar

import "log"

// -----------------------------
// Каскадное разрешение стилей
// -----------------------------

// StyleResolver вычисляет эффективный стиль узла и строит дочерний контекст.
// Резолвер не хранит состояния между вызовами: повторное разрешение с теми же
// входами даёт структурно равный, но независимый результат — движок раскладки
// может обходить поддерево несколько раз за измерительные проходы пагинации.
type StyleResolver struct {
	eval *Evaluator
	warn func(format string, args ...interface{})
}

// NewStyleResolver строит резолвер; предупреждения уходят в log.Printf.
func NewStyleResolver(eval *Evaluator) *StyleResolver {
	return NewStyleResolverWithWarn(eval, log.Printf)
}

// NewStyleResolverWithWarn позволяет хосту перенаправить предупреждения
// о невычислившихся выражениях стиля.
func NewStyleResolverWithWarn(eval *Evaluator, warn func(format string, args ...interface{})) *StyleResolver {
	if warn == nil {
		warn = log.Printf
	}
	return &StyleResolver{eval: eval, warn: warn}
}

// ResolveStyle — собственный стиль узла поверх унаследованного из контекста.
// Во всех случаях результат отвязан от входов: его можно мутировать, не
// задевая ни узел, ни контекст.
func (r *StyleResolver) ResolveStyle(node *LayoutNode, ctx *RenderContext) *StyleProperties {
	own := node.Style()
	var inherited *StyleProperties
	if ctx != nil {
		inherited = ctx.Style
	}
	switch {
	case own == nil && inherited == nil:
		return &StyleProperties{}
	case inherited == nil:
		return own.Clone()
	case own == nil:
		return inherited.Clone()
	default:
		return own.MergeOver(inherited)
	}
}

// exprStyleField — строковое поле стиля, в котором допустимы выражения.
type exprStyleField struct {
	name string
	get  func(*StyleProperties) *string
}

// Список расширяется по мере появления новых строковых полей со значениями
// из данных.
var exprStyleFields = []exprStyleField{
	{"color", func(s *StyleProperties) *string { return s.Color }},
	{"fontFamily", func(s *StyleProperties) *string { return s.FontFamily }},
	{"backgroundColor", func(s *StyleProperties) *string { return s.BackgroundColor }},
	{"borderColor", func(s *StyleProperties) *string { return s.BorderColor }},
}

func setExprStyleField(s *StyleProperties, name, v string) {
	switch name {
	case "color":
		s.Color = &v
	case "fontFamily":
		s.FontFamily = &v
	case "backgroundColor":
		s.BackgroundColor = &v
	case "borderColor":
		s.BorderColor = &v
	}
}

// EvaluateStyleExpressions вычисляет выражения в строковых полях стиля.
// Ошибка одного поля не прерывает остальные: поле сохраняет исходный литерал,
// предупреждение уходит в warn.
func (r *StyleResolver) EvaluateStyleExpressions(style *StyleProperties, ctx *RenderContext) *StyleProperties {
	out := style.Clone()
	if !styleNeedsEval(out) {
		return out
	}
	scope := ctx.BuildScope()
	for _, f := range exprStyleFields {
		p := f.get(out)
		if p == nil || !ContainsExpressions(*p) {
			continue
		}
		v, err := r.eval.EvaluateString(*p, scope)
		if err != nil {
			r.warn("⚠️ стиль %s: выражение %q не вычислено: %v", f.name, *p, err)
			continue
		}
		setExprStyleField(out, f.name, v)
	}
	return out
}

func styleNeedsEval(s *StyleProperties) bool {
	for _, f := range exprStyleFields {
		if p := f.get(s); p != nil && ContainsExpressions(*p) {
			return true
		}
	}
	return false
}

// CreateChildContext разрешает и вычисляет стиль узла и возвращает новый
// контекст, в котором этот стиль стал унаследованным для детей. Область
// данных проходит без изменений — разрешение стилей её не касается.
func (r *StyleResolver) CreateChildContext(node *LayoutNode, parent *RenderContext) *RenderContext {
	resolved := r.ResolveStyle(node, parent)
	evaluated := r.EvaluateStyleExpressions(resolved, parent)
	return parent.withStyle(evaluated)
}

// GetEffectiveTextStyle — полностью материализованный текстовый стиль узла:
// незаданные поля получают конкретные значения по умолчанию. Единственная
// операция, подставляющая дефолты, — ResolveStyle оставляет поля пустыми.
func (r *StyleResolver) GetEffectiveTextStyle(node *LayoutNode, ctx *RenderContext) TextStyleInfo {
	st := r.EvaluateStyleExpressions(r.ResolveStyle(node, ctx), ctx)
	info := TextStyleInfo{
		FontFamily: DefaultFontFamily,
		FontSize:   DefaultFontSize,
		FontWeight: DefaultFontWeight,
		FontStyle:  DefaultFontStyle,
		Color:      DefaultTextColor,
		LineHeight: DefaultLineHeight,
		TextAlign:  DefaultTextAlign,
	}
	if st.FontFamily != nil {
		info.FontFamily = *st.FontFamily
	}
	if st.FontSize != nil {
		info.FontSize = *st.FontSize
	}
	if st.FontWeight != nil {
		info.FontWeight = *st.FontWeight
	}
	if st.FontStyle != nil {
		info.FontStyle = *st.FontStyle
	}
	if st.Color != nil {
		info.Color = *st.Color
	}
	if st.LineHeight != nil {
		info.LineHeight = *st.LineHeight
	}
	if st.LetterSpacing != nil {
		info.LetterSpacing = *st.LetterSpacing
	}
	if st.TextAlign != nil {
		info.TextAlign = *st.TextAlign
	}
	return info
}

// HasStyleProperties — объявляет ли узел хотя бы одно свойство стиля.
// Рендереры пропускают обёртывание нестилизованных узлов.
func (r *StyleResolver) HasStyleProperties(node *LayoutNode) bool {
	return node.Style().HasAny()
}

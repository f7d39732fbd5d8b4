package pdftemplar

// -----------------------------
// Свойства стиля
// -----------------------------

// Значения по умолчанию для текстовых полей (см. GetEffectiveTextStyle).
const (
	DefaultFontFamily = "Helvetica"
	DefaultFontSize   = 12.0
	DefaultFontWeight = "normal"
	DefaultFontStyle  = "normal"
	DefaultTextColor  = "#000000"
	DefaultLineHeight = 1.2
	DefaultTextAlign  = "left"
)

// StyleProperties — объявленные свойства стиля узла. Любое поле может быть
// nil — «не задано, взять у предка». Разрешение каскада всегда создаёт новое
// значение: ни собственный стиль узла, ни унаследованный не мутируются
// (copy-on-merge), потому что движок раскладки может обходить одно поддерево
// несколько раз за проход пагинации.
type StyleProperties struct {
	// текстовая группа
	FontFamily     *string  `json:"fontFamily,omitempty"`
	FontSize       *float64 `json:"fontSize,omitempty"`
	FontWeight     *string  `json:"fontWeight,omitempty"`
	FontStyle      *string  `json:"fontStyle,omitempty"`
	Color          *string  `json:"color,omitempty"`
	LineHeight     *float64 `json:"lineHeight,omitempty"`
	LetterSpacing  *float64 `json:"letterSpacing,omitempty"`
	TextDecoration *string  `json:"textDecoration,omitempty"`
	TextAlign      *string  `json:"textAlign,omitempty"`

	// группа отступов
	PaddingTop    *float64 `json:"paddingTop,omitempty"`
	PaddingRight  *float64 `json:"paddingRight,omitempty"`
	PaddingBottom *float64 `json:"paddingBottom,omitempty"`
	PaddingLeft   *float64 `json:"paddingLeft,omitempty"`

	// группа рамки
	BorderColor *string  `json:"borderColor,omitempty"`
	BorderWidth *float64 `json:"borderWidth,omitempty"`
	BorderStyle *string  `json:"borderStyle,omitempty"`

	// группа оформления
	BackgroundColor *string  `json:"backgroundColor,omitempty"`
	Opacity         *float64 `json:"opacity,omitempty"`
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// pickPtr выбирает собственное значение, если оно задано, иначе унаследованное.
// Результат всегда независимая копия.
func pickPtr[T any](own, inherited *T) *T {
	if own != nil {
		return clonePtr(own)
	}
	return clonePtr(inherited)
}

// Clone возвращает глубокую копию, независимую от исходника.
func (s *StyleProperties) Clone() *StyleProperties {
	if s == nil {
		return &StyleProperties{}
	}
	return s.MergeOver(nil)
}

// MergeOver накладывает s поверх унаследованного стиля: заданные поля s
// выигрывают, nil-поля проваливаются к inherited. Оба аргумента остаются
// нетронутыми; s == nil трактуется как пустой стиль.
func (s *StyleProperties) MergeOver(inherited *StyleProperties) *StyleProperties {
	if s == nil {
		s = &StyleProperties{}
	}
	if inherited == nil {
		inherited = &StyleProperties{}
	}
	return &StyleProperties{
		FontFamily:     pickPtr(s.FontFamily, inherited.FontFamily),
		FontSize:       pickPtr(s.FontSize, inherited.FontSize),
		FontWeight:     pickPtr(s.FontWeight, inherited.FontWeight),
		FontStyle:      pickPtr(s.FontStyle, inherited.FontStyle),
		Color:          pickPtr(s.Color, inherited.Color),
		LineHeight:     pickPtr(s.LineHeight, inherited.LineHeight),
		LetterSpacing:  pickPtr(s.LetterSpacing, inherited.LetterSpacing),
		TextDecoration: pickPtr(s.TextDecoration, inherited.TextDecoration),
		TextAlign:      pickPtr(s.TextAlign, inherited.TextAlign),

		PaddingTop:    pickPtr(s.PaddingTop, inherited.PaddingTop),
		PaddingRight:  pickPtr(s.PaddingRight, inherited.PaddingRight),
		PaddingBottom: pickPtr(s.PaddingBottom, inherited.PaddingBottom),
		PaddingLeft:   pickPtr(s.PaddingLeft, inherited.PaddingLeft),

		BorderColor: pickPtr(s.BorderColor, inherited.BorderColor),
		BorderWidth: pickPtr(s.BorderWidth, inherited.BorderWidth),
		BorderStyle: pickPtr(s.BorderStyle, inherited.BorderStyle),

		BackgroundColor: pickPtr(s.BackgroundColor, inherited.BackgroundColor),
		Opacity:         pickPtr(s.Opacity, inherited.Opacity),
	}
}

// HasTextProperties — задано хотя бы одно поле текстовой группы.
func (s *StyleProperties) HasTextProperties() bool {
	if s == nil {
		return false
	}
	return s.FontFamily != nil || s.FontSize != nil || s.FontWeight != nil ||
		s.FontStyle != nil || s.Color != nil || s.LineHeight != nil ||
		s.LetterSpacing != nil || s.TextDecoration != nil || s.TextAlign != nil
}

// HasPaddingProperties — задан хотя бы один отступ.
func (s *StyleProperties) HasPaddingProperties() bool {
	if s == nil {
		return false
	}
	return s.PaddingTop != nil || s.PaddingRight != nil ||
		s.PaddingBottom != nil || s.PaddingLeft != nil
}

// HasBorderProperties — задано хотя бы одно поле рамки.
func (s *StyleProperties) HasBorderProperties() bool {
	if s == nil {
		return false
	}
	return s.BorderColor != nil || s.BorderWidth != nil || s.BorderStyle != nil
}

// HasVisualProperties — задано хотя бы одно поле оформления.
func (s *StyleProperties) HasVisualProperties() bool {
	if s == nil {
		return false
	}
	return s.BackgroundColor != nil || s.Opacity != nil
}

// HasAny — задано хотя бы одно поле любой из четырёх групп.
func (s *StyleProperties) HasAny() bool {
	return s.HasTextProperties() || s.HasPaddingProperties() ||
		s.HasBorderProperties() || s.HasVisualProperties()
}

// StyleFromMap разбирает объект стиля из property bag узла.
// Неизвестные ключи игнорируются, числа принимаются как float64 или int.
func StyleFromMap(m map[string]interface{}) *StyleProperties {
	if len(m) == 0 {
		return &StyleProperties{}
	}
	s := &StyleProperties{}
	str := func(key string) *string {
		if v, ok := m[key].(string); ok {
			return &v
		}
		return nil
	}
	num := func(key string) *float64 {
		switch v := m[key].(type) {
		case float64:
			return &v
		case int:
			f := float64(v)
			return &f
		}
		return nil
	}
	s.FontFamily = str("fontFamily")
	s.FontSize = num("fontSize")
	s.FontWeight = str("fontWeight")
	s.FontStyle = str("fontStyle")
	s.Color = str("color")
	s.LineHeight = num("lineHeight")
	s.LetterSpacing = num("letterSpacing")
	s.TextDecoration = str("textDecoration")
	s.TextAlign = str("textAlign")
	s.PaddingTop = num("paddingTop")
	s.PaddingRight = num("paddingRight")
	s.PaddingBottom = num("paddingBottom")
	s.PaddingLeft = num("paddingLeft")
	s.BorderColor = str("borderColor")
	s.BorderWidth = num("borderWidth")
	s.BorderStyle = str("borderStyle")
	s.BackgroundColor = str("backgroundColor")
	s.Opacity = num("opacity")
	return s
}

// TextStyleInfo — полностью материализованный текстовый стиль: каждое поле
// имеет конкретное значение (см. значения по умолчанию выше).
type TextStyleInfo struct {
	FontFamily    string
	FontSize      float64
	FontWeight    string
	FontStyle     string
	Color         string
	LineHeight    float64
	LetterSpacing float64
	TextAlign     string
}

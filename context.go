package pdftemplar

import "time"

// -----------------------------
// Контекст рендера
// -----------------------------

// PageInfo — метаданные текущей страницы, видимые выражениям как page.*.
type PageInfo struct {
	Number int
	Total  int
}

// DocumentInfo — метаданные документа, видимые выражениям как document.*.
type DocumentInfo struct {
	Title     string
	Author    string
	CreatedAt time.Time
}

// LoopState — переменные итерации, инжектируемые повторяющейся конструкцией
// (например, перебором строк таблицы).
type LoopState struct {
	Item        interface{}
	Index       int
	IsFirst     bool
	IsLast      bool
	RepeatIndex int
	RepeatCount int
}

// RenderContext — связка «область данных + унаследованный стиль + состояние
// цикла», протаскиваемая вниз по дереву рекурсивным обходом раскладки.
// Контекст не мутируется на месте: каждый уровень получает производную копию,
// поэтому соседние поддеревья не видят переменных друг друга.
type RenderContext struct {
	Data     interface{}
	Page     PageInfo
	Document DocumentInfo
	Style    *StyleProperties // унаследованный, уже слитый стиль предков
	Loop     *LoopState
	Vars     map[string]interface{} // дополнительные переменные хоста
}

// NewRenderContext строит корневой контекст. Вызывается движком раскладки
// один раз на документ.
func NewRenderContext(data interface{}) *RenderContext {
	return &RenderContext{
		Data: data,
		Page: PageInfo{Number: 1, Total: 1},
	}
}

// clone — производная копия с независимой картой Vars и состоянием цикла.
func (rc *RenderContext) clone() *RenderContext {
	nc := *rc
	if rc.Vars != nil {
		nc.Vars = make(map[string]interface{}, len(rc.Vars))
		for k, v := range rc.Vars {
			nc.Vars[k] = v
		}
	}
	if rc.Loop != nil {
		l := *rc.Loop
		nc.Loop = &l
	}
	return &nc
}

// WithLoop возвращает производный контекст с переменными итерации
// item/index/isFirst/isLast/repeatIndex/repeatCount.
func (rc *RenderContext) WithLoop(item interface{}, index, count int) *RenderContext {
	nc := rc.clone()
	nc.Loop = &LoopState{
		Item:        item,
		Index:       index,
		IsFirst:     index == 0,
		IsLast:      index == count-1,
		RepeatIndex: index,
		RepeatCount: count,
	}
	return nc
}

// WithVar возвращает производный контекст с дополнительной переменной,
// видимой выражениям по имени.
func (rc *RenderContext) WithVar(name string, v interface{}) *RenderContext {
	nc := rc.clone()
	if nc.Vars == nil {
		nc.Vars = make(map[string]interface{}, 1)
	}
	nc.Vars[name] = v
	return nc
}

// WithPage возвращает производный контекст с другими метаданными страницы.
func (rc *RenderContext) WithPage(page PageInfo) *RenderContext {
	nc := rc.clone()
	nc.Page = page
	return nc
}

// withStyle — производный контекст с новым унаследованным стилем;
// используется резолвером при построении дочернего контекста.
func (rc *RenderContext) withStyle(s *StyleProperties) *RenderContext {
	nc := rc.clone()
	nc.Style = s
	return nc
}

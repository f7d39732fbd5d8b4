package pdftemplar

// -----------------------------
// Область видимости выражения
// -----------------------------

// Scope — именованные переменные, видимые одному вычислению выражения.
type Scope map[string]interface{}

// BuildScope собирает область видимости из контекста рендера. Карта строится
// заново при каждом вызове и никогда не разделяется между соседними
// вычислениями: у соседних узлов разные переменные цикла.
func (rc *RenderContext) BuildScope() Scope {
	sc := make(Scope, len(rc.Vars)+12)
	sc["data"] = rc.Data
	sc["page"] = map[string]interface{}{
		"number": rc.Page.Number,
		"total":  rc.Page.Total,
	}
	sc["document"] = map[string]interface{}{
		"title":     rc.Document.Title,
		"author":    rc.Document.Author,
		"createdAt": rc.Document.CreatedAt,
	}
	// Вне цикла переменные итерации связаны значениями по умолчанию,
	// чтобы обращение к ним не падало на неизвестном идентификаторе.
	loop := rc.Loop
	if loop == nil {
		loop = &LoopState{}
	}
	sc["item"] = loop.Item
	sc["index"] = loop.Index
	sc["isFirst"] = loop.IsFirst
	sc["isLast"] = loop.IsLast
	sc["repeatIndex"] = loop.RepeatIndex
	sc["repeatCount"] = loop.RepeatCount
	for k, v := range rc.Vars {
		sc[k] = v
	}
	return sc
}

// dummyScope — синтетическая область для статической валидации: каждая
// стандартная привязка получает заглушку, реальные данные не нужны.
func dummyScope() Scope {
	rc := NewRenderContext(map[string]interface{}{})
	sc := rc.BuildScope()
	sc["item"] = map[string]interface{}{}
	return sc
}

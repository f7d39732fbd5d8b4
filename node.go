package pdftemplar

import (
	"encoding/json"
	"fmt"
)

// LayoutNode — узел JSON-описанного дерева компонентов: тег типа, мешок
// свойств и дети (контейнеры используют children, обёртки — child).
// Ядро читает из узла только стиль и сырые свойства; интерпретация типа —
// дело рендереров-коллабораторов.
type LayoutNode struct {
	Type     string                 `json:"type"`
	Props    map[string]interface{} `json:"props,omitempty"`
	Children []*LayoutNode          `json:"children,omitempty"`
	Child    *LayoutNode            `json:"child,omitempty"`
}

// ParseLayout разбирает JSON-описание дерева компонентов.
func ParseLayout(data []byte) (*LayoutNode, error) {
	var n LayoutNode
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("разбор дерева компонентов: %w", err)
	}
	return &n, nil
}

// Style извлекает объявленный стиль узла из props["style"].
// Возвращает nil, если узел стиля не объявляет.
func (n *LayoutNode) Style() *StyleProperties {
	if n == nil || n.Props == nil {
		return nil
	}
	m, ok := n.Props["style"].(map[string]interface{})
	if !ok {
		return nil
	}
	return StyleFromMap(m)
}

// PropString возвращает строковое свойство узла.
func (n *LayoutNode) PropString(key string) (string, bool) {
	if n == nil || n.Props == nil {
		return "", false
	}
	s, ok := n.Props[key].(string)
	return s, ok
}

// PropFloat возвращает числовое свойство узла (JSON несёт числа как float64).
func (n *LayoutNode) PropFloat(key string) (float64, bool) {
	if n == nil || n.Props == nil {
		return 0, false
	}
	switch v := n.Props[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// PropBool возвращает булево свойство узла.
func (n *LayoutNode) PropBool(key string) (bool, bool) {
	if n == nil || n.Props == nil {
		return false, false
	}
	b, ok := n.Props[key].(bool)
	return b, ok
}

package pdftemplar

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// -----------------------------
// Приём полезной нагрузки
// -----------------------------

// JSON вызывающей стороны превращается в динамическое значение, доступное
// выражениям как data: объекты — map[string]interface{}, массивы —
// []interface{}, числа — float64.

var fenceRx = regexp.MustCompile("(?s)```[a-zA-Z]*\\n(.*?)```")

// sanitizeJSONBlock извлекает JSON, обёрнутый в тройные кавычки ``` ... ```.
// Если кавычек нет или структура неверная, возвращает исходную строку.
func sanitizeJSONBlock(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	if m := fenceRx.FindStringSubmatch(s); len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return s
}

// ParseData декодирует JSON-нагрузку в значение области data. Пустая строка
// даёт nil без ошибки. Результат — независимая копия, выражения никогда не
// делят структуры с вызывающей стороной.
func ParseData(payload string) (interface{}, error) {
	s := strings.TrimSpace(sanitizeJSONBlock(payload))
	if s == "" {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("разбор данных: %w", err)
	}
	return v, nil
}

// DeepCopy — рекурсивная копия декодированного значения. Используется, когда
// хост собирает data из уже существующих структур и не хочет, чтобы рендер
// алиасил его память.
func DeepCopy(v interface{}) interface{} {
	switch vv := v.(type) {
	case []interface{}:
		out := make([]interface{}, len(vv))
		for i := range vv {
			out[i] = DeepCopy(vv[i])
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(vv))
		for k, val := range vv {
			out[k] = DeepCopy(val)
		}
		return out
	default:
		return vv
	}
}

package pdftemplar

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// -----------------------------
// Встроенные функции выражений
// -----------------------------

// Функции регистрируются в окружение каждого вычисления заранее — произвольного
// разрешения функций по имени в интерпретаторе нет.

var numPrinter = message.NewPrinter(language.Russian)

// builtinEnv возвращает свежую карту встроенных функций и констант.
// now/utcNow/today — значения на момент вычисления, а не функции.
func builtinEnv() map[string]interface{} {
	now := time.Now()
	return map[string]interface{}{
		"isNull": func(v interface{}) bool { return v == nil },
		"isBlank": func(v interface{}) bool {
			if v == nil {
				return true
			}
			s, ok := v.(string)
			return ok && strings.TrimSpace(s) == ""
		},
		"format": func(f string, args ...interface{}) string {
			return fmt.Sprintf(f, args...)
		},
		"round": func(x float64) float64 { return math.Round(x) },
		"floor": func(x float64) float64 { return math.Floor(x) },
		"ceil":  func(x float64) float64 { return math.Ceil(x) },
		"abs":   func(x float64) float64 { return math.Abs(x) },
		"min":   func(a, b float64) float64 { return math.Min(a, b) },
		"max":   func(a, b float64) float64 { return math.Max(a, b) },
		"currency": func(v interface{}) string {
			return numPrinter.Sprintf("%.2f", toFloat(v))
		},
		"percent": func(v interface{}) string {
			return numPrinter.Sprintf("%.1f%%", toFloat(v)*100)
		},
		"shortDate": func(v interface{}) string {
			if t, ok := toTime(v); ok {
				return t.Format("02.01.2006")
			}
			return ""
		},
		"longDate": func(v interface{}) string {
			if t, ok := toTime(v); ok {
				return fmt.Sprintf("%d %s %d", t.Day(), ruMonths[t.Month()-1], t.Year())
			}
			return ""
		},
		"now":    now,
		"utcNow": now.UTC(),
		"today":  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
	}
}

var ruMonths = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

func toFloat(v interface{}) float64 {
	switch vv := v.(type) {
	case float64:
		return vv
	case float32:
		return float64(vv)
	case int:
		return float64(vv)
	case int64:
		return float64(vv)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(vv), 64)
		return f
	default:
		return 0
	}
}

// toTime принимает time.Time либо строку в RFC3339 или "2006-01-02".
func toTime(v interface{}) (time.Time, bool) {
	switch vv := v.(type) {
	case time.Time:
		return vv, true
	case string:
		if t, err := time.Parse(time.RFC3339, vv); err == nil {
			return t, true
		}
		if t, err := time.Parse("2006-01-02", vv); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

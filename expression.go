package pdftemplar

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	expro "github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Движок выражений {{...}} для шаблонов документов.
// Поддержка:
// - подстановка в строки: "Привет, {{ data.name }}!"
// - типизированные свойства: EvaluateTyped, EvaluateCondition
// - статическая валидация шаблона без данных: ValidateExpression
// Вычисление всегда проходит через проверку безопасности (security.go).

// -----------------------------
// Извлечение выражений
// -----------------------------

// Нежадное сопоставление до ближайшей закрывающей пары; переводы строк
// внутри тела допускаются.
var rxExpr = regexp.MustCompile(`\{\{\s*([\s\S]+?)\s*\}\}`)

// ContainsExpressions — быстрый отсев статических строк: обе подстроки-скобки
// присутствуют. Порядок и парность намеренно не проверяются ("}} a {{" даёт
// true) — авторитетом остаётся EvaluateString, этот предикат только fast-path.
func ContainsExpressions(input string) bool {
	return strings.Contains(input, "{{") && strings.Contains(input, "}}")
}

// ExtractExpressions возвращает обрезанные тела всех выражений строки
// в порядке появления, без вычисления.
func ExtractExpressions(input string) []string {
	ms := rxExpr.FindAllStringSubmatch(input, -1)
	if len(ms) == 0 {
		return nil
	}
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

// -----------------------------
// Evaluator
// -----------------------------

// EvaluatorConfig — настройка движка; nil-поля получают значения по умолчанию.
type EvaluatorConfig struct {
	Security  *SecurityConfig
	CacheSize int
}

// Evaluator — потокобезопасный движок выражений. Не хранит состояния запроса:
// область видимости передаётся в каждый вызов, кэш содержит только результаты
// разбора.
type Evaluator struct {
	security *SecurityValidator
	cache    *programCache
}

// NewEvaluator строит движок с конфигурацией по умолчанию.
func NewEvaluator() *Evaluator {
	return NewEvaluatorWith(nil)
}

// NewEvaluatorWith строит движок с явной конфигурацией.
func NewEvaluatorWith(cfg *EvaluatorConfig) *Evaluator {
	var sec *SecurityConfig
	size := 0
	if cfg != nil {
		sec = cfg.Security
		size = cfg.CacheSize
	}
	return &Evaluator{
		security: NewSecurityValidator(sec),
		cache:    newProgramCache(size),
	}
}

// compile возвращает программу из кэша либо компилирует и кэширует.
// AllowUndefinedVariables: проверка типов окружения не выполняется, поэтому
// одна программа переиспользуется с любыми областями видимости.
func (e *Evaluator) compile(body string) (*vm.Program, error) {
	if p, ok := e.cache.get(body); ok {
		return p, nil
	}
	p, err := expro.Compile(body, expro.AllowUndefinedVariables())
	if err != nil {
		return nil, &SyntaxError{Expression: body, Message: err.Error(), Offset: syntaxOffset(err)}
	}
	e.cache.put(body, p)
	return p, nil
}

// evalEnv — окружение одного вычисления: встроенные функции, поверх — scope.
func evalEnv(scope Scope) map[string]interface{} {
	env := builtinEnv()
	for k, v := range scope {
		env[k] = v
	}
	return env
}

// Evaluate вычисляет тело одного выражения (без скобок {{ }}) против области
// видимости. Пустое/пробельное тело даёт nil без ошибки. Проверка
// безопасности выполняется всегда и до любой попытки разбора.
func (e *Evaluator) Evaluate(expression string, scope Scope) (interface{}, error) {
	body := strings.TrimSpace(expression)
	if body == "" {
		return nil, nil
	}
	if err := e.security.Check(body); err != nil {
		return nil, err
	}
	p, err := e.compile(body)
	if err != nil {
		return nil, err
	}
	out, err := expro.Run(p, evalEnv(scope))
	if err != nil {
		return nil, &EvalError{Expression: body, Err: err}
	}
	return out, nil
}

// TryEvaluate — нестрогий вариант Evaluate: любая ошибка превращается
// в ok=false без значения.
func (e *Evaluator) TryEvaluate(expression string, scope Scope) (interface{}, bool) {
	v, err := e.Evaluate(expression, scope)
	if err != nil {
		return nil, false
	}
	return v, true
}

// EvaluateString находит в строке все вхождения {{ ... }}, вычисляет каждое
// независимо и подставляет отформатированные результаты на место. Текст вне
// выражений проходит без изменений; ошибка любого выражения прерывает всю
// подстановку. Сборка идёт слева направо с отслеживанием позиций, поэтому
// смена длины ранних подстановок не портит смещения поздних.
func (e *Evaluator) EvaluateString(input string, scope Scope) (string, error) {
	if !ContainsExpressions(input) {
		return input, nil
	}
	ms := rxExpr.FindAllStringSubmatchIndex(input, -1)
	if len(ms) == 0 {
		return input, nil
	}
	var sb strings.Builder
	last := 0
	for _, m := range ms {
		start, end := m[0], m[1]
		es, ee := m[2], m[3]
		if start > last {
			sb.WriteString(input[last:start])
		}
		v, err := e.Evaluate(input[es:ee], scope)
		if err != nil {
			return "", err
		}
		sb.WriteString(formatValue(v))
		last = end
	}
	if last < len(input) {
		sb.WriteString(input[last:])
	}
	return sb.String(), nil
}

// TryEvaluateString — нестрогий вариант EvaluateString.
func (e *Evaluator) TryEvaluateString(input string, scope Scope) (string, bool) {
	s, err := e.EvaluateString(input, scope)
	if err != nil {
		return "", false
	}
	return s, true
}

// EvaluateCondition вычисляет выражение и приводит результат к bool
// по правилам истинности: bool как есть, число — ненулевое, строка —
// непустая, коллекция — непустая, nil — false, прочие ссылки — true.
func (e *Evaluator) EvaluateCondition(expression string, scope Scope) (bool, error) {
	v, err := e.Evaluate(expression, scope)
	if err != nil {
		return false, err
	}
	return truthy(v), nil
}

// EvaluateCollection — выделенная операция для выражений, чей результат —
// коллекция (перебор строк таблицы и т.п.). nil даёт nil; не-коллекция —
// ошибка вычисления.
func (e *Evaluator) EvaluateCollection(expression string, scope Scope) ([]interface{}, error) {
	v, err := e.Evaluate(expression, scope)
	if err != nil {
		return nil, err
	}
	switch vv := v.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		return vv, nil
	default:
		return nil, &EvalError{
			Expression: strings.TrimSpace(expression),
			Err:        fmt.Errorf("результат типа %T не является коллекцией", v),
		}
	}
}

// EvaluateTyped вычисляет выражение и приводит результат к статическому типу T.
// nil даёт нулевое значение T; несовместимый тип — *CoercionError с именами
// запрошенного и фактического типов.
func EvaluateTyped[T any](e *Evaluator, expression string, scope Scope) (T, error) {
	var zero T
	v, err := e.Evaluate(expression, scope)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	if tv, ok := v.(T); ok {
		return tv, nil
	}
	if cv, ok := coerceValue[T](v); ok {
		return cv, nil
	}
	return zero, &CoercionError{
		Expression: strings.TrimSpace(expression),
		Want:       reflect.TypeOf((*T)(nil)).Elem().String(),
		Got:        fmt.Sprintf("%T", v),
	}
}

// coerceValue — числовые расширения и сужения без потерь плюс разбор дат из
// строк; JSON приносит все числа как float64, поэтому int-свойства шаблона
// проходят через этот путь.
func coerceValue[T any](v interface{}) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case float64:
		switch n := v.(type) {
		case int:
			return any(float64(n)).(T), true
		case int64:
			return any(float64(n)).(T), true
		case float32:
			return any(float64(n)).(T), true
		}
	case int:
		switch n := v.(type) {
		case float64:
			if n == math.Trunc(n) {
				return any(int(n)).(T), true
			}
		case int64:
			return any(int(n)).(T), true
		}
	case int64:
		switch n := v.(type) {
		case float64:
			if n == math.Trunc(n) {
				return any(int64(n)).(T), true
			}
		case int:
			return any(int64(n)).(T), true
		}
	case string:
		// строкового приведения чисел нет: несоответствие должно быть видно
	case time.Time:
		if t, ok := toTime(v); ok {
			return any(t).(T), true
		}
	}
	return zero, false
}

// -----------------------------
// Статическая валидация
// -----------------------------

// ValidateExpression разбирает (но не выполняет) выражение против
// синтетической области с заглушками стандартных привязок. Ловит
// синтаксические ошибки и нарушения безопасности без реальных данных.
func (e *Evaluator) ValidateExpression(expression string) ValidationResult {
	body := strings.TrimSpace(expression)
	res := ValidationResult{OK: true, Expression: body, Offset: -1}
	if body == "" {
		return res
	}
	if err := e.security.Check(body); err != nil {
		res.OK = false
		res.Message = err.Error()
		return res
	}
	// Компиляция против заглушек строже рабочего пути: вызовы встроенных
	// функций проверяются на арность и типы, неизвестные переменные при этом
	// допускаются (хост может доложить свои через Vars).
	env := evalEnv(dummyScope())
	_, err := expro.Compile(body, expro.Env(env), expro.AllowUndefinedVariables())
	if err != nil {
		res.OK = false
		res.Message = err.Error()
		res.Offset = syntaxOffset(err)
	}
	return res
}

// ValidateExpressions валидирует каждое выражение строки по отдельности.
// Используется API-слоем для предполётной проверки шаблона.
func (e *Evaluator) ValidateExpressions(input string) []ValidationResult {
	bodies := ExtractExpressions(input)
	if len(bodies) == 0 {
		return nil
	}
	out := make([]ValidationResult, 0, len(bodies))
	for _, b := range bodies {
		out = append(out, e.ValidateExpression(b))
	}
	return out
}

// -----------------------------
// Форматирование и истинность
// -----------------------------

// formatValue — правила подстановки значения в строку.
func formatValue(v interface{}) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return vv
	case bool:
		if vv {
			return "true"
		}
		return "false"
	case time.Time:
		return vv.Format("02.01.2006 15:04")
	case float64:
		if vv == float64(int64(vv)) {
			return strconv.FormatInt(int64(vv), 10)
		}
		return strconv.FormatFloat(vv, 'g', -1, 64)
	case float32:
		return formatValue(float64(vv))
	case int:
		return strconv.Itoa(vv)
	case int64:
		return strconv.FormatInt(vv, 10)
	default:
		return fmt.Sprintf("%v", vv)
	}
}

func truthy(v interface{}) bool {
	switch vv := v.(type) {
	case nil:
		return false
	case bool:
		return vv
	case string:
		return vv != ""
	case []interface{}:
		return len(vv) > 0
	case map[string]interface{}:
		return len(vv) > 0
	case float64:
		return vv != 0
	case float32:
		return vv != 0
	case int:
		return vv != 0
	case int64:
		return vv != 0
	default:
		return true
	}
}

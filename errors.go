package pdftemplar

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr/file"
)

// Таксономия ошибок вычисления. Каждая ошибка несёт исходный текст выражения,
// чтобы автор шаблона мог найти проблемное место в своём JSON.

// SecurityError — выражение отклонено ещё до разбора: запрещённый фрагмент
// или превышение максимальной длины. Никогда не деградирует в предупреждение.
type SecurityError struct {
	Expression string
	Pattern    string // пустая строка означает превышение длины
}

func (e *SecurityError) Error() string {
	if e.Pattern == "" {
		return fmt.Sprintf("выражение %q: превышена максимальная длина", shortExpr(e.Expression))
	}
	return fmt.Sprintf("выражение %q: запрещённый фрагмент %q", shortExpr(e.Expression), e.Pattern)
}

// SyntaxError — текст выражения не разбирается. Offset — позиция символа
// в теле выражения, -1 если позиция неизвестна.
type SyntaxError struct {
	Expression string
	Message    string
	Offset     int
}

func (e *SyntaxError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("выражение %q: синтаксическая ошибка на позиции %d: %s", shortExpr(e.Expression), e.Offset, e.Message)
	}
	return fmt.Sprintf("выражение %q: синтаксическая ошибка: %s", shortExpr(e.Expression), e.Message)
}

// EvalError — разбор прошёл, но выполнение завершилось ошибкой
// (обращение к полю nil, неизвестный идентификатор и т.п.).
type EvalError struct {
	Expression string
	Err        error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("выражение %q: ошибка вычисления: %v", shortExpr(e.Expression), e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// CoercionError — результат вычисления не приводится к запрошенному типу.
type CoercionError struct {
	Expression string
	Want       string
	Got        string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("выражение %q: ожидался тип %s, получен %s", shortExpr(e.Expression), e.Want, e.Got)
}

// ValidationResult — итог статической проверки выражения без данных.
type ValidationResult struct {
	OK         bool
	Expression string
	Message    string
	Offset     int // позиция синтаксической ошибки, -1 если неизвестна
}

// syntaxOffset достаёт позицию ошибки из file.Error expr-lang, если она есть.
func syntaxOffset(err error) int {
	var fe *file.Error
	if errors.As(err, &fe) {
		return fe.From
	}
	return -1
}

// shortExpr обрезает длинные выражения в сообщениях об ошибках.
func shortExpr(s string) string {
	const max = 80
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

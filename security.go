package pdftemplar

import "strings"

// -----------------------------
// Предварительная проверка безопасности
// -----------------------------

// Проверка выполняется до любой попытки разбора и не отключается per-call.
// Второй рубеж — сам интерпретатор: выражение видит только переменные и
// функции, зарегистрированные в окружении при построении Evaluator, поэтому
// рефлексия, файловая система и процессы недостижимы в принципе. Deny-list
// здесь — ранний и настраиваемый отказ с понятным сообщением.

// DefaultMaxExpressionLength — лимит длины текста выражения (защита от DoS).
const DefaultMaxExpressionLength = 1024

// DefaultDenyList — базовый список запрещённых фрагментов. Сопоставление
// по подстроке без учёта регистра, поэтому возможны ложные срабатывания
// (например, "profile." содержит "file."); список намеренно повторяет
// поведение проверки исходной системы и расширяется через SecurityConfig.
var DefaultDenyList = []string{
	"reflect",
	"unsafe",
	"syscall",
	"typeof",
	"gettype",
	"assembly",
	"activator",
	"appdomain",
	"marshal",
	"process.",
	"environment.",
	"getenv",
	"setenv",
	"system.io",
	"file.",
	"directory.",
	"path.",
	"os.",
	"exec",
}

// SecurityConfig настраивает валидатор. Нулевые значения заменяются
// значениями по умолчанию; DenyList дополняет базовый список.
type SecurityConfig struct {
	MaxExpressionLength int
	DenyList            []string
}

// SecurityValidator — экран перед вычислением: лимит длины + deny-list.
type SecurityValidator struct {
	maxLen int
	deny   []string // нормализованы в нижний регистр
}

// NewSecurityValidator строит валидатор; nil означает конфигурацию по умолчанию.
func NewSecurityValidator(cfg *SecurityConfig) *SecurityValidator {
	maxLen := DefaultMaxExpressionLength
	var extra []string
	if cfg != nil {
		if cfg.MaxExpressionLength > 0 {
			maxLen = cfg.MaxExpressionLength
		}
		extra = cfg.DenyList
	}
	deny := make([]string, 0, len(DefaultDenyList)+len(extra))
	for _, p := range DefaultDenyList {
		deny = append(deny, strings.ToLower(p))
	}
	for _, p := range extra {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			deny = append(deny, p)
		}
	}
	return &SecurityValidator{maxLen: maxLen, deny: deny}
}

// Check возвращает *SecurityError, если текст выражения нарушает политику.
func (v *SecurityValidator) Check(expression string) error {
	if len(expression) > v.maxLen {
		return &SecurityError{Expression: expression}
	}
	lowered := strings.ToLower(expression)
	for _, p := range v.deny {
		if strings.Contains(lowered, p) {
			return &SecurityError{Expression: expression, Pattern: p}
		}
	}
	return nil
}

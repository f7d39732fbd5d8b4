package pdftemplar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/nikitaxru/pdftemplar"
)

// EvaluatorSuite — сьют тестов движка выражений.
type EvaluatorSuite struct {
	suite.Suite
	eval *pdftemplar.Evaluator
}

func (s *EvaluatorSuite) SetupTest() {
	s.eval = pdftemplar.NewEvaluator()
}

// Runner
func TestEvaluatorSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorSuite))
}

func (s *EvaluatorSuite) scopeFor(payload string) pdftemplar.Scope {
	data, err := pdftemplar.ParseData(payload)
	s.Require().NoError(err, "parse data")
	return pdftemplar.NewRenderContext(data).BuildScope()
}

// TestIdentity — строки без выражений проходят без изменений при любой области.
func (s *EvaluatorSuite) TestIdentity() {
	scope := s.scopeFor(`{"name": "Ana"}`)
	for _, in := range []string{"", "plain text", "{ not an expr }", "price: 10$"} {
		out, err := s.eval.EvaluateString(in, scope)
		s.Require().NoError(err, in)
		s.Assert().Equal(in, out, in)
	}
	// незакрытая скобка — не выражение, строка остаётся как есть
	out, err := s.eval.EvaluateString("hello {{ data.name", scope)
	s.Require().NoError(err)
	s.Assert().Equal("hello {{ data.name", out)
}

// TestSubstitution — базовая подстановка данных в текст.
func (s *EvaluatorSuite) TestSubstitution() {
	scope := s.scopeFor(`{"name": "Ana"}`)
	out, err := s.eval.EvaluateString("Hello {{ data.name }}!", scope)
	s.Require().NoError(err)
	s.Assert().Equal("Hello Ana!", out)
}

// TestAdjacentExpressions — две смежные подстановки без текста между ними.
func (s *EvaluatorSuite) TestAdjacentExpressions() {
	scope := pdftemplar.Scope{"a": "A", "b": "B"}
	out, err := s.eval.EvaluateString("{{a}}{{b}}", scope)
	s.Require().NoError(err)
	s.Assert().Equal("AB", out)

	out, err = s.eval.EvaluateString("x{{a}}y{{b}}z", scope)
	s.Require().NoError(err)
	s.Assert().Equal("xAyBz", out)
}

// TestArithmetic — арифметика над числовыми литералами.
func (s *EvaluatorSuite) TestArithmetic() {
	scope := pdftemplar.Scope{}
	cases := map[string]float64{
		"2 + 3 * 4": 14,
		"7 - 2":     5,
		"10 / 4":    2.5,
		"3 * 1.5":   4.5,
	}
	for expr, want := range cases {
		v, err := s.eval.Evaluate(expr, scope)
		s.Require().NoError(err, expr)
		s.Assert().InDelta(want, asFloat(v), 1e-9, expr)
	}
}

// TestEmptyExpression — пустое и пробельное тело дают nil без ошибки.
func (s *EvaluatorSuite) TestEmptyExpression() {
	for _, expr := range []string{"", "   ", "\n\t"} {
		v, err := s.eval.Evaluate(expr, pdftemplar.Scope{})
		s.Require().NoError(err)
		s.Assert().Nil(v)
	}
}

// TestExtract — извлечение тел выражений в порядке появления.
func (s *EvaluatorSuite) TestExtract() {
	got := pdftemplar.ExtractExpressions("{{ a }} and {{ b }}")
	s.Assert().Equal([]string{"a", "b"}, got)
	s.Assert().Nil(pdftemplar.ExtractExpressions("static"))
}

// TestContainsExpressions — наивная проверка обеих скобок, порядок не важен.
func (s *EvaluatorSuite) TestContainsExpressions() {
	s.Assert().True(pdftemplar.ContainsExpressions("{{ a }}"))
	s.Assert().True(pdftemplar.ContainsExpressions("}} foo {{"))
	s.Assert().False(pdftemplar.ContainsExpressions("{{ only open"))
	s.Assert().False(pdftemplar.ContainsExpressions("plain"))
}

// TestCondition — истинность условий по правилам приведения.
func (s *EvaluatorSuite) TestCondition() {
	scope := s.scopeFor(`{"count": 5, "empty": "", "items": [], "tags": ["x"], "name": "Ana"}`)
	truthy := []string{"data.count > 0", "data.name", "data.tags", "data.count"}
	falsy := []string{"data.empty", "data.items", "data.count - 5", "data.missing"}
	for _, expr := range truthy {
		ok, err := s.eval.EvaluateCondition(expr, scope)
		s.Require().NoError(err, expr)
		s.Assert().True(ok, expr)
	}
	for _, expr := range falsy {
		ok, err := s.eval.EvaluateCondition(expr, scope)
		s.Require().NoError(err, expr)
		s.Assert().False(ok, expr)
	}

	scope = s.scopeFor(`{"count": 0}`)
	ok, err := s.eval.EvaluateCondition("data.count > 0", scope)
	s.Require().NoError(err)
	s.Assert().False(ok)
}

// TestTyped — приведение результата к статическому типу.
func (s *EvaluatorSuite) TestTyped() {
	scope := s.scopeFor(`{"size": 14, "title": "Отчёт", "flag": true}`)

	f, err := pdftemplar.EvaluateTyped[float64](s.eval, "data.size", scope)
	s.Require().NoError(err)
	s.Assert().Equal(14.0, f)

	n, err := pdftemplar.EvaluateTyped[int](s.eval, "data.size", scope)
	s.Require().NoError(err)
	s.Assert().Equal(14, n)

	str, err := pdftemplar.EvaluateTyped[string](s.eval, "data.title", scope)
	s.Require().NoError(err)
	s.Assert().Equal("Отчёт", str)

	b, err := pdftemplar.EvaluateTyped[bool](s.eval, "data.flag", scope)
	s.Require().NoError(err)
	s.Assert().True(b)

	// nil приводится к нулевому значению
	zero, err := pdftemplar.EvaluateTyped[string](s.eval, "data.missing", scope)
	s.Require().NoError(err)
	s.Assert().Equal("", zero)

	// несовместимый тип — ошибка приведения с именами типов
	_, err = pdftemplar.EvaluateTyped[bool](s.eval, "data.title", scope)
	var ce *pdftemplar.CoercionError
	s.Require().ErrorAs(err, &ce)
	s.Assert().Equal("data.title", ce.Expression)
	s.Assert().Equal("bool", ce.Want)
	s.Assert().Equal("string", ce.Got)
}

// TestRuntimeError — обращение к полю nil даёт ошибку вычисления с текстом выражения.
func (s *EvaluatorSuite) TestRuntimeError() {
	scope := s.scopeFor(`{"customer": null}`)
	_, err := s.eval.Evaluate("data.customer.name", scope)
	var ee *pdftemplar.EvalError
	s.Require().ErrorAs(err, &ee)
	s.Assert().Equal("data.customer.name", ee.Expression)
}

// TestSecurity — запрещённый фрагмент всегда даёт SecurityError,
// даже внутри синтаксически корректного выражения.
func (s *EvaluatorSuite) TestSecurity() {
	scope := pdftemplar.Scope{}
	for _, expr := range []string{
		"reflect.ValueOf(1)",
		"data.x + os.getenv",
		"File.ReadAllText('/etc/passwd')",
	} {
		_, err := s.eval.Evaluate(expr, scope)
		var se *pdftemplar.SecurityError
		s.Require().ErrorAs(err, &se, expr)
		s.Assert().NotEmpty(se.Pattern, expr)
	}
	// ошибка в EvaluateString тоже не деградирует
	_, err := s.eval.EvaluateString("x {{ typeof(data) }} y", scope)
	var se *pdftemplar.SecurityError
	s.Require().ErrorAs(err, &se)
}

// TestValidate — статическая проверка без данных.
func (s *EvaluatorSuite) TestValidate() {
	res := s.eval.ValidateExpression("data.count > 0")
	s.Assert().True(res.OK, res.Message)

	res = s.eval.ValidateExpression("data.count >")
	s.Assert().False(res.OK)
	s.Assert().NotEmpty(res.Message)

	res = s.eval.ValidateExpression("reflect.TypeOf(1)")
	s.Assert().False(res.OK)

	all := s.eval.ValidateExpressions("{{ data.a }} / {{ data.b > }}")
	s.Require().Len(all, 2)
	s.Assert().True(all[0].OK)
	s.Assert().False(all[1].OK)
}

// TestTryVariants — нестрогие варианты молча возвращают ok=false.
func (s *EvaluatorSuite) TestTryVariants() {
	scope := s.scopeFor(`{"name": "Ana"}`)

	v, ok := s.eval.TryEvaluate("data.name", scope)
	s.Assert().True(ok)
	s.Assert().Equal("Ana", v)

	_, ok = s.eval.TryEvaluate("data.name >", scope)
	s.Assert().False(ok)

	out, ok := s.eval.TryEvaluateString("Hi {{ data.name }}", scope)
	s.Assert().True(ok)
	s.Assert().Equal("Hi Ana", out)

	_, ok = s.eval.TryEvaluateString("Hi {{ data.name > }}", scope)
	s.Assert().False(ok)
}

// TestCollection — выделенная операция для коллекций.
func (s *EvaluatorSuite) TestCollection() {
	scope := s.scopeFor(`{"items": [1, 2, 3], "count": 3}`)

	items, err := s.eval.EvaluateCollection("data.items", scope)
	s.Require().NoError(err)
	s.Assert().Len(items, 3)

	_, err = s.eval.EvaluateCollection("data.count", scope)
	var ee *pdftemplar.EvalError
	s.Require().ErrorAs(err, &ee)

	empty, err := s.eval.EvaluateCollection("data.missing", scope)
	s.Require().NoError(err)
	s.Assert().Nil(empty)
}

// TestFormatting — правила форматирования значений при подстановке в строку.
func (s *EvaluatorSuite) TestFormatting() {
	ts := time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC)
	scope := pdftemplar.Scope{
		"flag":  true,
		"none":  nil,
		"num":   2.5,
		"whole": 20.0,
		"when":  ts,
	}
	out, err := s.eval.EvaluateString("{{flag}}|{{none}}|{{num}}|{{whole}}|{{when}}", scope)
	s.Require().NoError(err)
	s.Assert().Equal("true||2.5|20|14.03.2026 15:09", out)
}

// TestLoopScope — переменные итерации видны выражениям.
func (s *EvaluatorSuite) TestLoopScope() {
	data, err := pdftemplar.ParseData(`{"rows": [{"name": "a"}, {"name": "b"}]}`)
	s.Require().NoError(err)
	root := pdftemplar.NewRenderContext(data)

	items, err := s.eval.EvaluateCollection("data.rows", root.BuildScope())
	s.Require().NoError(err)
	s.Require().Len(items, 2)

	var got []string
	for i, it := range items {
		ctx := root.WithLoop(it, i, len(items))
		out, err := s.eval.EvaluateString("{{ index }}:{{ item.name }}:{{ isFirst }}:{{ isLast }}", ctx.BuildScope())
		s.Require().NoError(err)
		got = append(got, out)
	}
	s.Assert().Equal([]string{"0:a:true:false", "1:b:false:true"}, got)
	// корневой контекст не затронут итерацией
	s.Assert().Nil(root.Loop)
}

// TestHelpers — предзарегистрированные функции доступны в выражениях.
func (s *EvaluatorSuite) TestHelpers() {
	scope := pdftemplar.Scope{"x": 2.6, "s": "  "}

	v, err := s.eval.Evaluate("round(x)", scope)
	s.Require().NoError(err)
	s.Assert().InDelta(3, asFloat(v), 1e-9)

	v, err = s.eval.Evaluate("isBlank(s)", scope)
	s.Require().NoError(err)
	s.Assert().Equal(true, v)

	v, err = s.eval.Evaluate("max(min(10.0, 4.0), 2.0)", scope)
	s.Require().NoError(err)
	s.Assert().InDelta(4, asFloat(v), 1e-9)

	out, err := s.eval.EvaluateString("{{ format('%s-%d', 'inv', 7) }}", scope)
	s.Require().NoError(err)
	s.Assert().Equal("inv-7", out)
}

func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// Package pricing считает скорректированный CPC по текущему CPC и целевому
// ROAS в процентах. Вся арифметика с фиксированной точкой.
package pricing

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces — число знаков после запятой у сохранённого CPC.
const CurrencyPlaces = 2

// Границы входных чисел. Всё, что за ними, считается не числом
// ещё до любой арифметики.
const (
	maxInputLen = 64
	maxExponent = 32
	maxDigits   = 32
)

const (
	MsgInvalidProductID  = "Invalid product ID"
	MsgInvalidCurrentCPC = "Invalid current CPC"
	MsgInvalidTargetROAS = "Invalid target ROAS"
)

var (
	ErrInvalidROAS = errors.New("target ROAS must be greater than 0")
	ErrInvalidCPC  = errors.New("current CPC must be non-negative")
)

// ValidationError содержит все сообщения Validate по полям.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid bid data: " + strings.Join(e.Messages, ", ")
}

// Validate проверяет сырые поля запроса и не останавливается на первой ошибке:
// по одному сообщению на каждое невалидное поле в порядке product ID,
// current CPC, target ROAS. Пустой результат — вход валиден.
func Validate(productID, currentCPC, targetROAS any) []string {
	errs := make([]string, 0, 3) //nolint:mnd

	if _, ok := ParseDecimal(productID); !ok {
		errs = append(errs, MsgInvalidProductID)
	}

	if cpc, ok := ParseDecimal(currentCPC); !ok || cpc.IsNegative() {
		errs = append(errs, MsgInvalidCurrentCPC)
	}

	if roas, ok := ParseDecimal(targetROAS); !ok || !roas.IsPositive() {
		errs = append(errs, MsgInvalidTargetROAS)
	}

	return errs
}

// CalculateAdjustedCPC возвращает currentCPC * targetROAS / 100 с округлением
// half up (от нуля) до CurrencyPlaces. Validate не вызывает, на вход идут уже
// разобранные значения.
func CalculateAdjustedCPC(currentCPC, targetROAS decimal.Decimal) (decimal.Decimal, error) {
	if !targetROAS.IsPositive() {
		return decimal.Zero, ErrInvalidROAS
	}

	if currentCPC.IsNegative() {
		return decimal.Zero, ErrInvalidCPC
	}

	// Деление на 100 — точный сдвиг, округление только одно, в конце.
	return currentCPC.Mul(targetROAS).Shift(-2).Round(CurrencyPlaces), nil
}

// ParseDecimal принимает JSON числа, числовые типы Go и числовые строки
// (пробелы по краям и экспонента допустимы). nil, bool, пустые строки, NaN
// и бесконечности отклоняются, как и значения больше чем с 32 значащими
// цифрами или с десятичной экспонентой за пределами ±32.
func ParseDecimal(v any) (decimal.Decimal, bool) {
	d, ok := parse(v)
	if !ok || !inRange(d) {
		return decimal.Zero, false
	}

	return d, true
}

func parse(v any) (decimal.Decimal, bool) {
	switch v := v.(type) {
	case decimal.Decimal:
		return v, true
	case json.Number:
		return parseString(v.String())
	case string:
		return parseString(v)
	case float64:
		return parseFloat(v)
	case float32:
		return parseFloat(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	default:
		return decimal.Zero, false
	}
}

func parseString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxInputLen {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

func parseFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}

	return decimal.NewFromFloat(f), true
}

func inRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < -maxExponent || exp > maxExponent {
		return false
	}

	return d.NumDigits() <= maxDigits
}

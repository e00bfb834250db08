package money

import (
	"math"
	"sort"

	"money-transfer-backend/internal/custom_err"
)

// FeeBand комиссионный диапазон: фиксированная комиссия для сумм
// до UpTo включительно (в валюте назначения)
type FeeBand struct {
	UpTo float64
	Fee  float64
}

// Rules чистые денежные правила перевода. Никаких побочных эффектов:
// одинаковый вход всегда даёт одинаковый результат.
type Rules struct {
	rate    float64
	maxAmt  float64
	bands   []FeeBand
	topFee  float64
}

func NewRules(rate, maxAmount float64, bands []FeeBand, topFee float64) *Rules {
	sorted := make([]FeeBand, len(bands))
	copy(sorted, bands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].UpTo < sorted[j].UpTo })

	return &Rules{
		rate:   rate,
		maxAmt: maxAmount,
		bands:  sorted,
		topFee: topFee,
	}
}

func (r *Rules) Rate() float64 { return r.rate }

// ValidateAmount сумма должна быть конечным числом > 0 и не больше максимума
func (r *Rules) ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return custom_err.ErrInvalidAmount
	}
	if amount <= 0 {
		return custom_err.ErrInvalidAmount
	}
	if r.maxAmt > 0 && amount > r.maxAmt {
		return custom_err.ErrInvalidAmount
	}
	return nil
}

// Convert переводит исходную сумму в валюту назначения по снятому курсу
func (r *Rules) Convert(sourceAmount float64) (float64, error) {
	if err := r.ValidateAmount(sourceAmount); err != nil {
		return 0, err
	}
	return Round2(sourceAmount * r.rate), nil
}

// TieredFee ступенчатая комиссия: диапазон покрывает (prev.UpTo, UpTo],
// граница включается в нижний диапазон. Монотонна по построению.
func (r *Rules) TieredFee(destAmount float64) float64 {
	for _, band := range r.bands {
		if destAmount <= band.UpTo {
			return band.Fee
		}
	}
	return r.topFee
}

// Total сумма к выплате: конвертированная сумма плюс комиссия
func (r *Rules) Total(destAmount, fee float64) float64 {
	return Round2(destAmount + fee)
}

// Round2 округление до 2 знаков, половина вверх
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Package money holds the decimal helpers shared by the commission engine.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNumberOfPaymentsRequired is returned whenever a per-installment amount is
// requested for a deal without a positive installment count.
var ErrNumberOfPaymentsRequired = errors.New("set number of payments before generating")

var hundred = decimal.NewFromInt(100)

// Zero is the zero amount.
var Zero = decimal.Zero

// OrZero returns the value of d, treating NULL as zero.
func OrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// Percent returns amount * pct / 100 without rounding.
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}

// Cents truncates d toward zero to whole cents.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(2)
}

// Installment returns the share of total owed on installment seq (1-based) out
// of n. Every installment but the last gets total/n truncated to the cent; the
// last one absorbs the remainder so the shares always sum to total.
func Installment(total decimal.Decimal, n, seq int) (decimal.Decimal, error) {
	if n <= 0 {
		return decimal.Zero, ErrNumberOfPaymentsRequired
	}
	if seq < 1 || seq > n {
		return decimal.Zero, fmt.Errorf("installment %d out of range 1..%d", seq, n)
	}
	share := Cents(total.Div(decimal.NewFromInt(int64(n))))
	if seq < n {
		return share, nil
	}
	return total.Sub(share.Mul(decimal.NewFromInt(int64(n - 1)))), nil
}

// Sum adds every amount.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Null wraps d as a valid NullDecimal.
func Null(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// NullEqual compares two nullable values, treating NULL as zero.
func NullEqual(a, b decimal.NullDecimal) bool {
	return OrZero(a).Equal(OrZero(b))
}

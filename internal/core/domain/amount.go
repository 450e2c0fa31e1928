package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxAmountDigits keeps every amount representable as a Decimal128.
const maxAmountDigits = 34

// Amount is a non-negative decimal magnitude. The direction of money flow
// is carried by TransactionType, never by the sign.
type Amount struct {
	d decimal.Decimal
}

// ZeroAmount is the additive identity.
var ZeroAmount = Amount{d: decimal.Zero}

// ParseAmount turns user input into an Amount. Empty, non-numeric, NaN,
// infinite and negative values are rejected with a ValidationError.
func ParseAmount(raw string) (Amount, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Amount{}, NewValidationError("amount", "amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, NewValidationError("amount", "amount must be a valid number")
	}
	if d.IsNegative() {
		return Amount{}, NewValidationError("amount", "amount must not be negative")
	}
	if d.IsZero() {
		return ZeroAmount, nil
	}
	digits := len(d.Coefficient().String())
	if digits > maxAmountDigits {
		return Amount{}, NewValidationError("amount", "amount has too many digits")
	}
	// A one-digit coefficient can still carry an exponent like 1e100000.
	exp := int(d.Exponent())
	if (exp > 0 && digits+exp > maxAmountDigits) || -exp > maxAmountDigits {
		return Amount{}, NewValidationError("amount", "amount is out of range")
	}
	return Amount{d: d}, nil
}

// AmountFromDecimal wraps a decimal read back from storage.
func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

func (a Amount) Decimal() decimal.Decimal { return a.d }

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }

// Sub may produce a negative value; it is only used for balances.
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }

func (a Amount) Cmp(b Amount) int { return a.d.Cmp(b.d) }

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

func (a Amount) IsZero() bool { return a.d.IsZero() }

func (a Amount) String() string { return a.d.String() }

// MarshalJSON renders the amount as a bare JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.String()), nil
}

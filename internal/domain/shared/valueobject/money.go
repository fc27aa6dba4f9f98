package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	USD Currency = "USD" // US Dollar (default)
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
)

// DefaultCurrency is the default currency for the store
const DefaultCurrency = USD

// Money is a value object representing a monetary amount.
// It is immutable - all operations return new Money instances.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{
		amount:   amount,
		currency: currency,
	}, nil
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// NewMoneyUSD creates Money in USD
func NewMoneyUSD(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: USD}
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Equals returns true if both Money values are equal (same amount and currency)
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// LessThan returns true if this Money is less than the other.
// Returns error if currencies don't match.
func (m Money) LessThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, fmt.Errorf("cannot compare money with different currencies: %s and %s", m.currency, other.currency)
	}
	return m.amount.LessThan(other.amount), nil
}

// Min returns the smaller of the two Money values.
// Returns error if currencies don't match.
func (m Money) Min(other Money) (Money, error) {
	less, err := m.LessThan(other)
	if err != nil {
		return Money{}, err
	}
	if less {
		return m, nil
	}
	return other, nil
}

// Sub returns the difference between this Money and the other.
// Returns error if currencies don't match.
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot subtract money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// String returns the string representation, e.g. "19.99 USD"
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.String(), m.currency)
}

// moneyJSON is the wire representation of Money
type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{
		Amount:   m.amount.String(),
		Currency: m.currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewMoneyFromString(raw.Amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer, storing the amount only.
// The currency is a store-wide setting, not a per-row column.
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan implements sql.Scanner
func (m *Money) Scan(value interface{}) error {
	if value == nil {
		*m = Zero(DefaultCurrency)
		return nil
	}
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("cannot scan %T into Money: %w", value, err)
	}
	m.amount = d
	m.currency = DefaultCurrency
	return nil
}

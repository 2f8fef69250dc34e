package promo

import (
	"errors"
	"strings"

	"github.com/noah-isme/backend-greenmart/internal/money"
)

var (
	// ErrEmptyCode is returned when the submitted code is blank after trimming.
	ErrEmptyCode = errors.New("promo: code required")
	// ErrCodeNotFound is returned when no registry entry matches the code.
	ErrCodeNotFound = errors.New("promo: code not found")
)

// Code is a discount descriptor. Percent codes take Discount percent
// off the subtotal; flat codes subtract Discount directly.
type Code struct {
	Code      string       `json:"code"`
	Discount  money.Amount `json:"discount"`
	IsPercent bool         `json:"isPercent"`
}

// Registry holds the known promotional codes.
type Registry struct {
	codes []Code
}

// NewRegistry builds a registry from the provided codes.
func NewRegistry(codes ...Code) Registry {
	return Registry{codes: append([]Code(nil), codes...)}
}

// Validate normalises raw user input and matches it against the
// registry. Matching is whitespace- and case-insensitive. Both failure
// modes are recoverable values, never panics: a blank input yields
// ErrEmptyCode, an unknown code ErrCodeNotFound.
func (r Registry) Validate(raw string) (Code, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Code{}, ErrEmptyCode
	}
	for _, c := range r.codes {
		if strings.EqualFold(c.Code, trimmed) {
			return c, nil
		}
	}
	return Code{}, ErrCodeNotFound
}

// Lookup finds a registry entry by its canonical code.
func (r Registry) Lookup(code string) (Code, bool) {
	for _, c := range r.codes {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return Code{}, false
}

// DefaultRegistry returns the storefront's standing promotional codes.
func DefaultRegistry() Registry {
	return NewRegistry(
		Code{Code: "GREEN10", Discount: money.MustParse("10"), IsPercent: true},
		Code{Code: "SAVE20", Discount: money.MustParse("20"), IsPercent: true},
		Code{Code: "FLAT15", Discount: money.MustParse("15"), IsPercent: false},
	)
}

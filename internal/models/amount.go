package models

import (
	"errors"
	"strconv"
)

// ErrInvalidAmount reports a value that is not a base-10 integer in the
// smallest currency unit.
var ErrInvalidAmount = errors.New("invalid amount: want base-10 integer in smallest unit")

// Amount is a monetary value in the smallest currency unit. All boundaries
// (API bodies, chain responses, transaction arguments) carry smallest-unit
// integers; there is no human-unit conversion anywhere in this service.
type Amount uint64

// ParseAmount parses a string-encoded smallest-unit integer, the encoding
// the chain read boundary uses for numeric results.
func ParseAmount(s string) (Amount, error) {
	if s == "" {
		return 0, ErrInvalidAmount
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return Amount(n), nil
}

// String returns the base-10 representation.
func (a Amount) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

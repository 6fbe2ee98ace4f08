package search

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidQuery = errors.New("query must be a number")

// Query is a validated numeric search value. Text keeps the trimmed input
// so captions show what the user typed.
type Query struct {
	Text  string
	Value float64
}

// ParseQuery validates raw input before any scan takes place.
func ParseQuery(text string) (Query, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Query{}, fmt.Errorf("%w: empty input", ErrInvalidQuery)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Query{}, fmt.Errorf("%w: %q", ErrInvalidQuery, s)
	}
	return Query{Text: s, Value: v}, nil
}

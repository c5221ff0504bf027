package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinQueryLength = 3
	MaxQueryLength = 200
)

var (
	ErrEmptyQuery      = errors.New("query is empty")
	ErrQueryTooShort   = fmt.Errorf("query too short (minimum %d characters)", MinQueryLength)
	ErrQueryTooLong    = fmt.Errorf("query too long (maximum %d characters)", MaxQueryLength)
	ErrNoProviders     = errors.New("no search providers configured")
	ErrEmptyCompletion = errors.New("text generation returned no content")
)

// ValidateQuery trims the topic and checks its length bounds.
func ValidateQuery(raw string) (string, error) {
	query := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(query)
	switch {
	case n == 0:
		return "", ErrEmptyQuery
	case n < MinQueryLength:
		return "", ErrQueryTooShort
	case n > MaxQueryLength:
		return "", ErrQueryTooLong
	}
	return query, nil
}

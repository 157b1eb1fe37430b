package db

import (
	"errors"
	"strings"
)

// Sentinel errors for database operations.
var (
	ErrKeyNotFound    = errors.New("db: key not found")
	ErrWrongType      = errors.New("db: value has the wrong type for this operation")
	ErrInvalidPattern = errors.New("db: scan pattern must end in a single '*' wildcard")
)

// Op constants map to Redis command names for error context.
const (
	OpPing    = "PING"
	OpDel     = "DEL"
	OpHGetAll = "HGETALL"
	OpHSet    = "HSET"
	OpExists  = "EXISTS"
	OpScan    = "SCAN"
	OpGet     = "GET"
	OpSet     = "SET"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// PatternPrefix returns the literal prefix of a "prefix*" scan pattern.
func PatternPrefix(pattern string) (string, error) {
	prefix, wildcard := strings.CutSuffix(pattern, "*")
	if !wildcard || strings.ContainsAny(prefix, "*?[") {
		return "", ErrInvalidPattern
	}
	return prefix, nil
}

package errors

import (
	"fmt"
	"strings"
)

// Pipeline stages
const (
	StageLoad      = "load"
	StageMerge     = "merge"
	StageFilter    = "filter"
	StageAggregate = "aggregate"
)

// MissingFileError is returned when a dataset file cannot be opened or read
type MissingFileError struct {
	Table string
	Path  string
	Err   error
}

func (e *MissingFileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s file %q unreadable: %v", e.Table, e.Path, e.Err)
	}
	return fmt.Sprintf("%s file %q unreadable", e.Table, e.Path)
}

func (e *MissingFileError) Unwrap() error {
	return e.Err
}

// SchemaError is returned when required columns are absent from a file header
type SchemaError struct {
	Table   string
	Path    string
	Columns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s file %q is missing required columns: %s",
		e.Table, e.Path, strings.Join(e.Columns, ", "))
}

// ParseError is returned when a cell cannot be converted to its column type
// or lies outside the documented domain of the column.
type ParseError struct {
	Table  string
	Path   string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s file %q line %d column %s: invalid value %q: %v",
		e.Table, e.Path, e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StageError names the pipeline stage a fatal error occurred in
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with the stage name. A nil err stays nil.
func NewStageError(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// EmptyResultWarning records that a stage produced no rows.
// It is carried on the result and logged, never returned as an error.
type EmptyResultWarning struct {
	Stage   string `json:"stage"`
	Table   string `json:"table"`
	Message string `json:"message"`
}

// NewEmptyResultWarning creates a warning for an empty table
func NewEmptyResultWarning(stage, table string) EmptyResultWarning {
	return EmptyResultWarning{
		Stage:   stage,
		Table:   table,
		Message: fmt.Sprintf("%s produced no %s rows", stage, table),
	}
}

func (w EmptyResultWarning) String() string {
	return w.Message
}

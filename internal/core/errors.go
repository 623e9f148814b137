package core

// errors.go defines the fatal error taxonomy of the transformation.
//
// All three kinds abort the whole run: the shell surfaces them to the
// user as an operation-failed message and produces no download. They
// carry enough position context (row number, column name) for the user
// to find the offending cell in the source worksheet.

import "fmt"

// ParseError reports an Age cell that is neither a single integer nor
// an integer-hyphen-integer range.
type ParseError struct {
	Row   int    // 1-based data row number (header excluded)
	Value string // offending cell content
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: invalid age %q: %s", e.Row, e.Value, e.Msg)
}

// TypeError reports a premium cell that is non-blank but not numeric.
type TypeError struct {
	Row    int
	Option string // deductible option column header
	Value  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("row %d, option %q: invalid premium %q", e.Row, e.Option, e.Value)
}

// SchemaError reports an input table whose shape cannot be processed:
// the Age column is missing or not first, or there are no deductible
// option columns at all.
type SchemaError struct {
	Msg string
}

func (e *SchemaError) Error() string {
	return "invalid input schema: " + e.Msg
}

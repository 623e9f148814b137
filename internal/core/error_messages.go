package core

// error_messages.go maps technical errors to user-friendly messages
// with support codes. When a transformation fails, the user can quote
// the code to support staff for faster diagnosis.
//
// Code groups:
//
//	AGE001         - unparseable Age cell
//	PRM001         - non-numeric premium cell
//	SCH001         - unusable input schema
//	FILE001-FILE004 - upload / workbook decoding problems
//	TRF001-TRF003  - transformation session problems (busy, cancelled, timeout)
//	SYS001         - anything unrecognized

import (
	"errors"
	"strings"
)

// UserMessage is a user-friendly error with an optional action suggestion.
type UserMessage struct {
	Message string // What happened, in plain language
	Action  string // What the user can do about it
	Code    string // Support reference code
}

// errorPattern maps an error substring to a user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is checked in order; first match wins.
var errorPatterns = []errorPattern{
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Remove unused sheets or split the worksheet",
			Code:    "FILE001",
		},
	},
	{
		pattern: "not a valid xlsx",
		msg: UserMessage{
			Message: "File is not a valid Excel workbook",
			Action:  "Save the file as .xlsx and upload it again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please choose an Input.xlsx file to upload",
			Code:    "FILE003",
		},
	},
	{
		pattern: "empty worksheet",
		msg: UserMessage{
			Message: "The uploaded worksheet has no data rows",
			Action:  "Upload a sheet with a header row and at least one age row",
			Code:    "FILE004",
		},
	},
	{
		pattern: "too many concurrent transformations",
		msg: UserMessage{
			Message: "System is busy processing other files",
			Action:  "Please wait a moment and try again",
			Code:    "TRF001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "TRF002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "TRF003",
		},
	},
}

// MapError converts a technical error into a user-friendly message.
// Typed domain errors are matched first; everything else falls back to
// substring patterns and finally a generic message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{Message: "Operation completed", Code: "OK"}
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return UserMessage{
			Message: "An Age cell could not be read: " + parseErr.Error(),
			Action:  "Ages must be a whole number (34) or a range (18-23)",
			Code:    "AGE001",
		}
	}

	var typeErr *TypeError
	if errors.As(err, &typeErr) {
		return UserMessage{
			Message: "A premium cell is not a number: " + typeErr.Error(),
			Action:  "Premium cells must be numeric or left blank",
			Code:    "PRM001",
		}
	}

	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return UserMessage{
			Message: schemaErr.Error(),
			Action:  "The sheet needs Age as its first column plus one column per deductible option",
			Code:    "SCH001",
		}
	}

	lower := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(lower, p.pattern) {
			return p.msg
		}
	}

	return UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Please try again or contact support",
		Code:    "SYS001",
	}
}

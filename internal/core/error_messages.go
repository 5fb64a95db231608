package core

// error_messages.go defines user-friendly error messages with codes for
// support reference. When users encounter errors, they can quote the error
// code to support staff for faster diagnosis.
//
// Error codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
// Errors related to file handling and parsing:
//
//	FILE001 - Unsupported format: File is not CSV or Excel
//	          Action: Upload a .csv, .xls, or .xlsx file
//
//	FILE002 - Parse error: File could not be parsed
//	          Action: Re-export the file and try again
//
//	FILE003 - Empty result: No usable data rows in the file
//	          Action: Check that the file has a header and complete rows
//
//	FILE004 - No file: No file was selected
//	          Action: Please select a file to upload
//
// # Validation Errors (VAL001-VAL099)
//
// Errors related to filter and axis validation:
//
//	VAL001 - Missing column: The status column is absent or not categorical
//	         Action: Pick a categorical column present in the file
//
//	VAL002 - Invalid range: Requested axis bounds are empty after clamping
//	         Action: Ensure the minimum does not exceed the maximum
//
//	VAL003 - No numeric columns: No numeric column can back a chart axis
//	         Action: Upload a file with at least one numeric column
//
// # Dataset Errors (DS001-DS099)
//
// Errors related to dataset sessions:
//
//	DS001 - Not found: Dataset does not exist or has expired
//	        Action: Upload the file again
//
//	DS002 - At capacity: Too many active datasets
//	        Action: Delete an existing dataset or try again later
//
// Fallback when no kind or pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// kindMessages maps each pipeline error kind to its user message.
// The typed kind is authoritative; pattern matching below only covers
// errors that did not originate in the pipeline.
var kindMessages = map[ErrorKind]UserMessage{
	KindUnsupportedFormat: {
		Message: "This file type is not supported",
		Action:  "Upload a .csv, .xls, or .xlsx file",
		Code:    "FILE001",
	},
	KindParse: {
		Message: "The file could not be parsed",
		Action:  "Re-export the file and try again",
		Code:    "FILE002",
	},
	KindEmptyResult: {
		Message: "The file has no usable data rows",
		Action:  "Check that the file has a header and complete rows",
		Code:    "FILE003",
	},
	KindMissingColumn: {
		Message: "The status column is missing or not categorical",
		Action:  "Pick a categorical column present in the file",
		Code:    "VAL001",
	},
	KindInvalidRange: {
		Message: "The requested axis range is empty",
		Action:  "Ensure the minimum does not exceed the maximum",
		Code:    "VAL002",
	},
	KindNoNumericColumns: {
		Message: "No numeric column is available for a chart axis",
		Action:  "Upload a file with at least one numeric column",
		Code:    "VAL003",
	},
	KindDatasetNotFound: {
		Message: "The dataset does not exist or has expired",
		Action:  "Upload the file again",
		Code:    "DS001",
	},
	KindTooManyDatasets: {
		Message: "Too many active datasets",
		Action:  "Delete an existing dataset or try again later",
		Code:    "DS002",
	},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error strings (case-insensitive) to user
// messages for errors that carry no pipeline kind. Matched with
// strings.Contains; the first matching pattern wins.
var errorPatterns = []errorPattern{
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The file exceeds the upload size limit",
			Action:  "Upload a smaller file",
			Code:    "FILE005",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "REQ002",
		},
	},
}

// defaultMessage is the fallback for unrecognized errors.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error into a user-friendly message.
// Pipeline errors map by kind; everything else falls back to pattern
// matching, then to the generic ERR000 message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if kind, ok := KindOf(err); ok {
		if msg, ok := kindMessages[kind]; ok {
			return msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error maps to a specific message and should be
// shown to users as-is (not the generic ERR000 fallback).
func IsUserFacing(err error) bool {
	return MapError(err).Code != defaultMessage.Code
}

package common

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/signloop/constants"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")

	// ErrEmptyResponse means the provider answered but the first choice had no content.
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrNoUsableText is the caller-level verdict for an extraction with nothing to analyze.
	ErrNoUsableText = errors.New("no usable text extracted")
)

// Error codes, stable for logs and API payloads.
const (
	CodeConfig               = "CONFIG_ERROR"
	CodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	CodeExtractionFailure    = "EXTRACTION_FAILURE"
	CodeNoUsableText         = "NO_USABLE_TEXT"
	CodeProviderError        = "PROVIDER_ERROR"
	CodeEmptyResponse        = "EMPTY_RESPONSE"
	CodeUnparsableResponse   = "UNPARSABLE_RESPONSE"
	CodeSchemaValidation     = "SCHEMA_VALIDATION_FAILURE"
	CodeInternal             = "INTERNAL"
)

// UnsupportedMediaTypeError rejects a declared content type outside the whitelist.
type UnsupportedMediaTypeError struct {
	MimeType string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("file type %s is not supported. Allowed types: %s",
		e.MimeType, strings.Join(constants.AllowedMimeTypes, ", "))
}

// ExtractionError is a failed extraction strategy, tagged with the method attempted.
type ExtractionError struct {
	Method constants.ExtractionMethod
	Cause  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed (%s): %v", e.Method, e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// ProviderError is a transport or API level failure talking to the LLM provider.
type ProviderError struct {
	Provider string
	Cause    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Cause)
}

func (e *ProviderError) Unwrap() error { return e.Cause }

// UnparsableResponseError carries the raw model output when no JSON could be recovered.
type UnparsableResponseError struct {
	RawText string
	Cause   error
}

func (e *UnparsableResponseError) Error() string {
	return fmt.Sprintf("failed to parse JSON from model response (%d bytes): %v", len(e.RawText), e.Cause)
}

func (e *UnparsableResponseError) Unwrap() error { return e.Cause }

// SchemaValidationError keeps the offending parsed value for diagnostics.
type SchemaValidationError struct {
	Value any
	Cause error
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("LLM response failed validation: %v", e.Cause)
}

func (e *SchemaValidationError) Unwrap() error { return e.Cause }

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Code returns the stable code for any error produced by this module.
func Code(err error) string {
	var (
		umt *UnsupportedMediaTypeError
		ext *ExtractionError
		prv *ProviderError
		unp *UnparsableResponseError
		sch *SchemaValidationError
		app *AppError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &umt):
		return CodeUnsupportedMediaType
	case errors.Is(err, ErrNoUsableText):
		return CodeNoUsableText
	case errors.As(err, &ext):
		return CodeExtractionFailure
	case errors.Is(err, ErrEmptyResponse):
		return CodeEmptyResponse
	case errors.As(err, &prv):
		return CodeProviderError
	case errors.As(err, &unp):
		return CodeUnparsableResponse
	case errors.As(err, &sch):
		return CodeSchemaValidation
	case errors.As(err, &app):
		return app.Code
	default:
		return CodeInternal
	}
}

// ToStatus converts an error into a gRPC status error for RPC-facing callers.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	var c codes.Code
	switch Code(err) {
	case CodeUnsupportedMediaType, CodeConfig:
		c = codes.InvalidArgument
	case CodeNoUsableText:
		c = codes.FailedPrecondition
	case CodeProviderError, CodeEmptyResponse:
		c = codes.Unavailable
	case CodeUnparsableResponse, CodeSchemaValidation:
		c = codes.DataLoss
	default:
		c = codes.Internal
	}
	return status.Error(c, err.Error())
}

package common

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/signloop/constants"
)

func TestCode(t *testing.T) {
	cause := errors.New("cause")
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"media", &UnsupportedMediaTypeError{MimeType: "application/zip"}, CodeUnsupportedMediaType},
		{"extraction", &ExtractionError{Method: constants.MethodImageOCR, Cause: cause}, CodeExtractionFailure},
		{"no text wrapped", fmt.Errorf("%w (method IMAGE_OCR)", ErrNoUsableText), CodeNoUsableText},
		{"provider", &ProviderError{Provider: "openrouter", Cause: cause}, CodeProviderError},
		{"empty", ErrEmptyResponse, CodeEmptyResponse},
		{"unparsable", &UnparsableResponseError{RawText: "nope", Cause: cause}, CodeUnparsableResponse},
		{"schema", &SchemaValidationError{Value: 1, Cause: cause}, CodeSchemaValidation},
		{"app", NewAppError(CodeConfig, "bad", nil), CodeConfig},
		{"other", cause, CodeInternal},
	}
	for _, tc := range cases {
		if got := Code(tc.err); got != tc.want {
			t.Errorf("%s: Code = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("pdftotext: exit 1")
	err := fmt.Errorf("extract: %w", &ExtractionError{Method: constants.MethodDirectParse, Cause: cause})
	if !errors.Is(err, cause) {
		t.Error("cause lost through ExtractionError")
	}
	var ee *ExtractionError
	if !errors.As(err, &ee) || ee.Method != constants.MethodDirectParse {
		t.Errorf("method not kept: %+v", ee)
	}
}

func TestToStatus(t *testing.T) {
	if ToStatus(nil) != nil {
		t.Fatal("nil error should map to nil")
	}
	cases := map[error]codes.Code{
		&UnsupportedMediaTypeError{MimeType: "x"}:          codes.InvalidArgument,
		ErrNoUsableText:                                    codes.FailedPrecondition,
		ErrEmptyResponse:                                   codes.Unavailable,
		&SchemaValidationError{Cause: errors.New("range")}: codes.DataLoss,
		errors.New("boom"):                                 codes.Internal,
	}
	for err, want := range cases {
		st, ok := status.FromError(ToStatus(err))
		if !ok || st.Code() != want {
			t.Errorf("ToStatus(%v) = %v, want %v", err, st.Code(), want)
		}
	}
}

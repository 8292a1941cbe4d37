package extract

import (
	"net/http"
	"path/filepath"
	"slices"

	"github.com/joseph-ayodele/signloop/constants"
	"github.com/joseph-ayodele/signloop/internal/common"
)

// ValidateMimeType fails fast with UnsupportedMediaTypeError for anything off the whitelist.
// The comparison is exact: callers must pass the bare type without parameters.
func ValidateMimeType(mimeType string) error {
	if !slices.Contains(constants.AllowedMimeTypes, mimeType) {
		return &common.UnsupportedMediaTypeError{MimeType: mimeType}
	}
	return nil
}

// DetectMimeType resolves a declared type for a local file: extension first,
// then content sniffing over the first bytes.
func DetectMimeType(path string, head []byte) string {
	if mt := constants.MimeFromExt(filepath.Ext(path)); mt != "" {
		return mt
	}
	if len(head) == 0 {
		return ""
	}
	return constants.BaseMime(http.DetectContentType(head))
}

package constants

import (
	"mime"
	"strings"
)

// MIME types accepted for text extraction.
const (
	MimePDF       = "application/pdf"
	MimeJPEG      = "image/jpeg"
	MimePNG       = "image/png"
	MimeGIF       = "image/gif"
	MimeWEBP      = "image/webp"
	MimeTIFF      = "image/tiff"
	MimePlainText = "text/plain"
)

// AllowedMimeTypes is the upload whitelist, in display order.
var AllowedMimeTypes = []string{
	MimePDF,
	MimeJPEG,
	MimePNG,
	MimeGIF,
	MimeWEBP,
	MimeTIFF,
	MimePlainText,
}

// extToMime is used when a caller has a path but no declared content type.
var extToMime = map[string]string{
	"pdf":  MimePDF,
	"jpg":  MimeJPEG,
	"jpeg": MimeJPEG,
	"png":  MimePNG,
	"gif":  MimeGIF,
	"webp": MimeWEBP,
	"tif":  MimeTIFF,
	"tiff": MimeTIFF,
	"txt":  MimePlainText,
	"text": MimePlainText,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MimeFromExt maps a file extension to a MIME type, or "" when unknown.
func MimeFromExt(ext string) string {
	return extToMime[NormalizeExt(ext)]
}

// BaseMime strips parameters ("text/plain; charset=utf-8" -> "text/plain") and lowercases.
func BaseMime(s string) string {
	if mt, _, err := mime.ParseMediaType(s); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// IsImageMime reports whether the type belongs to the image/* family.
func IsImageMime(s string) bool {
	return strings.HasPrefix(s, "image/")
}

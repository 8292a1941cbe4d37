package constants

// ExtractionMethod records which strategy produced an extraction's text.
type ExtractionMethod string

// Stable values (persist these exact strings).
const (
	MethodDirectParse     ExtractionMethod = "DIRECT_PARSE"     // pdf text layer or plain text
	MethodScannedFallback ExtractionMethod = "SCANNED_FALLBACK" // pdf with too little text to trust
	MethodImageOCR        ExtractionMethod = "IMAGE_OCR"        // tesseract over an image upload
)

// ScannedPDFSentinel is returned as text when a scanned pdf yields nothing at all.
const ScannedPDFSentinel = "[OCR required - scanned PDF detected]"

// ValidationTier tells which schema accepted a model response.
type ValidationTier string

const (
	TierStrict  ValidationTier = "strict"
	TierLenient ValidationTier = "lenient"
)

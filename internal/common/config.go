package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	LLM LLMConfig
	OCR OCRConfig
	Log LogConfig

	// AnalyzeTimeout is a caller-side deadline around extract+analyze. 0 = none.
	AnalyzeTimeout time.Duration
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Provider string // "openrouter" | "gemini"

	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModel   string
	AppURL            string
	AppName           string

	GoogleAPIKey  string
	GeminiBaseURL string // empty keeps the SDK endpoint
	GeminiModel   string
}

// OCRConfig holds OCR and PDF-related configuration
type OCRConfig struct {
	Tesseract     string
	TessdataDir   string
	Lang          string
	PDFEngine     string // "native" | "pdftotext"
	Pdftotext     string
	Pdftoppm      string
	DPI           int
	MaxPages      int
	ScannedPDFOCR bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"

	PDFEngineNative    = "native"
	PDFEnginePdftotext = "pdftotext"

	DefaultOpenRouterModel = "xiaomi/mimo-v2-flash:free"
	DefaultGeminiModel     = "gemini-2.5-flash"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:          strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenRouter)),
			OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
			OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			OpenRouterModel:   getEnv("OPENROUTER_MODEL", DefaultOpenRouterModel),
			AppURL:            getEnv("APP_URL", "http://localhost:3000"),
			AppName:           getEnv("APP_NAME", "SignLoop"),
			GoogleAPIKey:      getEnv("GOOGLE_API_KEY", ""),
			GeminiBaseURL:     getEnv("GEMINI_BASE_URL", ""),
			GeminiModel:       getEnv("GEMINI_MODEL", DefaultGeminiModel),
		},
		OCR: OCRConfig{
			Tesseract:     getEnv("TESSERACT", "tesseract"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			Lang:          getEnv("OCR_LANG", "eng"),
			PDFEngine:     strings.ToLower(getEnv("PDF_ENGINE", PDFEngineNative)),
			Pdftotext:     getEnv("PDFTOTEXT", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM", "pdftoppm"),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
			ScannedPDFOCR: getEnvAsBool("SCANNED_PDF_OCR", false),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		AnalyzeTimeout: getEnvAsDuration("ANALYZE_TIMEOUT", 0),
	}
}

// Model returns the configured model for the active provider.
func (c LLMConfig) Model() string {
	if c.Provider == ProviderGemini {
		return c.GeminiModel
	}
	return c.OpenRouterModel
}

// SlogLevel maps the configured level name onto slog.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateForAnalysis checks what the analyze path needs: a known provider with its key.
func (c *Config) ValidateForAnalysis() error {
	v := NewValidator()
	v.Field("LLM_PROVIDER", c.LLM.Provider, OneOf(ProviderOpenRouter, ProviderGemini))
	switch c.LLM.Provider {
	case ProviderOpenRouter:
		v.Field("OPENROUTER_API_KEY", c.LLM.OpenRouterAPIKey, Required)
		v.Field("OPENROUTER_MODEL", c.LLM.OpenRouterModel, Required)
	case ProviderGemini:
		v.Field("GOOGLE_API_KEY", c.LLM.GoogleAPIKey, Required)
	}
	if err := v.Error(); err != nil {
		return NewAppError(CodeConfig, "invalid llm configuration", err)
	}
	return c.ValidateForExtraction()
}

// ValidateForExtraction checks the OCR/PDF settings.
func (c *Config) ValidateForExtraction() error {
	v := NewValidator()
	v.Field("PDF_ENGINE", c.OCR.PDFEngine, OneOf(PDFEngineNative, PDFEnginePdftotext))
	v.Field("TESSERACT", c.OCR.Tesseract, Required)
	v.Field("OCR_LANG", c.OCR.Lang, Required)
	if err := v.Error(); err != nil {
		return NewAppError(CodeConfig, "invalid ocr configuration", err)
	}
	return nil
}

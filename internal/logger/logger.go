package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	cblog "github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a new Logger instance writing JSON events to eventLogFile.
func New(eventLogFile, model string, l *cblog.Logger) (*Logger, error) {
	eventLogger := cblog.NewWithOptions(nil, cblog.Options{Formatter: cblog.JSONFormatter, TimeFormat: time.RFC3339Nano})
	evFile, err := os.OpenFile(eventLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	eventLogger.SetOutput(evFile)

	return &Logger{
		EventLogger: eventLogger,
		EventFile:   evFile,
		Model:       model,
		Logger:      l,
	}, nil
}

// NewDocumentInfo builds the event identity for a document: a fresh UUID
// plus the file name, size, and content hash.
func NewDocumentInfo(path string, data []byte) DocumentInfo {
	sum := sha256.Sum256(data)
	return DocumentInfo{
		DocumentID: uuid.NewString(),
		FileName:   filepath.Base(path),
		FileSize:   int64(len(data)),
		Sha256:     hex.EncodeToString(sum[:]),
	}
}

// LogEvent logs a successfulExtraction event.
func (l *Logger) LogEvent(doc DocumentInfo, resultSize int, source string, duration time.Duration) {
	meta := ResultMetadata{Source: source}
	if source == "llm" {
		meta.Info = LLMInfo{Model: l.Model}
	}

	l.EventLogger.Info("successfulExtraction",
		"document", doc,
		"resultMetadata", meta,
		"resultSize", resultSize,
		"durationMs", duration.Milliseconds(),
	)
}

// LogError logs a failedExtraction event.
func (l *Logger) LogError(doc DocumentInfo, err error, duration time.Duration) {
	l.EventLogger.Error("failedExtraction",
		"document", doc,
		"resultMetadata", ResultMetadata{Info: LLMInfo{Model: l.Model}},
		"error", err.Error(),
		"durationMs", duration.Milliseconds(),
	)
}

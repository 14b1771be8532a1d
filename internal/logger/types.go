package logger

import (
	"os"

	cblog "github.com/charmbracelet/log"
)

// Logger contains the components for event logging.
type Logger struct {
	EventLogger *cblog.Logger
	EventFile   *os.File
	Model       string
	Logger      *cblog.Logger
}

// DocumentInfo identifies the document a processing event refers to.
type DocumentInfo struct {
	DocumentID string `json:"documentID"`
	FileName   string `json:"fileName"`
	FileSize   int64  `json:"fileSize"`
	Sha256     string `json:"sha256"`
}

// ResultMetadata holds metadata about the produced extraction result.
type ResultMetadata struct {
	Source string  `json:"source"`
	Info   LLMInfo `json:"info,omitempty"`
}

// LLMInfo holds information about the model used for extraction.
type LLMInfo struct {
	Model string `json:"model,omitempty"`
}

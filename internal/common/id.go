package common

import (
	"github.com/google/uuid"
)

// NewDocumentID generates a unique document ID with the "doc_" prefix
// Format: doc_<uuid>
func NewDocumentID() string {
	return "doc_" + uuid.New().String()
}

// NewSessionID generates a unique conversation session ID
// Format: sess_<uuid>
func NewSessionID() string {
	return "sess_" + uuid.New().String()
}

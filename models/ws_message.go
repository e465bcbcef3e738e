package models

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Tipi di eventi inviati ai client WebSocket
const (
	WSSessionLoaded  = "session_loaded"
	WSSessionClosed  = "session_closed"
	WSArchiveSaved   = "archive_saved"
	WSArchiveDeleted = "archive_deleted"
)

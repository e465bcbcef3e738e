package models

// SavedArchive represents a persisted chat export archive
type SavedArchive struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	SavedAt      int64    `json:"savedAt"`
	MessageCount int      `json:"messageCount"`
	Participants []string `json:"participants"`
	RawBytes     []byte   `json:"-"`
}

package models

// MediaType is the semantic type of an attachment, derived from its filename.
type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaAudio    MediaType = "audio"
	MediaSticker  MediaType = "sticker"
	MediaDocument MediaType = "document"
)

// Attachment represents a binary payload referenced by a message
type Attachment struct {
	Name           string    `json:"name"`
	Type           MediaType `json:"type"`
	Size           int64     `json:"size"`
	PayloadToken   string    `json:"payloadToken"`
	ThumbnailToken string    `json:"thumbnailToken,omitempty"`
}

// Message represents a parsed transcript entry
type Message struct {
	Date       string      `json:"date"`
	Time       string      `json:"time"`
	Sender     string      `json:"sender"`
	Text       string      `json:"text"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

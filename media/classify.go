package media

import (
	"path"
	"strings"

	"whatsapp-archive-viewer/models"
)

// Classify determina il tipo di media di un allegato a partire dal nome del
// file. Il controllo sull'estensione ha la precedenza sul controllo della
// sottostringa "sticker": un file "IMG-sticker.webp" è un'immagine.
func Classify(filename string) models.MediaType {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))

	switch ext {
	case "jpg", "jpeg", "png", "gif", "webp":
		return models.MediaImage
	case "mp4", "avi", "mov", "webm", "mkv":
		return models.MediaVideo
	case "mp3", "wav", "ogg", "m4a":
		return models.MediaAudio
	}

	if strings.Contains(strings.ToLower(filename), "sticker") {
		return models.MediaSticker
	}

	return models.MediaDocument
}

// HasThumbnail indica se per il tipo di media viene generata un'anteprima
func HasThumbnail(t models.MediaType) bool {
	return t == models.MediaImage || t == models.MediaSticker || t == models.MediaVideo
}

package viewer

import (
	"whatsapp-archive-viewer/media"
	"whatsapp-archive-viewer/models"
	"whatsapp-archive-viewer/virtlist"
)

// Session è lo stato in memoria derivato dal parse riuscito di un archivio.
// Resta attiva finché non viene sostituita o chiusa; a quel punto l'arena
// dei payload viene rilasciata.
type Session struct {
	ArchiveID    string
	Name         string
	Messages     []models.Message
	Participants []string
	Layout       *virtlist.Layout

	arena *media.Arena
}

// Media restituisce il payload associato a un token dell'arena di sessione
func (s *Session) Media(token string) ([]byte, bool) {
	return s.arena.Get(token)
}

func (s *Session) release() {
	s.arena.Release()
}

// SessionInfo è il riepilogo della sessione attiva esposto alle API
type SessionInfo struct {
	ArchiveID    string   `json:"archiveId"`
	Name         string   `json:"name"`
	MessageCount int      `json:"messageCount"`
	Participants []string `json:"participants"`
}

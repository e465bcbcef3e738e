package handlers

import (
	"context"

	"whatsapp-archive-viewer/models"
	"whatsapp-archive-viewer/viewer"
)

// Controller è un'interfaccia che definisce le operazioni richieste dalle
// rotte API
type Controller interface {
	LoadArchive(ctx context.Context, data []byte, name string) (*viewer.LoadResult, error)
	OpenArchive(ctx context.Context, id string) error
	CloseSession()
	SessionInfo() (*viewer.SessionInfo, bool)
	Messages(offset, limit int) ([]models.Message, int, error)
	Media(token string) ([]byte, bool)
	SavedArchives() ([]*models.SavedArchive, error)
	DeleteArchive(id string) error
	Search(term string) []int
	NextResult() (int, bool)
	PrevResult() (int, bool)
	CurrentResult() (int, bool)
	SetRowHeights(rows []viewer.RowHeight) error
	Window(scrollTop, viewport int) (start, end int, err error)
	TotalHeight() (int, error)
	ScrollTo(index, viewport int, center bool) (int, error)
	SelfName() (string, error)
	SetSelfName(name string) error
}

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"whatsapp-archive-viewer/models"
	"whatsapp-archive-viewer/viewer"
)

// stubController fornisce alle rotte una sessione fissa
type stubController struct {
	info *viewer.SessionInfo
}

func (s *stubController) LoadArchive(ctx context.Context, data []byte, name string) (*viewer.LoadResult, error) {
	return nil, viewer.ErrNoSession
}
func (s *stubController) OpenArchive(ctx context.Context, id string) error { return nil }
func (s *stubController) CloseSession()                                    {}
func (s *stubController) SessionInfo() (*viewer.SessionInfo, bool) {
	return s.info, s.info != nil
}
func (s *stubController) Messages(offset, limit int) ([]models.Message, int, error) {
	return nil, 0, viewer.ErrNoSession
}
func (s *stubController) Media(token string) ([]byte, bool)               { return nil, false }
func (s *stubController) SavedArchives() ([]*models.SavedArchive, error)  { return nil, nil }
func (s *stubController) DeleteArchive(id string) error                   { return nil }
func (s *stubController) Search(term string) []int                        { return nil }
func (s *stubController) NextResult() (int, bool)                         { return 0, false }
func (s *stubController) PrevResult() (int, bool)                         { return 0, false }
func (s *stubController) CurrentResult() (int, bool)                      { return 0, false }
func (s *stubController) SetRowHeights(rows []viewer.RowHeight) error     { return viewer.ErrNoSession }
func (s *stubController) Window(scrollTop, viewport int) (int, int, error) {
	return 0, 0, viewer.ErrNoSession
}
func (s *stubController) TotalHeight() (int, error) { return 0, viewer.ErrNoSession }
func (s *stubController) ScrollTo(index, viewport int, center bool) (int, error) {
	return 0, viewer.ErrNoSession
}
func (s *stubController) SelfName() (string, error)    { return "", nil }
func (s *stubController) SetSelfName(name string) error { return nil }

func TestWebSocketSendsInitialSessionAndBroadcasts(t *testing.T) {
	ctrl := &stubController{info: &viewer.SessionInfo{
		ArchiveID:    "arch-1",
		Name:         "Chat di famiglia",
		MessageCount: 3,
	}}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleWebSocket(w, r, ctrl)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("connessione WebSocket: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	// La sessione attiva arriva subito, senza attendere eventi
	var first models.WSMessage
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("lettura stato iniziale: %v", err)
	}
	if first.Type != models.WSSessionLoaded {
		t.Fatalf("tipo atteso %q, ottenuto %q", models.WSSessionLoaded, first.Type)
	}
	payload, ok := first.Payload.(map[string]interface{})
	if !ok || payload["archiveId"] != "arch-1" {
		t.Errorf("payload iniziale inatteso: %v", first.Payload)
	}

	// La ricezione dello stato iniziale garantisce che il client sia
	// registrato: la broadcast successiva deve raggiungerlo
	BroadcastToClients(models.WSArchiveDeleted, map[string]string{"archiveId": "arch-1"})

	var second models.WSMessage
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("lettura broadcast: %v", err)
	}
	if second.Type != models.WSArchiveDeleted {
		t.Errorf("tipo atteso %q, ottenuto %q", models.WSArchiveDeleted, second.Type)
	}
}

func TestWebSocketNoInitialMessageWithoutSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleWebSocket(w, r, &stubController{})
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("connessione WebSocket: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var msg models.WSMessage
	if err := conn.ReadJSON(&msg); err == nil {
		t.Errorf("nessun messaggio atteso senza sessione attiva, ottenuto %+v", msg)
	}
}

package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"whatsapp-archive-viewer/models"
)

var (
	wsClients    = make(map[*websocket.Conn]bool)
	wsClientsMux sync.Mutex

	// WebSocket upgrader
	wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // Consenti tutte le origini in sviluppo
		},
	}
)

// BroadcastToClients invia un messaggio a tutti i client WebSocket connessi
func BroadcastToClients(messageType string, payload interface{}) {
	wsClientsMux.Lock()
	defer wsClientsMux.Unlock()

	// Se non ci sono client connessi, non fare nulla
	if len(wsClients) == 0 {
		return
	}

	wsMessage := models.WSMessage{
		Type:    messageType,
		Payload: payload,
	}

	for client := range wsClients {
		err := client.WriteJSON(wsMessage)
		if err != nil {
			client.Close()
			delete(wsClients, client)
		}
	}
}

// HandleWebSocket registra un client per gli eventi di sessione. Il canale
// è a senso unico: il server invia eventi, i messaggi in arrivo vengono
// scartati.
func HandleWebSocket(w http.ResponseWriter, r *http.Request, ctrl Controller) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "Could not upgrade connection", http.StatusInternalServerError)
		return
	}

	// Il client appena connesso riceve subito la sessione attiva, senza
	// attendere il prossimo evento. Scrittura iniziale e registrazione
	// avvengono sotto lo stesso mutex delle broadcast, che quindi non
	// possono né sovrapporsi né precedere lo stato iniziale.
	wsClientsMux.Lock()
	if info, ok := ctrl.SessionInfo(); ok {
		if err := conn.WriteJSON(models.WSMessage{Type: models.WSSessionLoaded, Payload: info}); err != nil {
			wsClientsMux.Unlock()
			conn.Close()
			return
		}
	}
	wsClients[conn] = true
	wsClientsMux.Unlock()

	// Cleanup quando la connessione viene chiusa
	defer func() {
		wsClientsMux.Lock()
		delete(wsClients, conn)
		wsClientsMux.Unlock()
		conn.Close()
	}()

	// Il loop di lettura serve solo a rilevare la disconnessione
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

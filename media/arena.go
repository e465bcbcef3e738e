package media

import (
	"sync"

	"github.com/google/uuid"
)

// Arena possiede i payload binari (allegati e anteprime) della sessione
// attiva. Ogni payload è raggiungibile solo tramite un token opaco; Release
// revoca tutti i token e libera la memoria quando la sessione viene chiusa
// o sostituita.
type Arena struct {
	mu      sync.RWMutex
	buffers map[string][]byte
}

func NewArena() *Arena {
	return &Arena{buffers: make(map[string][]byte)}
}

// Add registra un payload e restituisce il token che lo identifica
func (a *Arena) Add(payload []byte) string {
	token := uuid.NewString()
	a.mu.Lock()
	a.buffers[token] = payload
	a.mu.Unlock()
	return token
}

// Get restituisce il payload associato a un token, se ancora valido
func (a *Arena) Get(token string) ([]byte, bool) {
	a.mu.RLock()
	payload, ok := a.buffers[token]
	a.mu.RUnlock()
	return payload, ok
}

// Len restituisce il numero di payload registrati
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.buffers)
}

// Release revoca tutti i token. Le Get successive falliscono.
func (a *Arena) Release() {
	a.mu.Lock()
	a.buffers = make(map[string][]byte)
	a.mu.Unlock()
}

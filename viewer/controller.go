package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"whatsapp-archive-viewer/export"
	"whatsapp-archive-viewer/media"
	"whatsapp-archive-viewer/models"
	"whatsapp-archive-viewer/persistence"
	"whatsapp-archive-viewer/search"
	"whatsapp-archive-viewer/virtlist"
)

// ErrLoadInFlight indica che un caricamento è già in corso: ne è ammesso
// al massimo uno alla volta
var ErrLoadInFlight = errors.New("caricamento già in corso")

// ErrNoSession indica che nessuna sessione è attiva
var ErrNoSession = errors.New("nessuna sessione attiva")

// Altezza stimata di una riga prima della misurazione reale e margine di
// overscan della lista virtualizzata
const (
	defaultRowHeight = 72
	defaultOverscan  = 8
)

// LoadResult è l'esito di un caricamento riuscito. SaveErr riporta un
// eventuale errore di persistenza, che non è fatale: la sessione è
// comunque attiva e consultabile.
type LoadResult struct {
	Archive *models.SavedArchive
	SaveErr error
}

// Controller possiede lo stato dell'applicazione: la sessione attiva, il
// cursore di ricerca e l'accesso allo store. Tutte le mutazioni passano
// di qui; non esistono variabili globali.
type Controller struct {
	store *persistence.Store
	log   zerolog.Logger

	mu      sync.RWMutex
	session *Session
	cursor  *search.Cursor
	term    string
	loading bool
}

func NewController(store *persistence.Store, logger zerolog.Logger) *Controller {
	return &Controller{
		store: store,
		log:   logger,
	}
}

// LoadArchive importa un nuovo archivio: estrae il bundle, classifica gli
// allegati e ne deriva le anteprime, poi esegue il parse del transcript e
// pubblica la nuova sessione. Se un passo fallisce la sessione precedente
// resta intatta. L'archivio viene inoltre salvato nello store; un errore
// di salvataggio è riportato in LoadResult ma non annulla la sessione.
func (c *Controller) LoadArchive(ctx context.Context, data []byte, name string) (*LoadResult, error) {
	if err := c.beginLoad(); err != nil {
		return nil, err
	}
	defer c.endLoad()

	session, err := c.buildSession(ctx, data, uuid.NewString(), name)
	if err != nil {
		return nil, err
	}

	saved := &models.SavedArchive{
		ID:           session.ArchiveID,
		Name:         name,
		SavedAt:      time.Now().UnixMilli(),
		MessageCount: len(session.Messages),
		Participants: session.Participants,
		RawBytes:     data,
	}

	var saveErr error
	if err := c.store.SaveArchive(saved); err != nil {
		// La sessione è consultabile anche se non salvata: segnala
		// senza interrompere
		c.log.Error().Err(err).Str("archive", saved.Name).Msg("salvataggio archivio fallito")
		saveErr = err
	}

	c.publish(session)
	return &LoadResult{Archive: saved, SaveErr: saveErr}, nil
}

// OpenArchive riapre un archivio salvato, rieseguendo il parse dei byte
// originali
func (c *Controller) OpenArchive(ctx context.Context, id string) error {
	if err := c.beginLoad(); err != nil {
		return err
	}
	defer c.endLoad()

	saved, err := c.store.LoadArchive(id)
	if err != nil {
		return err
	}

	session, err := c.buildSession(ctx, saved.RawBytes, saved.ID, saved.Name)
	if err != nil {
		return err
	}

	c.publish(session)
	return nil
}

func (c *Controller) beginLoad() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return ErrLoadInFlight
	}
	c.loading = true
	return nil
}

func (c *Controller) endLoad() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
}

// buildSession esegue la pipeline di caricamento. L'estrazione dei binari
// e la derivazione delle anteprime vengono completate (o fallite per
// singolo allegato) prima del parse: la risoluzione dei marcatori è una
// lookup su una mappa già popolata.
func (c *Controller) buildSession(ctx context.Context, data []byte, archiveID, name string) (*Session, error) {
	bundle, err := export.Open(data)
	if err != nil {
		return nil, err
	}

	arena := media.NewArena()
	attachments := make(map[string]*models.Attachment, len(bundle.Entries))

	for entryName, payload := range bundle.Entries {
		if err := ctx.Err(); err != nil {
			// Caricamento annullato: rilascia i payload già registrati
			arena.Release()
			return nil, err
		}

		mediaType := media.Classify(entryName)
		att := &models.Attachment{
			Name:         entryName,
			Type:         mediaType,
			Size:         int64(len(payload)),
			PayloadToken: arena.Add(payload),
		}

		if media.HasThumbnail(mediaType) {
			thumb, err := media.DeriveThumbnail(payload, mediaType)
			if err != nil {
				// Non fatale: il chiamante ripiega sul payload completo
				c.log.Warn().Err(err).Str("file", entryName).Msg("anteprima non generata")
			} else {
				att.ThumbnailToken = arena.Add(thumb)
			}
		}

		attachments[entryName] = att
	}

	if err := ctx.Err(); err != nil {
		arena.Release()
		return nil, err
	}

	messages := export.ParseTranscript(bundle.TranscriptText, attachments)

	return &Session{
		ArchiveID:    archiveID,
		Name:         name,
		Messages:     messages,
		Participants: export.Participants(messages),
		Layout:       virtlist.NewLayout(len(messages), defaultRowHeight, defaultOverscan),
		arena:        arena,
	}, nil
}

// publish sostituisce atomicamente la sessione attiva e rilascia i payload
// della precedente
func (c *Controller) publish(session *Session) {
	c.mu.Lock()
	old := c.session
	c.session = session
	c.cursor = nil
	c.term = ""
	c.mu.Unlock()

	if old != nil {
		old.release()
	}
}

// CloseSession torna allo stato vuoto rilasciando la sessione attiva
func (c *Controller) CloseSession() {
	c.mu.Lock()
	old := c.session
	c.session = nil
	c.cursor = nil
	c.term = ""
	c.mu.Unlock()

	if old != nil {
		old.release()
	}
}

// SessionInfo restituisce il riepilogo della sessione attiva
func (c *Controller) SessionInfo() (*SessionInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil, false
	}
	return &SessionInfo{
		ArchiveID:    c.session.ArchiveID,
		Name:         c.session.Name,
		MessageCount: len(c.session.Messages),
		Participants: c.session.Participants,
	}, true
}

// Messages restituisce una pagina di messaggi della sessione attiva e il
// totale complessivo
func (c *Controller) Messages(offset, limit int) ([]models.Message, int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil, 0, ErrNoSession
	}

	total := len(c.session.Messages)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	if limit <= 0 || offset+limit > total {
		limit = total - offset
	}

	page := make([]models.Message, limit)
	copy(page, c.session.Messages[offset:offset+limit])
	return page, total, nil
}

// Media restituisce il payload binario associato a un token della sessione
// attiva
func (c *Controller) Media(token string) ([]byte, bool) {
	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()
	if session == nil {
		return nil, false
	}
	return session.Media(token)
}

// SavedArchives restituisce gli archivi salvati, i più recenti per primi
func (c *Controller) SavedArchives() ([]*models.SavedArchive, error) {
	return c.store.LoadArchives()
}

// DeleteArchive elimina un archivio salvato. La sessione attiva, se
// proviene da quell'archivio, resta consultabile.
func (c *Controller) DeleteArchive(id string) error {
	return c.store.DeleteArchive(id)
}

// Search esegue una nuova ricerca sulla sessione attiva e riposiziona il
// cursore sul primo risultato
func (c *Controller) Search(term string) []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}

	results := search.Search(c.session.Messages, term)
	c.cursor = search.NewCursor(results)
	c.term = term
	return results
}

// SearchTerm restituisce l'ultimo termine cercato
func (c *Controller) SearchTerm() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.term
}

// NextResult avanza circolarmente al risultato successivo
func (c *Controller) NextResult() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cursor == nil {
		return 0, false
	}
	return c.cursor.Next()
}

// PrevResult retrocede circolarmente al risultato precedente
func (c *Controller) PrevResult() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cursor == nil {
		return 0, false
	}
	return c.cursor.Prev()
}

// CurrentResult restituisce il risultato selezionato
func (c *Controller) CurrentResult() (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cursor == nil {
		return 0, false
	}
	return c.cursor.Current()
}

// RowHeight è l'altezza misurata di una riga, comunicata dal frontend dopo
// il primo render reale
type RowHeight struct {
	Index  int `json:"index"`
	Height int `json:"height"`
}

// SetRowHeight registra l'altezza misurata di una riga della lista
func (c *Controller) SetRowHeight(index, height int) error {
	return c.SetRowHeights([]RowHeight{{Index: index, Height: height}})
}

// SetRowHeights registra un lotto di altezze misurate. Il lotto viene
// validato per intero prima dell'applicazione: o tutte le righe vengono
// registrate o nessuna.
func (c *Controller) SetRowHeights(rows []RowHeight) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ErrNoSession
	}

	count := c.session.Layout.Count()
	for _, row := range rows {
		if row.Index < 0 || row.Index >= count {
			return fmt.Errorf("indice %d fuori dall'intervallo", row.Index)
		}
		if row.Height < 1 {
			return fmt.Errorf("altezza %d non valida per la riga %d", row.Height, row.Index)
		}
	}

	for _, row := range rows {
		c.session.Layout.SetHeight(row.Index, row.Height)
	}
	return nil
}

// Window restituisce l'intervallo di righe da materializzare per la
// posizione di scroll indicata
func (c *Controller) Window(scrollTop, viewport int) (start, end int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return 0, 0, ErrNoSession
	}
	start, end = c.session.Layout.Window(scrollTop, viewport)
	return start, end, nil
}

// TotalHeight restituisce l'altezza complessiva stimata della lista
func (c *Controller) TotalHeight() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return 0, ErrNoSession
	}
	return c.session.Layout.TotalHeight(), nil
}

// ScrollTo restituisce la posizione di scroll per raggiungere una riga,
// eventualmente centrata nella viewport
func (c *Controller) ScrollTo(index, viewport int, center bool) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return 0, ErrNoSession
	}
	if center {
		return c.session.Layout.ScrollToCenter(index, viewport), nil
	}
	return c.session.Layout.ScrollTo(index, viewport), nil
}

// SelfName restituisce la preferenza del nome "proprio"
func (c *Controller) SelfName() (string, error) {
	return c.store.SelfName()
}

// SetSelfName salva la preferenza del nome "proprio"
func (c *Controller) SetSelfName(name string) error {
	return c.store.SetSelfName(name)
}

package search

import (
	"strings"

	"whatsapp-archive-viewer/models"
)

// Search restituisce gli indici dei messaggi che contengono il termine,
// confrontando senza distinzione di maiuscole sia il testo che il mittente.
// Un termine vuoto o di soli spazi disattiva la ricerca: nessun risultato.
func Search(messages []models.Message, term string) []int {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	needle := strings.ToLower(term)
	var results []int
	for i, m := range messages {
		if strings.Contains(strings.ToLower(m.Text), needle) ||
			strings.Contains(strings.ToLower(m.Sender), needle) {
			results = append(results, i)
		}
	}
	return results
}

// Cursor è la posizione corrente nella sequenza dei risultati di ricerca.
// Next e Prev avanzano in modo circolare e non fanno nulla se la sequenza
// è vuota.
type Cursor struct {
	results []int
	pos     int
}

// NewCursor crea un cursore posizionato sul primo risultato, o senza
// selezione se i risultati sono vuoti
func NewCursor(results []int) *Cursor {
	pos := -1
	if len(results) > 0 {
		pos = 0
	}
	return &Cursor{results: results, pos: pos}
}

// Count restituisce il numero di risultati
func (c *Cursor) Count() int {
	return len(c.results)
}

// Position restituisce la posizione corrente nella sequenza dei risultati,
// -1 se non c'è selezione
func (c *Cursor) Position() int {
	return c.pos
}

// Current restituisce l'indice del messaggio selezionato
func (c *Cursor) Current() (int, bool) {
	if c.pos < 0 {
		return 0, false
	}
	return c.results[c.pos], true
}

// Next avanza circolarmente al risultato successivo
func (c *Cursor) Next() (int, bool) {
	if len(c.results) == 0 {
		return 0, false
	}
	c.pos = (c.pos + 1) % len(c.results)
	return c.results[c.pos], true
}

// Prev retrocede circolarmente al risultato precedente
func (c *Cursor) Prev() (int, bool) {
	if len(c.results) == 0 {
		return 0, false
	}
	c.pos = (c.pos - 1 + len(c.results)) % len(c.results)
	return c.results[c.pos], true
}

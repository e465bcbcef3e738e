package export

import (
	"regexp"
	"strings"

	"whatsapp-archive-viewer/models"
)

// Pattern dell'intestazione di un messaggio: [data, ora] mittente:
// La data è tutto fino alla prima virgola, l'ora fino alla prima ']',
// il mittente fino al primo ": " successivo. Nomi di mittente che
// contengono ':' o ']' possono quindi essere interpretati male: è
// un'ambiguità nota del formato di export, non viene corretta.
var headerRe = regexp.MustCompile(`\[([^,\]]+), ([^\]]+)\] (.*?): `)

var (
	attachedRe     = regexp.MustCompile(`(?i)<attached:\s*([^>]+)>`)
	mediaOmittedRe = regexp.MustCompile(`(?i)<media omitted>`)
)

// ParseTranscript converte il testo del transcript in una sequenza ordinata
// di messaggi, risolvendo i marcatori di allegato contro la mappa dei
// payload estratti. La mappa deve essere già completa: la risoluzione è una
// lookup sincrona. Il testo che precede la prima intestazione viene scartato.
func ParseTranscript(text string, attachments map[string]*models.Attachment) []models.Message {
	text = stripInvisible(text)

	// Individua tutte le intestazioni in un'unica scansione da sinistra a
	// destra; il corpo di ogni messaggio è il testo tra la fine della sua
	// intestazione e l'inizio della successiva
	headers := headerRe.FindAllStringSubmatchIndex(text, -1)
	messages := make([]models.Message, 0, len(headers))

	for i, h := range headers {
		bodyEnd := len(text)
		if i+1 < len(headers) {
			bodyEnd = headers[i+1][0]
		}
		body := text[h[1]:bodyEnd]

		msg := models.Message{
			Date:   text[h[2]:h[3]],
			Time:   text[h[4]:h[5]],
			Sender: strings.TrimSpace(text[h[6]:h[7]]),
		}
		msg.Text, msg.Attachment = resolveBody(body, attachments)
		messages = append(messages, msg)
	}

	return messages
}

// resolveBody cerca nel corpo un marcatore di allegato e restituisce il
// testo ripulito insieme all'allegato risolto, se presente nella mappa
func resolveBody(body string, attachments map[string]*models.Attachment) (string, *models.Attachment) {
	if m := attachedRe.FindStringSubmatchIndex(body); m != nil {
		name := strings.TrimSpace(body[m[2]:m[3]])
		rest := strings.TrimSpace(body[:m[0]] + body[m[1]:])
		if att, ok := attachments[name]; ok {
			return rest, att
		}
		// Export senza media o nome non corrispondente: il messaggio
		// degrada a solo testo
		return rest, nil
	}

	if m := mediaOmittedRe.FindStringIndex(body); m != nil {
		return strings.TrimSpace(body[:m[0]] + body[m[1]:]), nil
	}

	return strings.TrimSpace(body), nil
}

// stripInvisible rimuove i caratteri di controllo Unicode (LTR mark,
// zero-width space, BOM) che gli export iOS inseriscono e che
// impedirebbero il riconoscimento di intestazioni e marcatori
func stripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\u200e', '\u200f': // LTR / RTL mark
			return -1
		case '\u200b', '\u200c', '\u200d': // zero-width
			return -1
		case '\ufeff': // BOM
			return -1
		default:
			return r
		}
	}, s)
}

// Participants restituisce i nomi distinti dei mittenti nell'ordine di
// prima apparizione
func Participants(messages []models.Message) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range messages {
		if !seen[m.Sender] {
			seen[m.Sender] = true
			names = append(names, m.Sender)
		}
	}
	return names
}

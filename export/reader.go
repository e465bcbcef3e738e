package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var (
	// ErrInvalidArchive indica che i byte ricevuti non sono un archivio ZIP valido
	ErrInvalidArchive = errors.New("archivio non valido")
	// ErrMissingTranscript indica che l'archivio non contiene il file della chat
	ErrMissingTranscript = errors.New("transcript non trovato nell'archivio")
)

// Nome del transcript negli export di WhatsApp
const transcriptName = "_chat.txt"

// Bundle contiene il contenuto estratto di un archivio di export
type Bundle struct {
	TranscriptText string
	// Entries mappa il nome originale di ogni allegato sul suo payload binario
	Entries map[string][]byte
}

// Open decomprime un archivio di export in memoria e individua il transcript.
// Tutte le voci vengono lette subito: la dimensione massima supportata
// dell'archivio è limitata dalla memoria disponibile.
func Open(data []byte) (*Bundle, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	chat := findTranscript(zr.File)
	if chat == nil {
		return nil, ErrMissingTranscript
	}
	transcript, err := readEntry(chat)
	if err != nil {
		return nil, fmt.Errorf("%w: lettura di %s: %v", ErrInvalidArchive, chat.Name, err)
	}

	bundle := &Bundle{
		TranscriptText: string(transcript),
		Entries:        make(map[string][]byte),
	}

	for _, f := range zr.File {
		// Salta le directory e il transcript stesso
		if f == chat || f.FileInfo().IsDir() {
			continue
		}

		payload, err := readEntry(f)
		if err != nil {
			// L'estrazione di un singolo allegato può fallire senza
			// compromettere il caricamento: la voce viene omessa
			continue
		}

		bundle.Entries[path.Base(f.Name)] = payload
	}

	return bundle, nil
}

// findTranscript seleziona il file della chat: il nome canonico _chat.txt ha
// sempre la precedenza, anche quando un altro file di testo lo precede
// nell'ordine dell'archivio. Se il nome canonico è assente viene accettato
// il primo file .txt: alcuni export rinominano il transcript con il nome
// della chat.
func findTranscript(files []*zip.File) *zip.File {
	var fallback *zip.File
	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		name := path.Base(f.Name)
		if strings.EqualFold(name, transcriptName) {
			return f
		}
		if fallback == nil && strings.HasSuffix(strings.ToLower(name), ".txt") {
			fallback = f
		}
	}
	return fallback
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

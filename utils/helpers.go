package utils

import (
	"path"
	"strings"
)

// SanitizePathComponent sanitizza una stringa per l'uso nei percorsi dei file
func SanitizePathComponent(s string) string {
	// Rimuovi caratteri non sicuri per i percorsi dei file
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	s = strings.ReplaceAll(s, "?", "_")
	s = strings.ReplaceAll(s, "\"", "_")
	s = strings.ReplaceAll(s, "<", "_")
	s = strings.ReplaceAll(s, ">", "_")
	s = strings.ReplaceAll(s, "|", "_")
	return s
}

// ArchiveDisplayName ricava l'etichetta di un archivio dal nome del file
// caricato: rimuove il percorso e l'estensione .zip
func ArchiveDisplayName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.TrimSpace(name)
	if name == "" || name == "." {
		return "Chat senza nome"
	}
	return SanitizePathComponent(name)
}

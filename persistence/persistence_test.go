package persistence

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"

	"whatsapp-archive-viewer/models"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archives.db")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, path
}

func sampleArchive(id string) *models.SavedArchive {
	return &models.SavedArchive{
		ID:           id,
		Name:         "Chat di famiglia",
		SavedAt:      1700000000000,
		MessageCount: 3,
		Participants: []string{"Alice", "Bob"},
		RawBytes:     []byte{0x50, 0x4b, 0x03, 0x04, 0xff},
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	saved := sampleArchive("arch-1")
	if err := store.SaveArchive(saved); err != nil {
		t.Fatalf("SaveArchive: %v", err)
	}

	archives, err := store.LoadArchives()
	if err != nil {
		t.Fatalf("LoadArchives: %v", err)
	}
	if len(archives) != 1 {
		t.Fatalf("atteso 1 archivio, ottenuti %d", len(archives))
	}

	got := archives[0]
	if !bytes.Equal(got.RawBytes, saved.RawBytes) {
		t.Error("RawBytes non identici dopo il round-trip")
	}
	if got.ID != saved.ID || got.Name != saved.Name || got.SavedAt != saved.SavedAt ||
		got.MessageCount != saved.MessageCount {
		t.Errorf("campi di riepilogo non corrispondenti: %+v", got)
	}
	if !reflect.DeepEqual(got.Participants, saved.Participants) {
		t.Errorf("partecipanti non corrispondenti: %v", got.Participants)
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)

	saved := sampleArchive("arch-1")
	if err := store.SaveArchive(saved); err != nil {
		t.Fatalf("SaveArchive: %v", err)
	}

	saved.Name = "Nome aggiornato"
	if err := store.SaveArchive(saved); err != nil {
		t.Fatalf("SaveArchive (secondo): %v", err)
	}

	archives, err := store.LoadArchives()
	if err != nil {
		t.Fatalf("LoadArchives: %v", err)
	}
	if len(archives) != 1 {
		t.Fatalf("il doppio put deve sovrascrivere, ottenuti %d record", len(archives))
	}
	if archives[0].Name != "Nome aggiornato" {
		t.Errorf("record non sovrascritto: %q", archives[0].Name)
	}
}

func TestLoadArchiveByID(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.SaveArchive(sampleArchive("arch-1")); err != nil {
		t.Fatalf("SaveArchive: %v", err)
	}

	got, err := store.LoadArchive("arch-1")
	if err != nil {
		t.Fatalf("LoadArchive: %v", err)
	}
	if got.ID != "arch-1" {
		t.Errorf("ID inatteso: %q", got.ID)
	}

	if _, err := store.LoadArchive("sconosciuto"); err == nil {
		t.Error("atteso errore per ID inesistente")
	}
}

func TestDeleteArchive(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.SaveArchive(sampleArchive("arch-1")); err != nil {
		t.Fatalf("SaveArchive: %v", err)
	}
	if err := store.DeleteArchive("arch-1"); err != nil {
		t.Fatalf("DeleteArchive: %v", err)
	}

	archives, err := store.LoadArchives()
	if err != nil {
		t.Fatalf("LoadArchives: %v", err)
	}
	if len(archives) != 0 {
		t.Errorf("archivio non eliminato, restano %d record", len(archives))
	}

	// Eliminare un ID inesistente non è un errore
	if err := store.DeleteArchive("mai-esistito"); err != nil {
		t.Errorf("DeleteArchive su ID inesistente: %v", err)
	}
}

func TestDurabilityAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archives.db")

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.SaveArchive(sampleArchive("arch-1")); err != nil {
		t.Fatalf("SaveArchive: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("riapertura store: %v", err)
	}
	defer reopened.Close()

	archives, err := reopened.LoadArchives()
	if err != nil {
		t.Fatalf("LoadArchives: %v", err)
	}
	if len(archives) != 1 || archives[0].ID != "arch-1" {
		t.Errorf("record non recuperato dopo il riavvio: %+v", archives)
	}
}

func TestSelfNamePreference(t *testing.T) {
	store, _ := newTestStore(t)

	name, err := store.SelfName()
	if err != nil {
		t.Fatalf("SelfName: %v", err)
	}
	if name != "" {
		t.Errorf("preferenza mai impostata, atteso vuoto: %q", name)
	}

	if err := store.SetSelfName("Alice"); err != nil {
		t.Fatalf("SetSelfName: %v", err)
	}
	name, err = store.SelfName()
	if err != nil {
		t.Fatalf("SelfName: %v", err)
	}
	if name != "Alice" {
		t.Errorf("atteso %q, ottenuto %q", "Alice", name)
	}
}

package persistence

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"syscall"
	"time"

	"go.etcd.io/bbolt"
	"whatsapp-archive-viewer/models"
)

var (
	archivesBucket    = []byte("archives")
	preferencesBucket = []byte("preferences")
)

// Chiave della preferenza "nome proprio" usata dal frontend per lo stile
// inviato/ricevuto
var selfNameKey = []byte("selfName")

var (
	// ErrStorageUnavailable indica che il database sottostante non è accessibile
	ErrStorageUnavailable = errors.New("archivio dati non disponibile")
	// ErrStorageQuota indica che la scrittura supera lo spazio disponibile
	ErrStorageQuota = errors.New("spazio di archiviazione esaurito")
)

// Store è l'archivio durevole degli export salvati, basato su bbolt.
// Ogni record viene scritto in una singola transazione: un salvataggio
// riuscito è recuperabile dopo il riavvio e non vengono mai restituiti
// record parziali.
type Store struct {
	db *bbolt.DB
}

func NewStore(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(archivesBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(preferencesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, wrapWriteError(err)
	}

	return &Store{db: db}, nil
}

// SaveArchive salva un archivio, sovrascrivendo per ID. Idempotente.
func (s *Store) SaveArchive(archive *models.SavedArchive) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(archivesBucket)
		data, err := encodeToBinary(archive)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(archive.ID), data)
	})
	return wrapWriteError(err)
}

// LoadArchive carica un archivio per ID
func (s *Store) LoadArchive(id string) (*models.SavedArchive, error) {
	var archive models.SavedArchive
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(archivesBucket)
		data := bucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("archivio %s non trovato", id)
		}
		return decodeBinary(data, &archive)
	})
	if err != nil {
		return nil, err
	}
	return &archive, nil
}

// LoadArchives carica tutti gli archivi salvati
func (s *Store) LoadArchives() ([]*models.SavedArchive, error) {
	var archives []*models.SavedArchive

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(archivesBucket)
		return bucket.ForEach(func(k, v []byte) error {
			var archive models.SavedArchive
			if err := decodeBinary(v, &archive); err != nil {
				// Record non decodificabile: meglio ometterlo che
				// restituirlo corrotto
				return nil
			}
			archives = append(archives, &archive)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return archives, nil
}

// DeleteArchive rimuove un archivio. Non è un errore se l'ID non esiste.
func (s *Store) DeleteArchive(id string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(archivesBucket).Delete([]byte(id))
	})
	return wrapWriteError(err)
}

// SelfName restituisce la preferenza del nome del partecipante "proprio",
// o stringa vuota se mai impostata
func (s *Store) SelfName() (string, error) {
	var name string
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(preferencesBucket).Get(selfNameKey); v != nil {
			name = string(v)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return name, nil
}

// SetSelfName salva la preferenza del nome del partecipante "proprio"
func (s *Store) SetSelfName(name string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(preferencesBucket).Put(selfNameKey, []byte(name))
	})
	return wrapWriteError(err)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// wrapWriteError riconduce gli errori di scrittura alla tassonomia dello
// store: spazio esaurito oppure database non accessibile
func wrapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, syscall.ENOSPC) {
		return fmt.Errorf("%w: %v", ErrStorageQuota, err)
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

func encodeToBinary(data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(data)
	return buf.Bytes(), err
}

func decodeBinary(data []byte, target interface{}) error {
	buf := bytes.NewBuffer(data)
	return gob.NewDecoder(buf).Decode(target)
}

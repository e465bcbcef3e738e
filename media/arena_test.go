package media

import (
	"bytes"
	"testing"
)

func TestArenaAddGet(t *testing.T) {
	arena := NewArena()

	payload := []byte{0x01, 0x02, 0x03}
	token := arena.Add(payload)
	if token == "" {
		t.Fatal("token vuoto")
	}

	got, ok := arena.Get(token)
	if !ok {
		t.Fatal("payload non trovato")
	}
	if !bytes.Equal(got, payload) {
		t.Error("payload non corrispondente")
	}
}

func TestArenaDistinctTokens(t *testing.T) {
	arena := NewArena()
	t1 := arena.Add([]byte{0x01})
	t2 := arena.Add([]byte{0x02})
	if t1 == t2 {
		t.Error("token duplicati per payload distinti")
	}
	if arena.Len() != 2 {
		t.Errorf("attesi 2 payload, ottenuti %d", arena.Len())
	}
}

func TestArenaRelease(t *testing.T) {
	arena := NewArena()
	token := arena.Add([]byte{0x01})

	arena.Release()

	if _, ok := arena.Get(token); ok {
		t.Error("il token deve essere revocato dopo Release")
	}
	if arena.Len() != 0 {
		t.Errorf("arena non vuota dopo Release: %d", arena.Len())
	}
}

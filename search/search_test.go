package search

import (
	"reflect"
	"testing"

	"whatsapp-archive-viewer/models"
)

func sampleMessages() []models.Message {
	return []models.Message{
		{Sender: "Alice", Text: "Ci vediamo al Foo Bar"},
		{Sender: "Bob", Text: "va bene"},
		{Sender: "Alice", Text: "porto anche Carla"},
		{Sender: "Carla", Text: "arrivo!"},
		{Sender: "Bob", Text: "FOO confermato"},
	}
}

func TestSearchEmptyTerm(t *testing.T) {
	messages := sampleMessages()
	if results := Search(messages, ""); len(results) != 0 {
		t.Errorf("termine vuoto: attesa sequenza vuota, ottenuti %v", results)
	}
	if results := Search(messages, "   "); len(results) != 0 {
		t.Errorf("termine di soli spazi: attesa sequenza vuota, ottenuti %v", results)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	messages := sampleMessages()

	upper := Search(messages, "Foo")
	lower := Search(messages, "foo")
	if !reflect.DeepEqual(upper, lower) {
		t.Errorf("risultati diversi per maiuscole/minuscole: %v vs %v", upper, lower)
	}
	if !reflect.DeepEqual(upper, []int{0, 4}) {
		t.Errorf("risultati attesi [0 4], ottenuti %v", upper)
	}
}

func TestSearchMatchesSender(t *testing.T) {
	messages := sampleMessages()

	// "carla" compare sia come mittente che nel testo
	results := Search(messages, "carla")
	if !reflect.DeepEqual(results, []int{2, 3}) {
		t.Errorf("risultati attesi [2 3], ottenuti %v", results)
	}
}

func TestSearchNoMatches(t *testing.T) {
	if results := Search(sampleMessages(), "inesistente"); len(results) != 0 {
		t.Errorf("attesa sequenza vuota, ottenuti %v", results)
	}
}

func TestCursorStartsAtFirstResult(t *testing.T) {
	cursor := NewCursor([]int{3, 7, 9})

	index, ok := cursor.Current()
	if !ok || index != 3 {
		t.Errorf("cursore atteso sul primo risultato, ottenuto %d (%v)", index, ok)
	}
	if cursor.Position() != 0 {
		t.Errorf("posizione attesa 0, ottenuta %d", cursor.Position())
	}
}

func TestCursorNextIsCircular(t *testing.T) {
	results := []int{3, 7, 9}
	cursor := NewCursor(results)

	start, _ := cursor.Current()
	for i := 0; i < len(results); i++ {
		cursor.Next()
	}
	end, _ := cursor.Current()
	if start != end {
		t.Errorf("dopo %d Next il cursore deve tornare al punto di partenza: %d vs %d", len(results), start, end)
	}
}

func TestCursorPrevWrapsToLast(t *testing.T) {
	cursor := NewCursor([]int{3, 7, 9})

	index, ok := cursor.Prev()
	if !ok || index != 9 {
		t.Errorf("Prev dal primo risultato deve portare all'ultimo, ottenuto %d", index)
	}
}

func TestCursorEmptyIsNoOp(t *testing.T) {
	cursor := NewCursor(nil)

	if _, ok := cursor.Current(); ok {
		t.Error("nessuna selezione attesa con risultati vuoti")
	}
	if _, ok := cursor.Next(); ok {
		t.Error("Next deve essere no-op con risultati vuoti")
	}
	if _, ok := cursor.Prev(); ok {
		t.Error("Prev deve essere no-op con risultati vuoti")
	}
	if cursor.Position() != -1 {
		t.Errorf("posizione attesa -1, ottenuta %d", cursor.Position())
	}
}

package virtlist

import "sort"

// Layout mantiene le altezze delle righe di una lista virtualizzata e gli
// offset cumulativi che ne derivano. Ogni riga parte da una stima di
// altezza predefinita; dopo il primo render reale il chiamante comunica
// l'altezza misurata con SetHeight, che invalida gli offset di tutte le
// righe successive. In questo modo la lista può avere lunghezza illimitata
// materializzando solo le righe nella finestra visibile.
type Layout struct {
	defaultHeight int
	overscan      int
	heights       []int
	measured      []bool
	// offsets[i] è la posizione verticale della riga i; offsets[count] è
	// l'altezza totale. Le prime clean voci sono valide.
	offsets []int
	clean   int
}

// NewLayout crea il layout per count righe con la stima di altezza
// predefinita e il margine di overscan indicati
func NewLayout(count, defaultHeight, overscan int) *Layout {
	if count < 0 {
		count = 0
	}
	if defaultHeight < 1 {
		defaultHeight = 1
	}
	if overscan < 0 {
		overscan = 0
	}

	heights := make([]int, count)
	for i := range heights {
		heights[i] = defaultHeight
	}

	return &Layout{
		defaultHeight: defaultHeight,
		overscan:      overscan,
		heights:       heights,
		measured:      make([]bool, count),
		offsets:       make([]int, count+1),
		clean:         0,
	}
}

// Count restituisce il numero di righe
func (l *Layout) Count() int {
	return len(l.heights)
}

// HeightOf restituisce l'altezza della riga i: quella misurata se
// disponibile, altrimenti la stima predefinita
func (l *Layout) HeightOf(i int) int {
	if i < 0 || i >= len(l.heights) {
		return l.defaultHeight
	}
	return l.heights[i]
}

// Measured indica se la riga i è già stata misurata
func (l *Layout) Measured(i int) bool {
	return i >= 0 && i < len(l.measured) && l.measured[i]
}

// SetHeight registra l'altezza reale della riga i e invalida gli offset
// di tutte le righe successive
func (l *Layout) SetHeight(i, height int) {
	if i < 0 || i >= len(l.heights) || height < 1 {
		return
	}
	if l.measured[i] && l.heights[i] == height {
		return
	}
	l.heights[i] = height
	l.measured[i] = true
	// offsets[i] non dipende da heights[i]: restano validi i prefissi
	// fino a i compreso
	if l.clean > i+1 {
		l.clean = i + 1
	}
}

// ensure estende i prefissi validi fino a offsets[i]
func (l *Layout) ensure(i int) {
	if l.clean == 0 {
		l.offsets[0] = 0
		l.clean = 1
	}
	for l.clean <= i {
		j := l.clean
		l.offsets[j] = l.offsets[j-1] + l.heights[j-1]
		l.clean = j + 1
	}
}

// OffsetOf restituisce la posizione verticale della riga i
func (l *Layout) OffsetOf(i int) int {
	if i < 0 {
		return 0
	}
	if i > len(l.heights) {
		i = len(l.heights)
	}
	l.ensure(i)
	return l.offsets[i]
}

// TotalHeight restituisce l'altezza complessiva della lista
func (l *Layout) TotalHeight() int {
	return l.OffsetOf(len(l.heights))
}

// indexAt restituisce la riga che contiene la posizione verticale y
func (l *Layout) indexAt(y int) int {
	count := len(l.heights)
	if count == 0 {
		return 0
	}
	l.ensure(count)
	if y <= 0 {
		return 0
	}
	if y >= l.offsets[count] {
		return count - 1
	}
	// Prima riga il cui bordo inferiore supera y
	i := sort.Search(count, func(i int) bool {
		return l.offsets[i+1] > y
	})
	return i
}

// Window restituisce l'intervallo di righe [start, end) da materializzare
// per la posizione di scroll e l'altezza della viewport indicate, incluso
// il margine di overscan
func (l *Layout) Window(scrollTop, viewport int) (start, end int) {
	count := len(l.heights)
	if count == 0 || viewport <= 0 {
		return 0, 0
	}

	start = l.indexAt(scrollTop) - l.overscan
	if start < 0 {
		start = 0
	}
	end = l.indexAt(scrollTop+viewport-1) + 1 + l.overscan
	if end > count {
		end = count
	}
	return start, end
}

// ScrollTo restituisce la posizione di scroll che porta la riga i in cima
// alla viewport
func (l *Layout) ScrollTo(i, viewport int) int {
	return l.clampScroll(l.OffsetOf(i), viewport)
}

// ScrollToCenter restituisce la posizione di scroll che centra la riga i
// nella viewport
func (l *Layout) ScrollToCenter(i, viewport int) int {
	if i < 0 {
		i = 0
	}
	if n := len(l.heights); n > 0 && i >= n {
		i = n - 1
	}
	top := l.OffsetOf(i) + l.HeightOf(i)/2 - viewport/2
	return l.clampScroll(top, viewport)
}

func (l *Layout) clampScroll(top, viewport int) int {
	max := l.TotalHeight() - viewport
	if max < 0 {
		max = 0
	}
	if top > max {
		top = max
	}
	if top < 0 {
		top = 0
	}
	return top
}

package ui

// Rect is a screen area in cells.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// ElementKind names what a clickable area shows.
type ElementKind int

const (
	ElemHeader ElementKind = iota
	ElemFooter
	ElemCPUMeter
	ElemMemMeter
	ElemSwapMeter
	ElemColumnHeader
	ElemProcessRow
	ElemFunctionKey
	ElemDialog
)

// Element identifies one area. Index is the core for CPU meters, the
// column for column headers, the row index for process rows and the key
// number for function keys.
type Element struct {
	Kind  ElementKind
	Index int
}

type region struct {
	rect Rect
	elem Element
}

// Bounds records where the last frame drew each clickable element.
type Bounds struct {
	regions []region
}

func (b *Bounds) Reset() { b.regions = b.regions[:0] }

// Add records r for e. Empty rectangles are dropped.
func (b *Bounds) Add(r Rect, e Element) {
	if r.Empty() {
		return
	}
	b.regions = append(b.regions, region{rect: r, elem: e})
}

// HitTest returns the element under (x, y). Later additions sit on top,
// so the last match wins.
func (b *Bounds) HitTest(x, y int) (Element, bool) {
	for i := len(b.regions) - 1; i >= 0; i-- {
		if b.regions[i].rect.Contains(x, y) {
			return b.regions[i].elem, true
		}
	}
	return Element{}, false
}

// Find returns the rectangle recorded for e.
func (b *Bounds) Find(e Element) (Rect, bool) {
	for _, r := range b.regions {
		if r.elem == e {
			return r.rect, true
		}
	}
	return Rect{}, false
}

// Count returns the number of areas of the given kind.
func (b *Bounds) Count(kind ElementKind) int {
	n := 0
	for _, r := range b.regions {
		if r.elem.Kind == kind {
			n++
		}
	}
	return n
}

// Rects returns every recorded rectangle in insertion order.
func (b *Bounds) Rects() []Rect {
	out := make([]Rect, len(b.regions))
	for i, r := range b.regions {
		out[i] = r.rect
	}
	return out
}

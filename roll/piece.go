package roll

// pieceKind tags which variant of Piece is populated.
type pieceKind uint8

const (
	pieceStatic pieceKind = iota
	pieceOwned
	pieceRoll
	pieceHeaderName
)

// Piece is a byte-sum type over a static (compile-time) slice, a
// heap-owned slice, a pooled Roll, or a canonicalized header name —
// the four sources of bytes the engine ever needs to hand to a
// vectored write. Every variant exposes a stable address for the
// duration of a single write call.
type Piece struct {
	kind   pieceKind
	static []byte
	owned  []byte
	roll   Roll
}

// StaticPiece wraps a slice whose backing array is never mutated or
// freed for the life of the program (e.g. a string literal's bytes).
func StaticPiece(b []byte) Piece { return Piece{kind: pieceStatic, static: b} }

// OwnedPiece wraps a heap-allocated slice the Piece now owns.
func OwnedPiece(b []byte) Piece { return Piece{kind: pieceOwned, owned: b} }

// RollPiece wraps a pooled Roll.
func RollPiece(r Roll) Piece { return Piece{kind: pieceRoll, roll: r} }

// HeaderNamePiece wraps an already-canonicalized HTTP header name.
func HeaderNamePiece(name []byte) Piece { return Piece{kind: pieceHeaderName, static: name} }

// Bytes returns the unified byte view of whichever variant is set.
func (p Piece) Bytes() []byte {
	switch p.kind {
	case pieceOwned:
		return p.owned
	case pieceRoll:
		return p.roll.Bytes()
	default: // pieceStatic, pieceHeaderName
		return p.static
	}
}

func (p Piece) Len() int { return len(p.Bytes()) }

func (p Piece) IsEmpty() bool { return p.Len() == 0 }

// Release returns any pooled region this Piece holds. Static and
// owned pieces are no-ops.
func (p Piece) Release() {
	if p.kind == pieceRoll {
		p.roll.Release()
	}
}

// PieceList is an ordered sequence of Pieces submitted as a single
// vectored write. Every element must keep a stable address for the
// duration of the write, which pooled Rolls and static/owned slices
// all satisfy by construction.
type PieceList struct {
	items []Piece
}

// With appends p and returns the list, for chaining construction the
// way the original's builder-style API reads.
func (pl PieceList) With(p Piece) PieceList {
	pl.items = append(pl.items, p)
	return pl
}

// Items returns the underlying pieces in write order.
func (pl PieceList) Items() []Piece { return pl.items }

// Buffers renders the list as a [][]byte suitable for net.Buffers,
// the standard library's vectored-write type.
func (pl PieceList) Buffers() [][]byte {
	out := make([][]byte, len(pl.items))
	for i, it := range pl.items {
		out[i] = it.Bytes()
	}
	return out
}

// TotalLen sums the byte length of every piece in the list.
func (pl PieceList) TotalLen() int {
	n := 0
	for _, it := range pl.items {
		n += it.Len()
	}
	return n
}

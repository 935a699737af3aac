package position

import "fmt"

const (
	// RecordStride is the size in bytes of one packed placement record.
	RecordStride = 4
	// BufferCapacity is the byte size of a full position arena.
	BufferCapacity = MaxPlacements * RecordStride
	// UnknownCount marks a buffer whose owner did not report a record count.
	UnknownCount = -1
)

// Layout describes where each field of a placement sits inside a record.
// Every field is a single byte.
type Layout struct {
	Stride int
	Rank   int
	File   int
	Piece  int
	Color  int
}

// DefaultLayout is the engine ABI: [rank, file, piece_type, is_white].
var DefaultLayout = Layout{Stride: RecordStride, Rank: 0, File: 1, Piece: 2, Color: 3}

// MaxStride bounds a record's size so record offsets stay small.
const MaxStride = 255

func (l Layout) validate() error {
	if l.Stride <= 0 || l.Stride > MaxStride {
		return fmt.Errorf("%w: stride %d outside 1..%d", ErrInvalidLayout, l.Stride, MaxStride)
	}
	offsets := [...]int{l.Rank, l.File, l.Piece, l.Color}
	for i, off := range offsets {
		if off < 0 || off >= l.Stride {
			return fmt.Errorf("%w: offset %d outside stride %d", ErrInvalidLayout, off, l.Stride)
		}
		for _, other := range offsets[:i] {
			if other == off {
				return fmt.Errorf("%w: overlapping offset %d", ErrInvalidLayout, off)
			}
		}
	}
	return nil
}

// Decode interprets view with DefaultLayout. See Layout.Decode.
func Decode(view []byte, count int) ([]Placement, error) {
	return DefaultLayout.Decode(view, count)
}

// Decode reads count records from view. The count must come from the buffer's
// owner; it is never derived from len(view) because the arena is over-allocated.
// view is only read and is not retained after Decode returns.
func (l Layout) Decode(view []byte, count int) ([]Placement, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, ErrUnknownRecordCount
	}
	if count > MaxPlacements {
		return nil, fmt.Errorf("%w: %d > %d", ErrCountOutOfRange, count, MaxPlacements)
	}
	if count > len(view)/l.Stride {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooShort, count*l.Stride, len(view))
	}

	out := make([]Placement, 0, count)
	for i := 0; i < count; i++ {
		rec := view[i*l.Stride : (i+1)*l.Stride]
		p, err := l.decodeRecord(i, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (l Layout) decodeRecord(index int, rec []byte) (Placement, error) {
	rank, file, piece, color := rec[l.Rank], rec[l.File], rec[l.Piece], rec[l.Color]
	switch {
	case rank >= BoardSize:
		return Placement{}, &MalformedRecordError{Index: index, Field: "rank", Value: rank}
	case file >= BoardSize:
		return Placement{}, &MalformedRecordError{Index: index, Field: "file", Value: file}
	case !PieceType(piece).Valid():
		return Placement{}, &MalformedRecordError{Index: index, Field: "piece_type", Value: piece}
	case color > 1:
		return Placement{}, &MalformedRecordError{Index: index, Field: "is_white", Value: color}
	}
	return Placement{
		Rank:  int(rank),
		File:  int(file),
		Piece: PieceType(piece),
		White: color == 1,
	}, nil
}

// Encode writes ps into dst with DefaultLayout and returns the record count.
func Encode(dst []byte, ps []Placement) (int, error) {
	return DefaultLayout.Encode(dst, ps)
}

// Encode packs placements into dst. Bytes past the last record are left as is.
func (l Layout) Encode(dst []byte, ps []Placement) (int, error) {
	if err := l.validate(); err != nil {
		return 0, err
	}
	if len(ps) > MaxPlacements {
		return 0, fmt.Errorf("%w: %d > %d", ErrCountOutOfRange, len(ps), MaxPlacements)
	}
	if len(ps) > len(dst)/l.Stride {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooShort, len(ps)*l.Stride, len(dst))
	}
	for i, p := range ps {
		if err := p.Validate(); err != nil {
			return 0, fmt.Errorf("encode placement %d: %w", i, err)
		}
		rec := dst[i*l.Stride : (i+1)*l.Stride]
		rec[l.Rank] = byte(p.Rank)
		rec[l.File] = byte(p.File)
		rec[l.Piece] = byte(p.Piece)
		rec[l.Color] = 0
		if p.White {
			rec[l.Color] = 1
		}
	}
	return len(ps), nil
}

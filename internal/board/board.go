package board

const (
	Rows = 6
	Cols = 7
)

// WinLength is the run length that ends a match.
const WinLength = 4

type Cell string

const (
	Empty  Cell = ""
	Red    Cell = "R"
	Yellow Cell = "Y"
)

// ParseCell maps a wire cell to a Cell. Anything that is not a known mark is Empty.
func ParseCell(s string) Cell {
	switch s {
	case "R":
		return Red
	case "Y":
		return Yellow
	default:
		// " ", "", "null" and garbage
		return Empty
	}
}

// String returns the wire encoding, with Empty as a single space.
func (c Cell) String() string {
	if c == Empty {
		return " "
	}
	return string(c)
}

type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is indexed [row][col]; row 0 is the top row as sent by the server.
// It is a value type so a copy is always a full snapshot.
type Board [Rows][Cols]Cell

// FromRows builds a Board from a server snapshot. Missing rows or cells stay Empty
// and anything beyond Rows x Cols is ignored.
func FromRows(rows [][]string) Board {
	var b Board
	for r := 0; r < Rows && r < len(rows); r++ {
		for c := 0; c < Cols && c < len(rows[r]); c++ {
			b[r][c] = ParseCell(rows[r][c])
		}
	}
	return b
}

// Strings returns the board in wire encoding.
func (b Board) Strings() [][]string {
	out := make([][]string, Rows)
	for r := range b {
		out[r] = make([]string, Cols)
		for c, cell := range b[r] {
			out[r][c] = cell.String()
		}
	}
	return out
}

func (b Board) At(p Pos) Cell {
	if !InBounds(p) {
		return Empty
	}
	return b[p.Row][p.Col]
}

func (b Board) IsEmpty() bool {
	return b == Board{}
}

func InBounds(p Pos) bool {
	return p.Row >= 0 && p.Row < Rows && p.Col >= 0 && p.Col < Cols
}

// ValidColumn reports whether col is a column index a piece can be dropped into.
func ValidColumn(col int) bool {
	return col >= 0 && col < Cols
}

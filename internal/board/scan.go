package board

// directions walked from each starting cell: right, down, down-right, down-left.
var directions = [4]Pos{
	{Row: 0, Col: 1},
	{Row: 1, Col: 0},
	{Row: 1, Col: 1},
	{Row: 1, Col: -1},
}

// WinScan looks for four identical marks in a row and returns their positions.
//
// Cells are visited in row-major order and every direction only extends forward
// from the starting cell, so runs are never merged backwards. The first run that
// reaches WinLength is returned and the scan stops. A nil result means no run was
// found; the server's verdict still stands in that case, there is just nothing to
// highlight.
func (b Board) WinScan() []Pos {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			mark := b[r][c]
			if mark == Empty {
				continue
			}
			for _, d := range directions {
				if run := b.runFrom(Pos{Row: r, Col: c}, d, mark); run != nil {
					return run
				}
			}
		}
	}
	return nil
}

func (b Board) runFrom(start, d Pos, mark Cell) []Pos {
	run := make([]Pos, 1, WinLength)
	run[0] = start
	p := Pos{Row: start.Row + d.Row, Col: start.Col + d.Col}
	for InBounds(p) && b[p.Row][p.Col] == mark {
		run = append(run, p)
		if len(run) == WinLength {
			return run
		}
		p = Pos{Row: p.Row + d.Row, Col: p.Col + d.Col}
	}
	return nil
}

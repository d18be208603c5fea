// Package game implements the draughts rules used by the server: board
// layout, legal move enumeration and move application. Side A owns the
// pieces on the low rows and moves toward increasing row numbers, side B
// moves the opposite way. Only dark squares, where row+col is odd, are
// playable.
package game

import "errors"

const Size = 8

type Side int

const (
	Empty Side = 0
	SideA Side = 1
	SideB Side = 2
)

var ErrInvalidMove = errors.New("invalid move")

// Board holds one cell marker per square: Empty, SideA or SideB.
type Board [Size][Size]Side

// Pos is a board coordinate, 0 <= Row,Col < Size.
type Pos struct {
	Row int
	Col int
}

// NewBoard returns the standard starting layout: side A on the playable
// squares of rows 0-2, side B on rows 5-7.
func NewBoard() Board {
	var b Board
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if !Playable(row, col) {
				continue
			}
			switch {
			case row < 3:
				b[row][col] = SideA
			case row > 4:
				b[row][col] = SideB
			}
		}
	}
	return b
}

func Playable(row, col int) bool {
	return (row+col)%2 == 1
}

func inBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

func (s Side) Opponent() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	}
	return Empty
}

// forward is the row direction a side's pieces move in.
func (s Side) forward() int {
	if s == SideA {
		return 1
	}
	return -1
}

// PieceCount returns the number of pieces the side has on the board.
func (b Board) PieceCount(side Side) int {
	count := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b[row][col] == side {
				count++
			}
		}
	}
	return count
}

// LegalDestinations lists the squares the piece at (row, col) may move
// to: one forward diagonal step into an empty square, or a forward jump
// over an adjacent opposing piece into the empty square beyond it. A
// piece with both forward diagonals occupied is stuck: jumps are only
// offered while at least one step remains open. The result is empty
// when the square does not hold one of side's pieces.
func (b Board) LegalDestinations(row, col int, side Side) []Pos {
	if !inBounds(row, col) || b[row][col] != side {
		return nil
	}
	var dests []Pos
	dr := side.forward()
	for _, dc := range []int{-1, 1} {
		stepRow, stepCol := row+dr, col+dc
		if inBounds(stepRow, stepCol) && b[stepRow][stepCol] == Empty {
			dests = append(dests, Pos{stepRow, stepCol})
		}
	}
	if len(dests) == 0 {
		return nil
	}
	for _, dc := range []int{-1, 1} {
		stepRow, stepCol := row+dr, col+dc
		jumpRow, jumpCol := row+2*dr, col+2*dc
		if inBounds(jumpRow, jumpCol) &&
			b[stepRow][stepCol] == side.Opponent() &&
			b[jumpRow][jumpCol] == Empty {
			dests = append(dests, Pos{jumpRow, jumpCol})
		}
	}
	return dests
}

// HasAnyLegalMove reports whether at least one of side's pieces can move.
func (b Board) HasAnyLegalMove(side Side) bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b[row][col] != side {
				continue
			}
			if len(b.LegalDestinations(row, col, side)) > 0 {
				return true
			}
		}
	}
	return false
}

// hasCaptureFrom reports whether the piece at (row, col) has a capturing
// jump available.
func (b Board) hasCaptureFrom(row, col int, side Side) bool {
	for _, dest := range b.LegalDestinations(row, col, side) {
		if dest.Row-row == 2*side.forward() {
			return true
		}
	}
	return false
}

package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoardLayout(t *testing.T) {
	b := NewBoard()
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			want := Empty
			if Playable(row, col) {
				if row < 3 {
					want = SideA
				} else if row > 4 {
					want = SideB
				}
			}
			assert.Equalf(t, want, b[row][col], "cell (%d,%d)", row, col)
		}
	}
	assert.Equal(t, 12, b.PieceCount(SideA))
	assert.Equal(t, 12, b.PieceCount(SideB))
}

func TestNewBoardHasMovesForBothSides(t *testing.T) {
	b := NewBoard()
	assert.True(t, b.HasAnyLegalMove(SideA))
	assert.True(t, b.HasAnyLegalMove(SideB))
}

func TestLegalDestinations(t *testing.T) {
	tests := []struct {
		name   string
		place  map[Pos]Side
		row    int
		col    int
		side   Side
		expect []Pos
	}{
		{
			name:   "side A open forward steps",
			place:  map[Pos]Side{{2, 3}: SideA},
			row:    2, col: 3, side: SideA,
			expect: []Pos{{3, 2}, {3, 4}},
		},
		{
			name:   "side B moves toward decreasing rows",
			place:  map[Pos]Side{{5, 2}: SideB},
			row:    5, col: 2, side: SideB,
			expect: []Pos{{4, 1}, {4, 3}},
		},
		{
			name:   "edge piece stays on the board",
			place:  map[Pos]Side{{2, 7}: SideA},
			row:    2, col: 7, side: SideA,
			expect: []Pos{{3, 6}},
		},
		{
			name: "jump over opposing piece",
			place: map[Pos]Side{
				{2, 1}: SideA,
				{3, 2}: SideB,
			},
			row: 2, col: 1, side: SideA,
			expect: []Pos{{3, 0}, {4, 3}},
		},
		{
			name: "piece blocked on both diagonals cannot move",
			place: map[Pos]Side{
				{2, 1}: SideA,
				{3, 0}: SideB,
				{3, 2}: SideB,
			},
			row: 2, col: 1, side: SideA,
			expect: nil,
		},
		{
			name: "blocked piece gets no jump even with an open landing square",
			place: map[Pos]Side{
				{2, 3}: SideA,
				{3, 2}: SideB,
				{3, 4}: SideB,
			},
			row: 2, col: 3, side: SideA,
			expect: nil,
		},
		{
			name:   "no piece on the square",
			place:  map[Pos]Side{},
			row:    4, col: 3, side: SideA,
			expect: nil,
		},
		{
			name: "own piece cannot be jumped",
			place: map[Pos]Side{
				{2, 1}: SideA,
				{3, 2}: SideA,
			},
			row: 2, col: 1, side: SideA,
			expect: []Pos{{3, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Board
			for pos, side := range tt.place {
				b[pos.Row][pos.Col] = side
			}
			got := b.LegalDestinations(tt.row, tt.col, tt.side)
			assert.ElementsMatch(t, tt.expect, got)
		})
	}
}

// Destinations are always on the board and never occupied, whatever the
// position looks like.
func TestLegalDestinationsStayOnEmptySquares(t *testing.T) {
	boards := []Board{NewBoard()}

	var sparse Board
	sparse[0][1] = SideA
	sparse[7][6] = SideB
	sparse[4][3] = SideA
	sparse[5][4] = SideB
	boards = append(boards, sparse)

	for _, b := range boards {
		for row := 0; row < Size; row++ {
			for col := 0; col < Size; col++ {
				side := b[row][col]
				if side == Empty {
					continue
				}
				for _, dest := range b.LegalDestinations(row, col, side) {
					require.GreaterOrEqual(t, dest.Row, 0)
					require.Less(t, dest.Row, Size)
					require.GreaterOrEqual(t, dest.Col, 0)
					require.Less(t, dest.Col, Size)
					require.Equal(t, Empty, b[dest.Row][dest.Col])
				}
			}
		}
	}
}

func TestHasAnyLegalMoveBlockedSide(t *testing.T) {
	var b Board
	b[2][1] = SideA
	require.True(t, b.HasAnyLegalMove(SideA))

	// Opponents on both forward diagonals leave the piece stuck even
	// though the (4,3) landing square behind them is empty.
	b[3][0] = SideB
	b[3][2] = SideB
	assert.Empty(t, b.LegalDestinations(2, 1, SideA))
	assert.False(t, b.HasAnyLegalMove(SideA))
}

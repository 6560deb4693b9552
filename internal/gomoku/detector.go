package gomoku

import "github.com/healthmate-app/gomoku-backend/internal/entity"

// winLength - five contiguous stones win; longer overlines count too.
const winLength = 5

// The four line orientations through a cell. The opposite direction of each
// is scanned separately, so four entries cover all eight rays.
var directions = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal, top-left to bottom-right
	{1, -1}, // diagonal, bottom-left to top-right
}

// HasFiveInARow - reports whether the stone just played at (row, col)
// completes a line of five or more for player. Each orientation counts
// contiguous same-owner stones outward in both directions; the anchor cell
// itself counts exactly once.
func HasFiveInARow(board entity.Board, row, col int, player string) bool {
	if !inBounds(row, col) || player == entity.EmptyCell {
		return false
	}

	for _, dir := range directions {
		count := 1
		count += countRay(board, row, col, dir[0], dir[1], player)
		count += countRay(board, row, col, -dir[0], -dir[1], player)

		if count >= winLength {
			return true
		}
	}

	return false
}

// countRay - number of contiguous player-owned cells strictly beyond
// (row, col) along the given direction.
func countRay(board entity.Board, row, col, dRow, dCol int, player string) int {
	count := 0

	for r, c := row+dRow, col+dCol; inBounds(r, c) && board[r][c] == player; r, c = r+dRow, c+dCol {
		count++
	}

	return count
}

func inBounds(row, col int) bool {
	return row >= 0 && row < entity.BoardSize && col >= 0 && col < entity.BoardSize
}

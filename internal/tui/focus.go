package tui

// inputFocus is the focus position of the query input. Results are 0..n-1.
const inputFocus = -1

// nextFocus moves down. Past the last result focus wraps to the input, and
// from the input it lands on the first result.
func nextFocus(current, n int) int {
	if n == 0 || current >= n-1 {
		return inputFocus
	}
	if current < inputFocus {
		return 0
	}
	return current + 1
}

// prevFocus moves up. Above the first result focus wraps to the input, and
// from the input it lands on the last result.
func prevFocus(current, n int) int {
	switch {
	case n == 0:
		return inputFocus
	case current == inputFocus, current >= n:
		return n - 1
	case current == 0:
		return inputFocus
	default:
		return current - 1
	}
}

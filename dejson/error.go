package dejson

import "fmt"

// SyntaxError is returned by Decode for any malformed input. It carries the
// violated expectation and the 1-based line and column of the offending
// position. Decoding aborts at the first error; no partial value is ever
// returned alongside a SyntaxError.
type SyntaxError struct {
	Msg  string
	Line int
	Col  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at line %d col %d", e.Msg, e.Line, e.Col)
}

// lineCol derives the 1-based line and column of byte offset off in src with
// a single newline-counting pass. Only runs on the error path, so the O(n)
// cost is paid at most once per Decode call.
func lineCol(src string, off int) (line, col int) {
	if off > len(src) {
		off = len(src)
	}
	line = 1
	last := -1
	for i := 0; i < off; i++ {
		if src[i] == '\n' {
			line++
			last = i
		}
	}
	return line, off - last
}

package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/inodb/vibe-phmm/internal/phmm"
	"github.com/inodb/vibe-phmm/internal/seq"
)

// WriteEmissionTable writes one row per match position with the emission
// probability of every residue.
func WriteEmissionTable(w io.Writer, m *phmm.Model) error {
	bw := bufio.NewWriter(w)

	header := []string{"Pos"}
	for _, b := range []byte(seq.Alphabet) {
		header = append(header, fmt.Sprintf("e_pos('%c')", b))
	}
	bw.WriteString(strings.Join(header, "\t") + "\n")

	for k := 1; k <= m.Length; k++ {
		e := m.MatchEmission(k)
		fmt.Fprintf(bw, "%d", k)
		for _, p := range e {
			fmt.Fprintf(bw, "\t%.8f", p)
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// WriteStructure writes the match positions of the model as a column mask
// ('*' for match columns, '.' for insert columns) followed by the one-based
// alignment columns of each position.
func WriteStructure(w io.Writer, m *phmm.Model) error {
	st := m.Structure()

	var mask strings.Builder
	for _, isMatch := range st.Match {
		if isMatch {
			mask.WriteByte('*')
		} else {
			mask.WriteByte('.')
		}
	}

	cols := st.Columns()
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c + 1)
	}

	_, err := fmt.Fprintf(w, "Match positions: %d\nColumns: %s\n%s\n",
		st.Length, strings.Join(parts, " "), mask.String())
	return err
}

// WriteBlocks writes rows of equal length interleaved in blocks of width
// characters, one blank line between blocks.
func WriteBlocks(w io.Writer, width int, rows ...string) error {
	if len(rows) == 0 {
		return nil
	}
	bw := bufio.NewWriter(w)
	n := len(rows[0])
	for start := 0; start < n; start += width {
		if start > 0 {
			bw.WriteByte('\n')
		}
		for _, r := range rows {
			if start < len(r) {
				bw.WriteString(r[start:min(start+width, len(r))])
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

package diagfmt

import (
	"bufio"
	"io"
	"strings"

	"apidiff/internal/diff"
)

// TSVHeader lists the columns of the tabular report.
var TSVHeader = []string{
	"operation", "old", "new", "compatible", "file", "subsystem", "kit", "api_change", "modification",
}

// TSV writes the tabular report: one row per event. Embedded tabs and
// newlines of the rendered texts are escaped as \t and \n.
func TSV(w io.Writer, events []diff.Event, opts Opts) error {
	bw := bufio.NewWriter(w)
	writeRow(bw, TSVHeader)
	for _, ev := range truncate(events, opts.Max) {
		writeRow(bw, []string{
			ev.Type.String(),
			ev.OldText,
			ev.NewText,
			yesNo(ev.Compatible),
			opts.path(ev.File),
			ev.Subsystem,
			ev.Kit,
			yesNo(ev.APIChange),
			ev.Type.Category().String(),
		})
	}
	return bw.Flush()
}

var cellEscaper = strings.NewReplacer("\\", "\\\\", "\t", "\\t", "\n", "\\n", "\r", "\\r")

func writeRow(w *bufio.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			_ = w.WriteByte('\t')
		}
		_, _ = w.WriteString(cellEscaper.Replace(c))
	}
	_ = w.WriteByte('\n')
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

package admin

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// RenderText renders a snapshot as plain text: text readouts, then counters
// and gauges, then histogram summaries, one "name: value" line each.
// Text readout values are quoted, HTML escaped and have control characters
// replaced by \xNN escapes.
func RenderText(snapshot *Snapshot) string {
	var b strings.Builder

	for _, t := range snapshot.TextReadouts {
		b.WriteString(t.Name)
		b.WriteString(": \"")
		b.WriteString(sanitizeReadout(t.Value))
		b.WriteString("\"\n")
	}

	for _, s := range snapshot.Scalars {
		b.WriteString(s.Name)
		b.WriteString(": ")
		b.WriteString(strconv.FormatUint(s.Value, 10))
		b.WriteByte('\n')
	}

	for _, h := range snapshot.Histograms {
		b.WriteString(h.Name())
		b.WriteString(": ")
		b.WriteString(h.QuantileSummary())
		b.WriteByte('\n')
	}

	return b.String()
}

// sanitizeReadout escapes HTML and every C0 or DEL control character, so a
// value always stays on its own line
func sanitizeReadout(value string) string {
	escaped := html.EscapeString(value)
	var b strings.Builder
	b.Grow(len(escaped))
	for i := 0; i < len(escaped); i++ {
		c := escaped[i]
		if c < 0x20 || c == 0x7f {
			fmt.Fprintf(&b, "\\x%02x", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

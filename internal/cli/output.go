package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/stormlightlabs/docsift/internal/search"
	"github.com/stormlightlabs/docsift/internal/shared"
	"github.com/stormlightlabs/docsift/internal/tokenize"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatPaths = "paths"
)

func checkFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (use %s)", format, strings.Join(allowed, ", "))
}

// outputFormat returns the flag value when given, else the configured default
// if the command supports it.
func outputFormat(flag string, allowed ...string) string {
	if flag != "" {
		return flag
	}
	for _, f := range allowed {
		if cfg != nil && cfg.Display.Format == f {
			return f
		}
	}
	return formatTable
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// highlight renders the best snippet of r with matched spans styled.
func highlight(r search.Result) string {
	if len(r.Snippets) == 0 {
		return ""
	}
	sn := r.Snippets[0]
	for _, s := range r.Snippets {
		if s.Field == tokenize.FieldBody {
			sn = s
			break
		}
	}

	text := shared.FlattenWhitespace(sn.Text)
	var b strings.Builder
	last := 0
	for _, sp := range sn.Spans {
		if sp.Start < last || sp.End > len(text) {
			continue
		}
		b.WriteString(text[last:sp.Start])
		b.WriteString(p.Styles.Match.Render(text[sp.Start:sp.End]))
		last = sp.End
	}
	b.WriteString(text[last:])
	return b.String()
}

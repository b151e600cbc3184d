// Package render writes canonical admin records to a terminal, either as tables or as JSON.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/olekukonko/tablewriter"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// chroma style used for highlighted JSON
const highlightStyle = "monokai"

// Renderer writes records to w in the configured format
type Renderer struct {
	w      io.Writer
	format string
	color  bool
}

// New creates a Renderer. Unknown formats are treated as table output.
// color enables terminal syntax highlighting of JSON.
func New(w io.Writer, format string, color bool) *Renderer {
	if format != FormatJSON {
		format = FormatTable
	}
	return &Renderer{w: w, format: format, color: color}
}

// JSON reports whether records are rendered as JSON
func (r *Renderer) JSON() bool {
	return r.format == FormatJSON
}

// Value writes v as indented JSON
func (r *Renderer) Value(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return r.RawJSON(data)
}

// RawJSON pretty prints an already encoded JSON document
func (r *Renderer) RawJSON(data []byte) error {
	var buf bytes.Buffer
	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("{}")
	}
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		// not JSON, show it as received
		buf.Reset()
		buf.Write(data)
	}
	buf.WriteByte('\n')

	if r.color {
		return quick.Highlight(r.w, buf.String(), "json", "terminal256", highlightStyle)
	}
	_, err := r.w.Write(buf.Bytes())
	return err
}

// Message writes a single line of text, used for the result of write operations
func (r *Renderer) Message(format string, args ...any) error {
	if r.JSON() {
		return r.Value(map[string]string{"message": fmt.Sprintf(format, args...)})
	}
	_, err := fmt.Fprintf(r.w, format+"\n", args...)
	return err
}

func (r *Renderer) table(header []string, rows [][]string) {
	table := tablewriter.NewWriter(r.w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)
	table.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatTime(raw string, t time.Time) string {
	if t.IsZero() {
		return raw
	}
	return t.Local().Format("2006-01-02 15:04")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

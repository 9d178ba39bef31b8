package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/roletapro/roleta-client/pkg/payload"
)

// Output formats accepted by -o.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// maxCellWidth caps a table cell; longer values are truncated with an ellipsis.
const maxCellWidth = 48

// Renderer writes backend payloads to the terminal.
type Renderer struct {
	w       io.Writer
	format  string
	printer *message.Printer
}

// NewRenderer returns a Renderer for format. An empty format selects json.
func NewRenderer(w io.Writer, format string) (*Renderer, error) {
	switch format {
	case "":
		format = FormatJSON
	case FormatJSON, FormatYAML, FormatTable:
	default:
		return nil, usagef("unknown output format %q (want json, yaml or table)", format)
	}
	return &Renderer{w: w, format: format, printer: message.NewPrinter(language.English)}, nil
}

// Render writes v in the configured format.
func (r *Renderer) Render(v payload.Value) error {
	switch r.format {
	case FormatYAML:
		return r.yaml(v)
	case FormatTable:
		return r.table(v)
	default:
		return r.json(v)
	}
}

func (r *Renderer) json(v payload.Value) error {
	enc := json.NewEncoder(r.w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Renderer) yaml(v payload.Value) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(yamlNode(v))
}

// yamlNode converts v without going through a Go map, so object keys keep the
// order the backend sent them in.
func yamlNode(v payload.Value) *yaml.Node {
	switch v.Kind() {
	case payload.KindBool:
		b, _ := v.AsBool()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(b)}
	case payload.KindNumber:
		n, _ := v.AsNumber()
		tag := "!!float"
		if _, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: n.String()}
	case payload.KindString:
		s, _ := v.AsString()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	case payload.KindList:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items() {
			n.Content = append(n.Content, yamlNode(item))
		}
		return n
	case payload.KindObject:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range v.Members() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key},
				yamlNode(m.Value),
			)
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// table prints a list of objects as rows, an object as key/value pairs and
// anything else as a bare value.
func (r *Renderer) table(v payload.Value) error {
	switch v.Kind() {
	case payload.KindList:
		items := v.Items()
		if len(items) == 0 {
			_, err := fmt.Fprintln(r.w, "(no rows)")
			return err
		}
		header, rows := r.rows(items)
		return r.grid(header, rows)
	case payload.KindObject:
		rows := make([][]string, 0, v.Len())
		for _, m := range v.Members() {
			rows = append(rows, []string{m.Key, r.cell(m.Value)})
		}
		return r.grid([]string{"FIELD", "VALUE"}, rows)
	default:
		_, err := fmt.Fprintln(r.w, r.cell(v))
		return err
	}
}

// rows collects the union of object keys in first-seen order as the header.
// Non-object items get a single "value" column.
func (r *Renderer) rows(items []payload.Value) ([]string, [][]string) {
	var header []string
	index := map[string]int{}
	for _, it := range items {
		keys := it.Keys()
		if it.Kind() != payload.KindObject {
			keys = []string{"value"}
		}
		for _, k := range keys {
			if _, ok := index[k]; !ok {
				index[k] = len(header)
				header = append(header, k)
			}
		}
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		row := make([]string, len(header))
		if it.Kind() != payload.KindObject {
			row[index["value"]] = r.cell(it)
		} else {
			for _, m := range it.Members() {
				row[index[m.Key]] = r.cell(m.Value)
			}
		}
		rows = append(rows, row)
	}

	for i, h := range header {
		header[i] = strings.ToUpper(h)
	}
	return header, rows
}

func (r *Renderer) cell(v payload.Value) string {
	var s string
	switch v.Kind() {
	case payload.KindNull:
		s = "-"
	case payload.KindString:
		s, _ = v.AsString()
	case payload.KindBool:
		b, _ := v.AsBool()
		s = fmt.Sprint(b)
	case payload.KindNumber:
		if i, ok := v.AsInt(); ok {
			s = r.printer.Sprintf("%d", i)
		} else if f, ok := v.AsFloat(); ok {
			s = r.printer.Sprintf("%.2f", f)
		}
	default:
		s = v.String()
	}
	s = strings.ReplaceAll(s, "\n", " ")
	return runewidth.Truncate(s, maxCellWidth, "…")
}

func (r *Renderer) grid(header []string, rows [][]string) error {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, c := range row {
			if w := runewidth.StringWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	divider := "+"
	for _, w := range widths {
		divider += strings.Repeat("-", w+2) + "+"
	}
	divider += "\n"

	line := func(cells []string) {
		b.WriteString("|")
		for i, c := range cells {
			b.WriteString(" ")
			b.WriteString(runewidth.FillRight(c, widths[i]))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	b.WriteString(divider)
	line(header)
	b.WriteString(divider)
	for _, row := range rows {
		line(row)
	}
	b.WriteString(divider)

	_, err := io.WriteString(r.w, b.String())
	return err
}

package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes a strict EDN representation: maps with keyword keys, vectors,
// strings, integers/floats, booleans and nil.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := plain(v)
	if err != nil {
		return err
	}
	var sb strings.Builder
	enc := ednEncoder{pretty: pretty, indent: 2}
	enc.value(&sb, x, 0)
	sb.WriteByte('\n')
	_, err = io.WriteString(w, sb.String())
	return err
}

type ednEncoder struct {
	pretty bool
	indent int
}

func (e ednEncoder) value(sb *strings.Builder, v any, level int) {
	switch t := v.(type) {
	case nil:
		sb.WriteString("nil")
	case bool:
		sb.WriteString(strconv.FormatBool(t))
	case string:
		sb.WriteString(strconv.Quote(t))
	case json.Number:
		sb.WriteString(t.String())
	case []any:
		e.seq(sb, '[', ']', len(t), level, func(i int) { e.value(sb, t[i], level+1) })
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.seq(sb, '{', '}', len(keys), level, func(i int) {
			sb.WriteByte(':')
			sb.WriteString(strings.ReplaceAll(strings.TrimSpace(keys[i]), " ", "-"))
			sb.WriteByte(' ')
			e.value(sb, t[keys[i]], level+1)
		})
	default:
		sb.WriteString(strconv.Quote(fmt.Sprintf("%v", v)))
	}
}

func (e ednEncoder) seq(sb *strings.Builder, open, close byte, n, level int, item func(i int)) {
	sb.WriteByte(open)
	if n == 0 {
		sb.WriteByte(close)
		return
	}
	pad := strings.Repeat(" ", (level+1)*e.indent)
	for i := 0; i < n; i++ {
		switch {
		case e.pretty:
			sb.WriteByte('\n')
			sb.WriteString(pad)
		case i > 0:
			sb.WriteByte(' ')
		}
		item(i)
	}
	if e.pretty {
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(" ", level*e.indent))
	}
	sb.WriteByte(close)
}

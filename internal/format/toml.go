package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// WriteTOML writes v as a TOML document. TOML has no null, so nil values are dropped.
func WriteTOML(w io.Writer, v any) error {
	x, err := plain(v)
	if err != nil {
		return err
	}
	doc, ok := tomlValue(x).(map[string]any)
	if !ok {
		return fmt.Errorf("toml output needs an object at the top level, got %T", x)
	}
	return toml.NewEncoder(w).Encode(doc)
}

func tomlValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		f, _ := t.Float64()
		return f
	case []any:
		out := make([]any, 0, len(t))
		for _, it := range t {
			if it == nil {
				continue
			}
			out = append(out, tomlValue(it))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, it := range t {
			if it == nil {
				continue
			}
			out[k] = tomlValue(it)
		}
		return out
	default:
		return v
	}
}

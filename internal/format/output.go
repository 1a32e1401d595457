package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Formats accepted by Write.
var Formats = []string{"json", "edn", "toml"}

// Write writes v in the requested format.
//
// Supported formats:
// - json (default)
// - edn
// - toml (v must encode to an object, e.g. the {"data": ...} envelope)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "edn":
		return WriteEDN(w, v, pretty)
	case "toml":
		return WriteTOML(w, v)
	default:
		return fmt.Errorf("unknown format: %s (expected json|edn|toml)", format)
	}
}

func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// plain round-trips v through JSON so every encoder sees the same field names
// (json tags) and only maps, slices, strings, bools, json.Number and nil.
func plain(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return nil, err
	}
	return x, nil
}

package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

type sample struct {
	ID        string  `json:"id"`
	Count     int     `json:"count"`
	Ratio     float64 `json:"ratio"`
	Completed bool    `json:"completed"`
	Note      *string `json:"note"`
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"data": sample{ID: "a", Count: 2}}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `{"data":{"id":"a","count":2,"ratio":0,"completed":false,"note":null}}` + "\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}

func TestWrite_EDN(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := map[string]any{"data": []sample{{ID: "a", Count: 2, Ratio: 0.5, Completed: true}}}
	if err := Write(&buf, v, "edn", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `{:data [{:completed true :count 2 :id "a" :note nil :ratio 0.5}]}` + "\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}

	buf.Reset()
	if err := Write(&buf, map[string]any{"data": []any{}}, "edn", true); err != nil {
		t.Fatalf("Write pretty: %v", err)
	}
	if buf.String() != "{\n  :data []\n}\n" {
		t.Fatalf("pretty edn = %q", buf.String())
	}
}

func TestWrite_TOML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := map[string]any{"data": []sample{{ID: "a", Count: 2, Completed: true}}}
	if err := Write(&buf, v, "toml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got struct {
		Data []struct {
			ID        string `toml:"id"`
			Count     int    `toml:"count"`
			Completed bool   `toml:"completed"`
		} `toml:"data"`
	}
	if _, err := toml.Decode(buf.String(), &got); err != nil {
		t.Fatalf("decode toml: %v\n%s", err, buf.String())
	}
	if len(got.Data) != 1 || got.Data[0].ID != "a" || got.Data[0].Count != 2 || !got.Data[0].Completed {
		t.Fatalf("unexpected toml round-trip: %#v\n%s", got, buf.String())
	}
	if strings.Contains(buf.String(), "note") {
		t.Fatalf("nil fields should be dropped:\n%s", buf.String())
	}

	if err := Write(&buf, []string{"x"}, "toml", false); err == nil {
		t.Fatalf("expected top-level array to be rejected")
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Write(&bytes.Buffer{}, nil, "yaml", false); err == nil {
		t.Fatalf("expected error")
	}
}

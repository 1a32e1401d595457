package tasks

import (
	"strings"
	"testing"

	"tasklist-cli/internal/model"
)

func TestEncodeTasks_FieldNamesAndOrder(t *testing.T) {
	t.Parallel()

	b, err := EncodeTasks([]model.Task{
		{ID: "b", Title: "Second", Category: "Work", ExpiryDate: "2024-01-02", Completed: true},
		{ID: "a", Title: "First", Category: "Home", ExpiryDate: "2024-01-01"},
	})
	if err != nil {
		t.Fatalf("EncodeTasks: %v", err)
	}
	want := `[{"id":"b","title":"Second","category":"Work","expiryDate":"2024-01-02","notified":false,"completed":true},` +
		`{"id":"a","title":"First","category":"Home","expiryDate":"2024-01-01","notified":false,"completed":false}]`
	if string(b) != want {
		t.Fatalf("EncodeTasks:\nwant: %s\ngot:  %s", want, string(b))
	}

	empty, err := EncodeTasks(nil)
	if err != nil || string(empty) != "[]" {
		t.Fatalf("EncodeTasks(nil) = %q, %v", string(empty), err)
	}
}

func TestDecodeTasks_Errors(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		raw  string
		want string
	}{
		{raw: ``, want: "empty payload"},
		{raw: `nope`, want: "parse tasks"},
		{raw: `[{"id":"","title":"A","category":"Work","expiryDate":"2024-01-01"}]`, want: "schema"},
		{raw: `[{"id":"a","title":"A","category":"Work","expiryDate":"2024-01-01","completed":"yes"}]`, want: "schema"},
		{raw: `[{"id":"a","title":"A","category":"Work","expiryDate":"2024-01-01"},{"id":"a","title":"B","category":"Work","expiryDate":"2024-01-01"}]`, want: "duplicate task id"},
	} {
		_, err := DecodeTasks([]byte(tc.raw))
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("DecodeTasks(%q): expected error containing %q; got %v", tc.raw, tc.want, err)
		}
	}
}

package tasks

import (
	"context"
	"testing"

	"tasklist-cli/internal/model"
	"tasklist-cli/internal/store"
)

func issueCodes(r DoctorReport) []string {
	var out []string
	for _, it := range r.Issues {
		out = append(out, it.Code)
	}
	return out
}

func TestDoctor_CleanStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := store.NewMemoryKV()
	st := newTestStore(t, kv)
	if _, err := st.Create(ctx, "Plan trip", "Personal", "2025-07-01"); err != nil {
		t.Fatalf("create: %v", err)
	}

	r := Doctor(ctx, kv, model.DefaultCategories)
	if r.Tasks != 1 || len(r.Issues) != 0 || r.HasErrors() {
		t.Fatalf("unexpected report: %#v", r)
	}
}

func TestDoctor_ReportsUnreadableAndBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := store.NewMemoryKV()
	if err := kv.Set(ctx, storageKey, []byte(`{"not":"a list"}`)); err != nil {
		t.Fatal(err)
	}
	newTestStore(t, kv).Load(ctx)

	r := Doctor(ctx, kv, model.DefaultCategories)
	if !r.HasErrors() {
		t.Fatalf("expected errors: %#v", r)
	}
	codes := issueCodes(r)
	if len(codes) != 2 || codes[0] != "tasks_unreadable" || codes[1] != "backup_present" {
		t.Fatalf("codes = %v", codes)
	}
}

func TestDoctor_WarnsOnImportedOddities(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := store.NewMemoryKV()
	payload := `[{"id":"a","title":"Fix it!","category":"Errands","expiryDate":"2024-01-15","notified":false,"completed":false}]`
	if err := kv.Set(ctx, storageKey, []byte(payload)); err != nil {
		t.Fatal(err)
	}

	r := Doctor(ctx, kv, model.DefaultCategories)
	if r.HasErrors() || r.Tasks != 1 {
		t.Fatalf("unexpected report: %#v", r)
	}
	codes := issueCodes(r)
	if len(codes) != 2 || codes[0] != "invalid_title" || codes[1] != "unknown_category" {
		t.Fatalf("codes = %v", codes)
	}
}

package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sharedcode/lrc"
)

var ctx = context.Background()

func TestLookupMissingFile(t *testing.T) {
	sr := NewSchemeRepository(filepath.Join(t.TempDir(), "schemes.csv"), nil)
	_, ok, err := sr.Lookup(ctx, lrc.NewQuery(3, 3, 14, 1))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected no record in missing file")
	}
}

func TestAddThenLookup(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "db", "schemes.csv")
	sr := NewSchemeRepository(fn, nil)
	recs := []lrc.Record{
		{Groups: 3, Length: 3, Disks: 14, GlobalS: 1, Scheme: "111s1222s2333s3eg"},
		{Groups: 2, Length: 2, Disks: 8, GlobalS: 1, Scheme: "11s122s2eg"},
		{Groups: 3, Length: 3, Disks: 14, GlobalS: 1, Scheme: "123s1s2s3123123eg"},
	}
	for _, r := range recs {
		if err := sr.Add(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	ba, err := os.ReadFile(fn)
	if err != nil {
		t.Fatal(err)
	}
	want := "3,3,14,1,111s1222s2333s3eg\n2,2,8,1,11s122s2eg\n3,3,14,1,123s1s2s3123123eg\n"
	if string(ba) != want {
		t.Errorf("file content got %q, want %q", ba, want)
	}

	r, ok, err := sr.Lookup(ctx, lrc.NewQuery(3, 3, 14, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !ok || r.Scheme != "111s1222s2333s3eg" {
		t.Errorf("expected first inserted match, got %v, %v", r, ok)
	}
	r, ok, _ = sr.Lookup(ctx, lrc.NewQuery(2, 2, 8, 1))
	if !ok || r.Scheme != "11s122s2eg" {
		t.Errorf("got %v, %v", r, ok)
	}
	if _, ok, _ = sr.Lookup(ctx, lrc.NewQuery(2, 2, 8, 2)); ok {
		t.Error("expected miss on global_s")
	}
}

func TestLookupToleratesLegacyRows(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "schemes.csv")
	// Rows written by hand: a short row, a non numeric field and trailing blanks.
	content := "3,3\n\nx,2,8,1,11s122s2eg \n2,2,8,1,  22s2eg\n"
	if err := os.WriteFile(fn, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	sr := NewSchemeRepository(fn, nil)
	all, err := sr.GetAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	r, ok, err := sr.Lookup(ctx, lrc.Query{lrc.FieldGroups: 0, lrc.FieldLength: 2})
	if err != nil {
		t.Fatal(err)
	}
	if !ok || r.Scheme != "11s122s2eg" {
		t.Errorf("unparsable groups should read as 0, got %v, %v", r, ok)
	}
	r, ok, _ = sr.Lookup(ctx, lrc.NewQuery(2, 2, 8, 1))
	if !ok || r.Scheme != "22s2eg" {
		t.Errorf("expected trimmed scheme, got %q", r.Scheme)
	}
}

type disksAtLeast struct{}

func (disksAtLeast) Match(r lrc.Record, q lrc.Query) (bool, error) {
	return r.Disks >= q[lrc.FieldDisks], nil
}

func TestLookupWithMatcher(t *testing.T) {
	sr := NewSchemeRepository(filepath.Join(t.TempDir(), "schemes.csv"), disksAtLeast{})
	sr.Add(ctx, lrc.Record{Disks: 4, Scheme: "1eg"})
	sr.Add(ctx, lrc.Record{Disks: 10, Scheme: "11eg"})
	r, ok, err := sr.Lookup(ctx, lrc.Query{lrc.FieldDisks: 6})
	if err != nil {
		t.Fatal(err)
	}
	if !ok || r.Scheme != "11eg" {
		t.Errorf("got %v, %v", r, ok)
	}
}

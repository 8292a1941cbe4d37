package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/grpc/codes"

	"github.com/joseph-ayodele/signloop/internal/async"
	"github.com/joseph-ayodele/signloop/internal/common"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{common.NewAppError(common.CodeConfig, "bad", nil), 2},
		{&common.UnsupportedMediaTypeError{MimeType: "application/zip"}, int(codes.InvalidArgument)},
		{common.ErrNoUsableText, int(codes.FailedPrecondition)},
		{&common.ProviderError{Provider: "openrouter", Cause: errors.New("timeout")}, int(codes.Unavailable)},
		{&common.SchemaValidationError{Cause: errors.New("severity")}, int(codes.DataLoss)},
		{errors.New("boom"), int(codes.Internal)},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestListSupported(t *testing.T) {
	dir := t.TempDir()
	write := func(rel string) {
		t.Helper()
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range []string{"a.pdf", "b.PNG", "notes.txt", "archive.zip", "README", ".hidden.pdf", "sub/c.pdf", ".git/d.pdf"} {
		write(name)
	}

	got, err := listSupported(dir, false)
	if err != nil {
		t.Fatalf("listSupported: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %v, want a.pdf, b.PNG and notes.txt", got)
	}

	got, err = listSupported(dir, true)
	if err != nil {
		t.Fatalf("listSupported recursive: %v", err)
	}
	if len(got) != 4 || got[len(got)-1] != filepath.Join(dir, "sub", "c.pdf") {
		t.Fatalf("recursive got %v", got)
	}
}

func TestBatchResultsSortedIsACopy(t *testing.T) {
	var b batchResults
	for _, p := range []string{"c.pdf", "a.pdf", "b.pdf"} {
		b.add(async.Result{Job: async.Job{Path: p}})
	}

	got := b.sorted()
	want := []string{"a.pdf", "b.pdf", "c.pdf"}
	for i, r := range got {
		if r.Job.Path != want[i] {
			t.Fatalf("sorted()[%d] = %s, want %s", i, r.Job.Path, want[i])
		}
	}

	b.add(async.Result{Job: async.Job{Path: "0.pdf"}})
	if len(got) != 3 {
		t.Errorf("snapshot grew to %d after a late add", len(got))
	}
	if b.items[0].Job.Path != "c.pdf" {
		t.Errorf("sorted() reordered the live slice: first = %s", b.items[0].Job.Path)
	}
}

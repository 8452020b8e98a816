package common

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"resumescreen/internal/errors"
)

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(path, []byte("experienced developer"), 0o644); err != nil {
		t.Fatal(err)
	}

	fp := NewFileProcessor(errors.NewLogger(slog.LevelError))

	content, err := fp.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if content != "experienced developer" {
		t.Errorf("content = %q", content)
	}
}

func TestReadFileNotFound(t *testing.T) {
	fp := NewFileProcessor(errors.NewLogger(slog.LevelError))

	_, err := fp.ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("error type = %T, want *errors.AppError", err)
	}
	if appErr.Code != errors.ErrCodeFileNotFound {
		t.Errorf("Code = %s, want %s", appErr.Code, errors.ErrCodeFileNotFound)
	}
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out", "report.txt")

	fp := NewFileProcessor(errors.NewLogger(slog.LevelError))

	if err := fp.WriteFile(path, "report body"); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("written file unreadable: %v", err)
	}
	if string(content) != "report body" {
		t.Errorf("content = %q", content)
	}
}

func TestValidateAndReadFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "jd.txt")
	second := filepath.Join(dir, "resume.md")
	if err := os.WriteFile(first, []byte("job description"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("resume body"), 0o644); err != nil {
		t.Fatal(err)
	}

	fp := NewFileProcessor(errors.NewLogger(slog.LevelError))

	contents, err := fp.ValidateAndReadFiles(first, second)
	if err != nil {
		t.Fatalf("ValidateAndReadFiles failed: %v", err)
	}
	if len(contents) != 2 {
		t.Fatalf("len(contents) = %d, want 2", len(contents))
	}
	if contents[0] != "job description" || contents[1] != "resume body" {
		t.Errorf("contents = %v", contents)
	}
}

func TestValidateAndReadFilesMissingInput(t *testing.T) {
	fp := NewFileProcessor(errors.NewLogger(slog.LevelError))

	_, err := fp.ValidateAndReadFiles(filepath.Join(t.TempDir(), "ghost.txt"))
	if err == nil {
		t.Fatal("expected error for missing input file")
	}
}

func TestReadDocumentPlainTextPassthrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("plain text resume"), 0o644); err != nil {
		t.Fatal(err)
	}

	fp := NewFileProcessor(errors.NewLogger(slog.LevelError))

	content, err := fp.ReadDocument(path)
	if err != nil {
		t.Fatalf("ReadDocument failed: %v", err)
	}
	if content != "plain text resume" {
		t.Errorf("content = %q", content)
	}
}

func TestReadDocumentInvalidPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake.pdf")
	if err := os.WriteFile(path, []byte("not actually a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	fp := NewFileProcessor(errors.NewLogger(slog.LevelError))

	if _, err := fp.ReadDocument(path); err == nil {
		t.Fatal("expected error for invalid PDF content")
	}
}

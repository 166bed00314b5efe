package resume

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		file   string
		size   int64
		format Format
		err    error
	}{
		{name: "pdf", file: "cv.pdf", size: 1024, format: FormatPDF},
		{name: "docx upper case", file: "CV.DOCX", size: 1024, format: FormatDOCX},
		{name: "exactly at limit", file: "cv.pdf", size: MaxFileSize, format: FormatPDF},
		{name: "text file", file: "cv.txt", size: 10, err: ErrUnsupportedType},
		{name: "legacy doc", file: "cv.doc", size: 10, err: ErrUnsupportedType},
		{name: "no extension", file: "resume", size: 10, err: ErrUnsupportedType},
		{name: "twelve megabytes", file: "cv.pdf", size: 12 * 1024 * 1024, err: ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			format, err := Validate(tt.file, tt.size)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("expected %v, got %v", tt.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if format != tt.format {
				t.Fatalf("expected %s, got %s", tt.format, format)
			}
		})
	}
}

func TestOversizedFileIsNotFormatError(t *testing.T) {
	t.Parallel()

	_, err := Validate("cv.docx", 12*1024*1024)
	if errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("size rejection must be distinct from format rejection: %v", err)
	}
}

func TestLoadDOCX(t *testing.T) {
	t.Parallel()

	path := writeDOCX(t, []string{"Jane Doe", "jane@doe.dev", "React and Docker"})

	info, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.Name != "Jane Doe" || info.Email != "jane@doe.dev" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if len(info.Skills) != 2 {
		t.Fatalf("expected 2 skills, got %v", info.Skills)
	}
}

func TestLoadEmptyDOCX(t *testing.T) {
	t.Parallel()

	path := writeDOCX(t, []string{"   "})

	_, err := Load(context.Background(), path)
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestLoadRejectsBeforeExtraction(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte("Jane Doe"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := Load(context.Background(), path); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestDocumentText(t *testing.T) {
	t.Parallel()

	xml := `<w:document xmlns:w="w"><w:body>` +
		`<w:p><w:r><w:t>Jane</w:t><w:tab/><w:t>Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Line</w:t><w:br/><w:t>Break</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	text, err := documentText(strings.NewReader(xml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if text != "Jane\tDoe\nLine\nBreak\n" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func writeDOCX(t *testing.T, paragraphs []string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "resume.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create docx: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create(docxBody)
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}

	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">` + p + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	if _, err := w.Write([]byte(body.String())); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	return path
}

func TestExtractDOCXRejectsOversizedBody(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bomb.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create docx: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create(docxBody)
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	chunk := []byte(strings.Repeat(" ", 1<<20))
	for written := 0; written <= maxDocumentBody; written += len(chunk) {
		if _, err := w.Write(chunk); err != nil {
			t.Fatalf("write entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	stat, err := f.Stat()
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if stat.Size() > MaxFileSize {
		t.Fatalf("compressed file should pass the upload limit, got %d bytes", stat.Size())
	}

	if _, err := ExtractText(context.Background(), path, FormatDOCX); !errors.Is(err, errDocumentTooLarge) {
		t.Fatalf("expected errDocumentTooLarge, got %v", err)
	}
}

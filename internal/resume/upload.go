package resume

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize is the largest résumé accepted for extraction.
const MaxFileSize = 10 * 1024 * 1024

var (
	ErrUnsupportedType = errors.New("please upload a PDF or DOCX file")
	ErrFileTooLarge    = errors.New("file size must be less than 10MB")
	ErrNoText          = errors.New("no text content found in the file; ensure your resume contains selectable text")
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Validate checks name and size before any extraction is attempted.
func Validate(name string, size int64) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")

	var format Format
	switch Format(ext) {
	case FormatPDF, FormatDOCX:
		format = Format(ext)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Base(name))
	}

	if size > MaxFileSize {
		return "", fmt.Errorf("%w: %d bytes", ErrFileTooLarge, size)
	}

	return format, nil
}

// Load validates the file at path, extracts its text and returns the parsed profile.
func Load(ctx context.Context, path string) (*Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat resume: %w", err)
	}

	format, err := Validate(stat.Name(), stat.Size())
	if err != nil {
		return nil, err
	}

	text, err := ExtractText(ctx, path, format)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}

	return Extract(text), nil
}

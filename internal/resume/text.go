package resume

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const docxBody = "word/document.xml"

// maxDocumentBody caps the decompressed size of word/document.xml.
const maxDocumentBody = 32 << 20

var errDocumentTooLarge = errors.New("docx document body is too large")

// pdfToText is the poppler binary used for PDF extraction.
var pdfToText = "pdftotext"

// ExtractText returns the raw text of a PDF or DOCX résumé.
func ExtractText(ctx context.Context, path string, format Format) (string, error) {
	switch format {
	case FormatPDF:
		return extractPDF(ctx, path)
	case FormatDOCX:
		return extractDOCX(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, format)
	}
}

func extractPDF(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, pdfToText, "-layout", path, "-")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdf extraction requires %q (install poppler-utils): %w", pdfToText, err)
	}

	return string(output), nil
}

func extractDOCX(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer archive.Close()

	for _, f := range archive.File {
		if f.Name != docxBody {
			continue
		}

		if f.UncompressedSize64 > maxDocumentBody {
			return "", errDocumentTooLarge
		}

		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", docxBody, err)
		}
		defer rc.Close()

		// The header size can lie, so the stream itself is capped too.
		body, err := io.ReadAll(io.LimitReader(rc, maxDocumentBody+1))
		if err != nil {
			return "", fmt.Errorf("read %s: %w", docxBody, err)
		}
		if len(body) > maxDocumentBody {
			return "", errDocumentTooLarge
		}

		return documentText(bytes.NewReader(body))
	}

	return "", fmt.Errorf("docx has no %s", docxBody)
}

// documentText flattens WordprocessingML into plain text, one paragraph per line.
func documentText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var (
		builder strings.Builder
		inText  bool
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", docxBody, err)
		}

		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "tab":
				builder.WriteString("\t")
			case "br", "cr":
				builder.WriteString("\n")
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				builder.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				builder.Write(el)
			}
		}
	}

	return builder.String(), nil
}

// Package decode turns uploaded resume files into plain text.
package decode

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

// File types.
const (
	TypeText = "txt"
	TypePDF  = "pdf"
	TypeDOCX = "docx"
)

// Extracted is decoded text with its provenance.
type Extracted struct {
	Text     string
	Method   string
	FileType string
}

// Decoder decodes uploads up to a size limit.
type Decoder struct {
	maxBytes int64
}

// New creates a decoder. maxBytes <= 0 disables the size limit.
func New(maxBytes int64) *Decoder {
	return &Decoder{maxBytes: maxBytes}
}

// Text decodes data according to the extension of fileName.
func (d *Decoder) Text(ctx context.Context, data []byte, fileName string) (Extracted, error) {
	if err := ctx.Err(); err != nil {
		return Extracted{}, err
	}
	if d.maxBytes > 0 && int64(len(data)) > d.maxBytes {
		return Extracted{}, fmt.Errorf("%s is %d bytes (limit %d): %w",
			fileName, len(data), d.maxBytes, domain.ErrDocumentTooLarge)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	switch ext {
	case TypeText, "text", "md":
		if !utf8.Valid(data) {
			return Extracted{}, fmt.Errorf("%s: invalid utf-8: %w", fileName, domain.ErrUnsupportedFormat)
		}
		return Extracted{Text: string(data), Method: "plain", FileType: TypeText}, nil
	case TypePDF:
		text, err := pdfText(data)
		if err != nil {
			return Extracted{}, fmt.Errorf("decode pdf %s: %w", fileName, err)
		}
		return Extracted{Text: text, Method: "pdf", FileType: TypePDF}, nil
	case TypeDOCX:
		text, err := docxText(data)
		if err != nil {
			return Extracted{}, fmt.Errorf("decode docx %s: %w", fileName, err)
		}
		return Extracted{Text: text, Method: "docx", FileType: TypeDOCX}, nil
	default:
		return Extracted{}, fmt.Errorf("file type %q: %w", ext, domain.ErrUnsupportedFormat)
	}
}

// pdfText recovers from panics raised by the pdf reader on malformed input.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var body *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			body = f
			break
		}
	}
	if body == nil {
		return "", errors.New("word/document.xml not found")
	}

	rc, err := body.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	return paragraphs(rc)
}

// paragraphs collects character data, breaking lines at paragraph, line
// break and tab elements.
func paragraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var buf strings.Builder
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.StartElement:
			if t.Name.Local == "tab" {
				buf.WriteByte('\t')
			}
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				buf.WriteByte('\n')
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

package decode

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

func docx(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const documentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>EXPERIENCE</w:t></w:r></w:p>
<w:p><w:r><w:t>Go</w:t><w:tab/><w:t>Python</w:t></w:r></w:p>
</w:body>
</w:document>`

func TestText_Plain(t *testing.T) {
	got, err := New(0).Text(context.Background(), []byte("Jane Doe\nGo developer"), "cv.TXT")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got.Text != "Jane Doe\nGo developer" || got.Method != "plain" || got.FileType != TypeText {
		t.Errorf("got %+v", got)
	}
}

func TestText_Docx(t *testing.T) {
	data := docx(t, map[string]string{"word/document.xml": documentXML})
	got, err := New(0).Text(context.Background(), data, "resume.docx")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if want := "Jane Doe\nEXPERIENCE\nGo\tPython"; strings.ReplaceAll(got.Text, "\n\n", "\n") != want {
		t.Errorf("Text = %q, want %q", got.Text, want)
	}
	if got.FileType != TypeDOCX {
		t.Errorf("FileType = %q", got.FileType)
	}
}

func TestText_DocxWithoutBody(t *testing.T) {
	data := docx(t, map[string]string{"notes.txt": "hello"})
	if _, err := New(0).Text(context.Background(), data, "resume.docx"); err == nil {
		t.Fatal("expected error for docx without word/document.xml")
	}
}

func TestText_Errors(t *testing.T) {
	tests := []struct {
		name     string
		max      int64
		data     []byte
		fileName string
		want     error
	}{
		{"unsupported", 0, []byte("x"), "resume.rtf", domain.ErrUnsupportedFormat},
		{"no extension", 0, []byte("x"), "resume", domain.ErrUnsupportedFormat},
		{"invalid utf8", 0, []byte{0xff, 0xfe}, "resume.txt", domain.ErrUnsupportedFormat},
		{"too large", 4, []byte("hello"), "resume.txt", domain.ErrDocumentTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.max).Text(context.Background(), tt.data, tt.fileName)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestText_CorruptPDF(t *testing.T) {
	if _, err := New(0).Text(context.Background(), []byte("%PDF-1.4 garbage"), "cv.pdf"); err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
}

func TestText_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(0).Text(ctx, []byte("x"), "cv.txt"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want Canceled", err)
	}
}

package util

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/gen2brain/go-fitz"
	"github.com/nguyenthenguyen/docx"
)

// ErrUnsupportedFormat is returned for resume files that are not PDF, DOC(X) or TXT.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// SupportedResumeExtensions lists the extensions accepted by ExtractResumeText.
var SupportedResumeExtensions = []string{".pdf", ".doc", ".docx", ".txt"}

// ExtractResumeText dispatches on the file extension and returns the plain text of the resume.
func ExtractResumeText(ctx context.Context, fileName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if !slices.Contains(SupportedResumeExtensions, ext) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	switch ext {
	case ".pdf":
		return ExtractPDF(ctx, data)
	case ".doc", ".docx":
		return ExtractDOCX(data)
	default:
		return ExtractTXT(data)
	}
}

// ExtractTXT decodes a UTF-8 text resume.
func ExtractTXT(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", errors.New("text file is not valid UTF-8")
	}
	return string(data), nil
}

// ExtractDOCX reads the paragraphs of a Word document.
func ExtractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	defer doc.Close()

	return stripDocxXML(doc.Editable().GetContent()), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.StartElement:
			if t.Name.Local == "tab" {
				buf.WriteString("\t")
			}
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				buf.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// ExtractPDF returns the text layer of a PDF. Scanned documents without a text
// layer fall back to OCR through tesseract.
func ExtractPDF(ctx context.Context, data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var fullText strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		pageText, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("page %d: failed to extract text: %w", n+1, err)
		}
		pageText = strings.TrimSpace(pageText)
		if pageText != "" {
			fullText.WriteString(pageText)
			fullText.WriteString("\n")
		}
	}

	if result := strings.TrimSpace(fullText.String()); result != "" {
		return result, nil
	}

	log.Printf("PDF has no text layer (%d pages), falling back to OCR", doc.NumPage())
	return extractPDFOCR(ctx, doc)
}

func extractPDFOCR(ctx context.Context, doc *fitz.Document) (string, error) {
	if err := checkTesseract(ctx); err != nil {
		return "", fmt.Errorf("tesseract check failed: %w", err)
	}

	var fullText bytes.Buffer
	var lastErr error

	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.Image(n)
		if err != nil {
			lastErr = fmt.Errorf("page %d: failed to extract image: %w", n+1, err)
			log.Println(lastErr)
			continue
		}

		tmpFile, err := os.CreateTemp("", "resume-page-*.png")
		if err != nil {
			lastErr = fmt.Errorf("page %d: failed to create temp file: %w", n+1, err)
			log.Println(lastErr)
			continue
		}
		tmpPath := tmpFile.Name()
		tmpFile.Close()

		pageText, err := ocrPage(ctx, tmpPath, img)
		os.Remove(tmpPath)
		if err != nil {
			lastErr = fmt.Errorf("page %d: %w", n+1, err)
			log.Println(lastErr)
			continue
		}

		if len(pageText) > 0 {
			fullText.WriteString(pageText)
			fullText.WriteString("\n\n")
		}
	}

	result := strings.TrimSpace(fullText.String())
	if len(result) == 0 {
		if lastErr != nil {
			return "", fmt.Errorf("failed to extract text via OCR: %w", lastErr)
		}
		return "", errors.New("no text extracted from PDF (PDF might be empty or images are unreadable)")
	}
	return result, nil
}

func ocrPage(ctx context.Context, path string, img image.Image) (string, error) {
	if err := savePNG(path, img); err != nil {
		return "", fmt.Errorf("failed to save PNG: %w", err)
	}
	out, err := exec.CommandContext(ctx, "tesseract", path, "stdout", "-l", "eng").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("tesseract error: %w, output: %s", err, string(out))
	}
	return strings.TrimSpace(string(out)), nil
}

func checkTesseract(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, "tesseract", "-v").CombinedOutput()
	if err != nil {
		return fmt.Errorf("tesseract not found or not executable: %w\nOutput: %s", err, string(out))
	}
	log.Printf("Tesseract version: %s", strings.Split(string(out), "\n")[0])
	return nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

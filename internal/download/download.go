// ABOUTME: File-delivery collaborator for export documents
// ABOUTME: Hands an encoded document to the user as a file or a stream

package download

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/harper/wxhistory/internal/export"
	"github.com/harper/wxhistory/internal/storage"
)

// Offerer delivers a document and describes where it went.
type Offerer interface {
	Offer(doc *export.Document) (string, error)
}

// DirOfferer saves documents under a directory using their suggested file name.
type DirOfferer struct {
	Dir string
}

// Offer writes the document atomically and returns its path.
func (d DirOfferer) Offer(doc *export.Document) (string, error) {
	if doc.FileName == "" || filepath.Base(doc.FileName) != doc.FileName {
		return "", fmt.Errorf("invalid document file name %q", doc.FileName)
	}
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, doc.FileName)
	if err := storage.AtomicWrite(path, doc.Content); err != nil {
		return "", fmt.Errorf("save %s: %w", doc.FileName, err)
	}
	return path, nil
}

// FileOfferer saves a document to an explicit path, ignoring its suggested name.
type FileOfferer struct {
	Path string
}

// Offer writes the document atomically to Path.
func (f FileOfferer) Offer(doc *export.Document) (string, error) {
	if err := storage.AtomicWrite(f.Path, doc.Content); err != nil {
		return "", fmt.Errorf("save %s: %w", f.Path, err)
	}
	return f.Path, nil
}

// WriterOfferer streams documents to a writer such as stdout.
type WriterOfferer struct {
	W    io.Writer
	Name string
}

// Offer copies the document content to the writer. A trailing newline is
// added for text formats that lack one so terminal prompts start cleanly.
func (w WriterOfferer) Offer(doc *export.Document) (string, error) {
	if _, err := w.W.Write(doc.Content); err != nil {
		return "", fmt.Errorf("write %s: %w", doc.FileName, err)
	}
	if n := len(doc.Content); n > 0 && doc.Content[n-1] != '\n' {
		if _, err := io.WriteString(w.W, "\n"); err != nil {
			return "", fmt.Errorf("write %s: %w", doc.FileName, err)
		}
	}
	name := w.Name
	if name == "" {
		name = "stdout"
	}
	return name, nil
}

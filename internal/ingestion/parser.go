package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SourceDocument is one knowledge-base file before chunking.
type SourceDocument struct {
	Title   string
	Content string
	Path    string
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads one .txt or .md knowledge-base file. The file stem
// becomes the document title.
func (p *Parser) ParseFile(path string) (*SourceDocument, error) {
	path = strings.TrimSpace(path)

	ext := filepath.Ext(path)
	if ext != ".txt" && ext != ".md" {
		return nil, fmt.Errorf("unsupported file type %s (expected .txt or .md)", ext)
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	content := strings.TrimSpace(string(bytes))
	if content == "" {
		return nil, fmt.Errorf("file %s is empty", path)
	}

	filename := filepath.Base(path)
	title := strings.TrimSuffix(filename, ext)

	return &SourceDocument{
		Title:   title,
		Content: content,
		Path:    path,
	}, nil
}

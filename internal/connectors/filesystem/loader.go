// Package filesystem loads corpus documents from local files and watches
// directories for changes.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
	"github.com/custodia-labs/groundrag/internal/logger"
	"github.com/custodia-labs/groundrag/internal/normalisers"
)

// Ensure Loader implements the interface.
var _ driven.CorpusLoader = (*Loader)(nil)

// Loader reads a file or a directory tree into documents.
// Hidden files and directories are skipped, as are files whose MIME type has
// no normaliser or whose bytes are not valid UTF-8.
type Loader struct {
	registry *normalisers.Registry
	home     string
}

// NewLoader creates a loader that normalises files through registry.
func NewLoader(registry *normalisers.Registry) *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		registry: registry,
		home:     home,
	}
}

// Load reads location. A directory is walked recursively in lexical order.
// An empty result is valid.
func (l *Loader) Load(ctx context.Context, location string) ([]domain.Document, error) {
	root := ResolvePath(location, l.home)
	if root == "" {
		return nil, fmt.Errorf("%w: location is required", domain.ErrInvalidInput)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnreadableSource, err)
	}

	if !info.IsDir() {
		doc, err := l.loadFile(ctx, root, filepath.Base(root))
		if err != nil || doc == nil {
			return nil, err
		}
		return []domain.Document{*doc}, nil
	}

	var docs []domain.Document
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			return fmt.Errorf("%w: %w", domain.ErrUnreadableSource, walkErr)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrUnreadableSource, err)
		}
		if rel != "." && isHidden(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		doc, err := l.loadFile(ctx, path, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if doc != nil {
			docs = append(docs, *doc)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("loading %s: %w", root, err)
	}

	logger.Debug("Loaded %d documents from %s", len(docs), root)
	return docs, nil
}

// loadFile returns nil without error for files that are skipped.
func (l *Loader) loadFile(ctx context.Context, path, sourceID string) (*domain.Document, error) {
	mimeType := detectMIMEType(path)
	normaliser, err := l.registry.Get(mimeType)
	if err != nil {
		logger.Debug("Skipping %s: %v", path, err)
		return nil, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnreadableSource, err)
	}
	if !utf8.Valid(content) {
		logger.Debug("Skipping %s: not valid UTF-8", path)
		return nil, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	doc, err := normaliser.Normalise(ctx, &domain.RawDocument{
		SourceID: sourceID,
		URI:      abs,
		MIMEType: mimeType,
		Content:  content,
	})
	if err != nil {
		return nil, fmt.Errorf("normalising %s: %w", path, err)
	}
	return doc, nil
}

// Package ingest feeds reference material (solved cases, design notes)
// into the semantic index.
package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"triz/internal/logging"
	"triz/internal/vector"
)

// maxChunkRunes bounds one indexed chunk. Long documents are split on
// paragraph boundaries.
const maxChunkRunes = 2000

// Extractor turns a file into plain text.
type Extractor interface {
	// Extract returns the text content of the file. Unsupported file
	// types return ok=false and no error.
	Extract(path string) (text string, ok bool, err error)
}

// TextExtractor handles plain-text formats.
type TextExtractor struct{}

var _ Extractor = TextExtractor{}

func (TextExtractor) Extract(path string) (string, bool, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".rst":
	default:
		return "", false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("ingest: read %s: %w", path, err)
	}
	return string(data), true, nil
}

// Ingestor walks directories and indexes their content.
type Ingestor struct {
	searcher  vector.Searcher
	extractor Extractor
	log       *slog.Logger
	// Workers bounds concurrent file extraction. Zero means 4.
	Workers int
}

// New builds an Ingestor over the given searcher. A nil extractor
// defaults to TextExtractor.
func New(searcher vector.Searcher, extractor Extractor) *Ingestor {
	if extractor == nil {
		extractor = TextExtractor{}
	}
	return &Ingestor{
		searcher:  searcher,
		extractor: extractor,
		log:       logging.New("ingest"),
	}
}

// Dir ingests every supported file under root and returns the number
// of indexed chunks. Unsupported files are skipped; a failing file
// fails the whole run.
func (g *Ingestor) Dir(ctx context.Context, root string) (int, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("ingest: walk %s: %w", root, err)
	}
	sort.Strings(paths)

	workers := g.Workers
	if workers <= 0 {
		workers = 4
	}

	var mu sync.Mutex
	var docs []vector.Document

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, path := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, ok, err := g.extractor.Extract(path)
			if err != nil {
				return err
			}
			if !ok || strings.TrimSpace(text) == "" {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				rel = path
			}
			chunks := splitChunks(text)
			mu.Lock()
			for i, chunk := range chunks {
				source := rel
				if len(chunks) > 1 {
					source = fmt.Sprintf("%s#%d", rel, i+1)
				}
				docs = append(docs, vector.Document{Content: chunk, Source: source})
			}
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}

	// Keep chunk order stable regardless of extraction order.
	sort.Slice(docs, func(i, j int) bool { return docs[i].Source < docs[j].Source })
	if err := g.searcher.Index(ctx, docs); err != nil {
		return 0, err
	}
	g.log.Info("directory ingested", "root", root, "files", len(paths), "chunks", len(docs))
	return len(docs), nil
}

// splitChunks splits text on blank lines, merging paragraphs until the
// chunk limit is reached.
func splitChunks(text string) []string {
	paragraphs := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
	var chunks []string
	var cur strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if cur.Len() > 0 && len([]rune(cur.String()))+len([]rune(p)) > maxChunkRunes {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString("\n\n")
		}
		cur.WriteString(p)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

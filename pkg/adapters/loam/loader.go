package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/parley/internal/compiler"
	"github.com/aretw0/parley/internal/dto"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/registry"
)

// Loader adapts a Loam repository to the DialogueLoader port.
// Every document holds one dialogue in its metadata; the body becomes the
// description when the metadata has none.
type Loader struct {
	Repo     *loam.TypedRepository[dto.Document]
	compiler *compiler.Compiler
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[dto.Document], reg *registry.Registry) *Loader {
	return &Loader{
		Repo:     repo,
		compiler: compiler.New(compiler.WithRegistry(reg)),
	}
}

// Open initializes a read-only Loam repository at dir.
// Strict mode makes every adapter (Markdown, YAML, JSON) report numbers as json.Number.
func Open(dir string, reg *registry.Registry) (*Loader, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(abs,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[dto.Document](repo), reg), nil
}

type entry struct {
	path string
	doc  dto.Document
	body string
}

// Load compiles the dialogue whose ID is id.
func (l *Loader) Load(ctx context.Context, id string) (*domain.Dialogue, error) {
	entries, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	e, ok := entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDialogueNotFound, id)
	}

	doc := e.doc
	if doc.Name == "" {
		doc.Name = id
	}
	if doc.Description == "" {
		doc.Description = strings.TrimSpace(e.body)
	}
	if err := l.compiler.Validate(&doc); err != nil {
		return nil, fmt.Errorf("invalid dialogue in %s: %w", e.path, err)
	}
	d, err := l.compiler.Compile(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", e.path, err)
	}
	return d, nil
}

// List returns the dialogue IDs in the repository.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	entries, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// index maps dialogue IDs to their documents. The ID is the dialogue name,
// or the file path without extension when the document has no name.
func (l *Loader) index(ctx context.Context) (map[string]entry, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	out := make(map[string]entry, len(docs))
	for _, doc := range docs {
		id := doc.Data.Name
		if id == "" {
			id = trimExtension(doc.ID)
		}
		if existing, ok := out[id]; ok {
			return nil, fmt.Errorf("collision detected: dialogue '%s' is defined in both '%s' and '%s'", id, existing.path, doc.ID)
		}
		out[id] = entry{path: doc.ID, doc: doc.Data, body: doc.Content}
	}
	return out, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

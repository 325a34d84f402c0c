package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/parley/internal/presentation/graph"
)

// RunGraph prints the Mermaid flowchart of a dialogue. With history set,
// the nodes visited by earlier runs are highlighted.
func RunGraph(ctx context.Context, opts Options, id string, history bool, out io.Writer) error {
	logger := createLogger(opts, true)
	engine, err := createEngine(opts, logger)
	if err != nil {
		return err
	}

	d, err := pickDialogue(ctx, engine, id)
	if err != nil {
		return err
	}

	var overlay *graph.GraphOverlay
	if history {
		p := setupPersistence(opts, engine.Memory(), logger)
		defer p.Close()
		if err := p.Syncer.Restore(ctx); err != nil {
			return fmt.Errorf("failed to restore history: %w", err)
		}
		if h, ok := engine.Memory().NodeHistory(d.GUID()); ok {
			overlay = graph.OverlayFromHistory(h, -1)
		}
	}

	fmt.Fprintln(out, graph.GenerateMermaid(d, overlay))
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aretw0/parley"
	"github.com/aretw0/parley/internal/presentation/tui"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/muesli/termenv"
)

// PlayOptions configures an interactive session.
type PlayOptions struct {
	Options
	// Dialogue is the id to play. Empty is allowed when the repository holds a single dialogue.
	Dialogue string
	Headless bool
	// Fresh forgets what earlier runs visited in this dialogue.
	Fresh bool
	// Interactive enables the banner, markdown rendering and colored speakers.
	Interactive bool
}

// RunPlay plays one dialogue over in and out with the participants it declares.
// The global visitation memory is restored before and flushed after the session.
func RunPlay(ctx context.Context, opts PlayOptions, in io.Reader, out io.Writer) error {
	logger := createLogger(opts.Options, true)

	engine, err := createEngine(opts.Options, logger)
	if err != nil {
		return err
	}

	p := setupPersistence(opts.Options, engine.Memory(), logger)
	defer p.Close()

	if err := p.Syncer.Restore(ctx); err != nil {
		return fmt.Errorf("failed to restore history: %w", err)
	}

	d, err := pickDialogue(ctx, engine, opts.Dialogue)
	if err != nil {
		return err
	}
	if opts.Fresh {
		if err := p.Syncer.ClearDialogue(ctx, d.GUID()); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
	}

	c, err := engine.StartWithDefaultParticipants(ctx, d, memory.PoolFromDialogue(d))
	if err != nil {
		return fmt.Errorf("cannot start dialogue %q: %w", d.Name(), err)
	}

	runner := parley.NewRunner(in, out)
	runner.Headless = opts.Headless
	if opts.Interactive && !opts.Headless {
		tui.PrintBanner(out)
		runner.Renderer = tui.NewRenderer()
		runner.Speaker = tui.SpeakerStyler(termenv.ColorProfile())
	}

	runErr := runner.Run(ctx, c)

	// Visits are kept even when the session was interrupted.
	if err := p.Syncer.Flush(context.Background()); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("failed to save history: %w", err))
	}
	if runErr == nil && opts.Debug {
		printSystemMessage(out, "Session finished at node %d (%s).", c.ActiveNodeIndex(), c.State())
	}
	return handleExecutionError(runErr)
}

func pickDialogue(ctx context.Context, engine *parley.Engine, id string) (*domain.Dialogue, error) {
	if id != "" {
		return engine.Load(ctx, id)
	}
	ids, err := engine.Dialogues(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dialogues: %w", err)
	}
	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("no dialogues found in %s", engine.Name)
	case 1:
		return engine.Load(ctx, ids[0])
	}
	sort.Strings(ids)
	return nil, fmt.Errorf("several dialogues found, pick one of: %s", strings.Join(ids, ", "))
}

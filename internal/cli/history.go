package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/aretw0/parley"
	"github.com/google/uuid"
)

// RunHistoryShow lists the dialogues with recorded visits.
func RunHistoryShow(ctx context.Context, opts Options, out io.Writer) error {
	logger := createLogger(opts, true)
	engine, err := createEngine(opts, logger)
	if err != nil {
		return err
	}
	p := setupPersistence(opts, engine.Memory(), logger)
	defer p.Close()

	if err := p.Syncer.Restore(ctx); err != nil {
		return fmt.Errorf("failed to restore history: %w", err)
	}

	names := dialogueNames(ctx, engine)
	entries := engine.DialogueHistory()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history recorded.")
		return nil
	}

	guids := make([]uuid.UUID, 0, len(entries))
	for guid := range entries {
		guids = append(guids, guid)
	}
	sort.Slice(guids, func(i, j int) bool { return guids[i].String() < guids[j].String() })

	for _, guid := range guids {
		name, ok := names[guid]
		if !ok {
			name = "(unknown)"
		}
		indices := entries[guid].Indices()
		fmt.Fprintf(out, "%s %s: %d nodes visited %v\n", guid, name, len(indices), indices)
	}
	return nil
}

// RunHistoryClear forgets the visits of one dialogue, or of all of them when id is empty.
func RunHistoryClear(ctx context.Context, opts Options, id string, out io.Writer) error {
	logger := createLogger(opts, true)
	engine, err := createEngine(opts, logger)
	if err != nil {
		return err
	}
	p := setupPersistence(opts, engine.Memory(), logger)
	defer p.Close()

	if id == "" {
		if err := p.Syncer.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		printSystemMessage(out, "History cleared.")
		return nil
	}

	d, err := engine.Load(ctx, id)
	if err != nil {
		return err
	}
	if err := p.Syncer.ClearDialogue(ctx, d.GUID()); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	printSystemMessage(out, "History of %s cleared.", d.Name())
	return nil
}

// dialogueNames maps the GUIDs of the dialogues that still compile to their names.
func dialogueNames(ctx context.Context, engine *parley.Engine) map[uuid.UUID]string {
	out := make(map[uuid.UUID]string)
	ids, err := engine.Dialogues(ctx)
	if err != nil {
		return out
	}
	for _, id := range ids {
		if d, err := engine.Load(ctx, id); err == nil {
			out[d.GUID()] = d.Name()
		}
	}
	return out
}

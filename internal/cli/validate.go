package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aretw0/parley"
	"github.com/aretw0/parley/internal/validator"
)

// RunValidate compiles every dialogue of the repository and lints its graph.
// Warnings are printed; compile failures and graph errors fail the run.
func RunValidate(ctx context.Context, opts Options, out io.Writer) error {
	logger := createLogger(opts, true)
	engine, err := createEngine(opts, logger)
	if err != nil {
		return err
	}
	return validateAll(ctx, engine, out)
}

// RunValidateWatch validates once, then again every time a document changes,
// until ctx is cancelled.
func RunValidateWatch(ctx context.Context, opts Options, out io.Writer) error {
	logger := createLogger(opts, true)
	engine, err := createEngine(opts, logger)
	if err != nil {
		return err
	}

	changes, err := engine.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch not supported: %w", err)
	}

	report := func() {
		if err := validateAll(ctx, engine, out); err != nil {
			fmt.Fprintf(out, "❌ %v\n", err)
		}
	}
	report()
	printSystemMessage(out, "Watching %s for changes...", opts.Dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case id, ok := <-changes:
			if !ok {
				return nil
			}
			printSystemMessage(out, "Change detected in %s, validating...", id)
			report()
		}
	}
}

func validateAll(ctx context.Context, engine *parley.Engine, out io.Writer) error {
	ids, err := engine.Dialogues(ctx)
	if err != nil {
		return fmt.Errorf("failed to list dialogues: %w", err)
	}
	sort.Strings(ids)

	var failures []string
	for _, id := range ids {
		d, err := engine.Load(ctx, id)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		for _, issue := range validator.Lint(d) {
			if issue.Severity == validator.SeverityWarning {
				fmt.Fprintf(out, "⚠️  %s: %s\n", id, issue)
			}
		}
		if err := validator.ValidateGraph(d); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", id, err))
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d of %d dialogues are invalid:\n%s", len(failures), len(ids), strings.Join(failures, "\n"))
	}
	fmt.Fprintf(out, "✅ %d dialogues are valid.\n", len(ids))
	return nil
}

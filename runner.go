package parley

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrSessionFailed is returned by Runner.Run when the session ended on a failure.
var ErrSessionFailed = errors.New("dialogue session failed")

// Runner drives a session over line-based IO: it prints the active line and
// the satisfied options, then reads the number of the chosen option.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	Input  io.Reader
	Output io.Writer
	// Headless always takes the first option and prints nothing but the lines.
	Headless bool
	Renderer ContentRenderer
	// Speaker decorates the speaker name, e.g. with terminal colors.
	Speaker func(name string) string
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner over the given IO.
func NewRunner(in io.Reader, out io.Writer) *Runner {
	return &Runner{Input: in, Output: out}
}

// Run loops until the session ends, the input is exhausted or the user types "exit".
func (r *Runner) Run(ctx context.Context, c *Context) error {
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	if r.Input == nil && !r.Headless {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	var lines *bufio.Reader
	if r.Input != nil {
		lines = bufio.NewReader(r.Input)
	}

	for !c.IsEnded() {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.printLine(ctx, c)

		count := c.OptionCount()
		if count == 0 {
			break
		}

		choice := 0
		if !r.Headless {
			for i := 0; i < count; i++ {
				text := c.OptionText(ctx, i)
				if text == "" {
					text = "..."
				}
				fmt.Fprintf(r.Output, "  %d) %s\n", i+1, text)
			}

			n, quit, err := r.readChoice(lines, count)
			if err != nil {
				return err
			}
			if quit {
				fmt.Fprintln(r.Output, "Bye!")
				return nil
			}
			choice = n
		}

		if !c.ChooseOption(ctx, choice) {
			return fmt.Errorf("%w: %s", ErrSessionFailed, c.String())
		}
	}

	if node, ok := c.ActiveNode(); ok && c.IsEnded() && node.Text != "" {
		r.printLine(ctx, c)
	}
	return nil
}

func (r *Runner) printLine(ctx context.Context, c *Context) {
	text := c.ActiveNodeText(ctx)
	if text == "" {
		return
	}
	if r.Renderer != nil {
		if rendered, err := r.Renderer(text); err == nil {
			text = rendered
		}
	}
	text = strings.TrimSpace(text)

	if name := c.ActiveParticipantDisplayName(); name != "" {
		if r.Speaker != nil {
			name = r.Speaker(name)
		}
		fmt.Fprintf(r.Output, "%s: %s\n", name, text)
		return
	}
	fmt.Fprintln(r.Output, text)
}

// readChoice prompts until a valid 1-based option number is entered.
func (r *Runner) readChoice(lines *bufio.Reader, count int) (int, bool, error) {
	for {
		fmt.Fprint(r.Output, "> ")
		text, err := lines.ReadString('\n')
		input := strings.TrimSpace(text)
		if err != nil && input == "" {
			if err == io.EOF {
				// Graceful exit on EOF
				return 0, true, nil
			}
			return 0, false, fmt.Errorf("input error: %w", err)
		}

		if input == "exit" || input == "quit" {
			return 0, true, nil
		}
		n, convErr := strconv.Atoi(input)
		if convErr == nil && n >= 1 && n <= count {
			return n - 1, false, nil
		}
		fmt.Fprintf(r.Output, "Choose a number between 1 and %d.\n", count)
		if err != nil {
			return 0, true, nil
		}
	}
}

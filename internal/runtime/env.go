package runtime

import (
	"log/slog"
	"math/rand/v2"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/history"
	"github.com/aretw0/parley/pkg/ports"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Env holds the collaborators shared by every Context created by one engine.
type Env struct {
	Logger *slog.Logger
	// Memory is the global visitation memory. Contexts write every visit to it.
	Memory *history.Memory
	// Accessor serves class-variable conditions, events and text arguments.
	// When nil those fail closed with an error log.
	Accessor ports.VariableAccessor
	Hooks    domain.LifecycleHooks
	// Printer formats numeric text arguments.
	Printer *message.Printer
	// Intn returns a number in [0, n). Random selectors use it.
	Intn func(n int) int
}

func (e Env) withDefaults() Env {
	if e.Logger == nil {
		e.Logger = logging.NewNop()
	}
	if e.Memory == nil {
		e.Memory = history.NewMemory()
	}
	if e.Printer == nil {
		e.Printer = message.NewPrinter(language.English)
	}
	if e.Intn == nil {
		e.Intn = rand.IntN
	}
	return e
}

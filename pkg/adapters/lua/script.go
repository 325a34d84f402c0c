package lua

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/registry"
	backend "github.com/Shopify/go-lua"
)

const (
	conditionsTable = "conditions"
	eventsTable     = "events"
	textsTable      = "texts"
)

// Script is a loaded Lua state holding hook functions.
// Calls into the state are serialized.
type Script struct {
	name   string
	mu     sync.Mutex
	state  *backend.State
	logger *slog.Logger
}

// Option configures a Script.
type Option func(*Script)

// WithLogger sets the logger used for runtime script errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Script) {
		s.logger = logger
	}
}

// Load runs source and returns the script. name is used in error messages.
func Load(name, source string, opts ...Option) (*Script, error) {
	s := &Script{name: name, state: backend.NewState(), logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	backend.OpenLibraries(s.state)
	for _, table := range []string{conditionsTable, eventsTable, textsTable} {
		s.state.NewTable()
		s.state.SetGlobal(table)
	}
	if err := backend.LoadString(s.state, source); err != nil {
		return nil, fmt.Errorf("load lua script %q: %w", name, err)
	}
	if err := s.state.ProtectedCall(0, 0, 0); err != nil {
		return nil, fmt.Errorf("run lua script %q: %w", name, err)
	}
	return s, nil
}

// LoadFile loads the script at path.
func LoadFile(path string, opts ...Option) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lua script: %w", err)
	}
	return Load(filepath.Base(path), string(data), opts...)
}

// LoadDir loads every *.lua file in dir and registers its hooks into reg.
// It returns the number of hooks registered.
func LoadDir(dir string, reg *registry.Registry, opts ...Option) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.lua"))
	if err != nil {
		return 0, err
	}
	sort.Strings(paths)

	total := 0
	for _, path := range paths {
		s, err := LoadFile(path, opts...)
		if err != nil {
			return total, err
		}
		total += s.Register(reg)
	}
	return total, nil
}

// Names returns the hook names defined by the script, sorted.
func (s *Script) Names() (conditions, events, texts []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.functions(conditionsTable), s.functions(eventsTable), s.functions(textsTable)
}

// Register adds every hook of the script to reg and returns how many it added.
func (s *Script) Register(reg *registry.Registry) int {
	conditions, events, texts := s.Names()
	for _, name := range conditions {
		reg.RegisterCondition(name, &condition{script: s, name: name})
	}
	for _, name := range events {
		reg.RegisterEvent(name, &event{script: s, name: name})
	}
	for _, name := range texts {
		reg.RegisterText(name, &text{script: s, name: name})
	}
	return len(conditions) + len(events) + len(texts)
}

// functions lists the keys of a global table whose values are functions.
func (s *Script) functions(table string) []string {
	l := s.state
	l.Global(table)
	defer l.Pop(1)

	var names []string
	if l.TypeOf(-1) != backend.TypeTable {
		return nil
	}
	l.PushNil()
	for l.Next(-2) {
		if l.TypeOf(-2) == backend.TypeString && l.TypeOf(-1) == backend.TypeFunction {
			key, _ := l.ToString(-2)
			names = append(names, key)
		}
		l.Pop(1)
	}
	sort.Strings(names)
	return names
}

// call pushes table[name] with the session and participant arguments, plus
// extra strings, and runs it. read inspects the single result before it is popped.
func (s *Script) call(ctx context.Context, table, name string, sv domain.SessionView, p domain.Participant, extra []string, read func(l *backend.State)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.state
	top := l.Top()
	defer l.SetTop(top)

	l.Global(table)
	l.Field(-1, name)
	if l.TypeOf(-1) != backend.TypeFunction {
		s.logger.ErrorContext(ctx, "lua hook is not defined", "script", s.name, "hook", table+"."+name)
		return false
	}
	pushSession(l, sv)
	pushParticipant(ctx, l, sv, p)
	for _, arg := range extra {
		l.PushString(arg)
	}
	if err := l.ProtectedCall(2+len(extra), 1, 0); err != nil {
		attrs := []any{"script", s.name, "hook", table + "." + name, "err", err}
		if sv != nil {
			attrs = append(attrs, "session", sv.String())
		}
		s.logger.ErrorContext(ctx, "lua hook failed", attrs...)
		return false
	}
	if read != nil {
		read(l)
	}
	return true
}

type condition struct {
	script *Script
	name   string
}

func (c *condition) IsConditionMet(ctx context.Context, sv domain.SessionView, p domain.Participant) bool {
	met := false
	c.script.call(ctx, conditionsTable, c.name, sv, p, nil, func(l *backend.State) {
		met = l.ToBoolean(-1)
	})
	return met
}

type event struct {
	script *Script
	name   string
}

func (e *event) EnterEvent(ctx context.Context, sv domain.SessionView, p domain.Participant) {
	e.script.call(ctx, eventsTable, e.name, sv, p, nil, nil)
}

type text struct {
	script *Script
	name   string
}

func (t *text) Text(ctx context.Context, sv domain.SessionView, p domain.Participant, display string) string {
	out := ""
	t.script.call(ctx, textsTable, t.name, sv, p, []string{display}, func(l *backend.State) {
		if s, ok := l.ToString(-1); ok {
			out = s
		}
	})
	return out
}

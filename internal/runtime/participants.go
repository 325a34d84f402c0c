package runtime

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/aretw0/parley/pkg/domain"
)

// ValidateParticipants checks a binding against the participants a dialogue declares.
// Every key must match the self-reported name of its object and every declared
// name must be bound. Extra bindings are only warned about.
func ValidateParticipants(ctx context.Context, logger *slog.Logger, d *domain.Dialogue, participants map[string]domain.Participant) bool {
	session := describe(d, -1, participants)
	if d == nil {
		logger.ErrorContext(ctx, "cannot validate participants: dialogue is nil", "session", session)
		return false
	}

	declared := d.ParticipantNames()
	if len(declared) == 0 {
		logger.ErrorContext(ctx, "dialogue does not declare any participant", "session", session)
		return false
	}

	missing := make(map[string]struct{}, len(declared))
	for _, name := range declared {
		missing[name] = struct{}{}
	}

	keys := make([]string, 0, len(participants))
	for k := range participants {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		p := participants[key]
		if p == nil {
			logger.ErrorContext(ctx, "participant is nil", "participant", key, "session", session)
			return false
		}
		if got := p.ParticipantName(); got != key {
			logger.ErrorContext(ctx, "participant name mismatch: the binding key differs from the name the object reports",
				"key", key, "reported", got, "session", session)
			return false
		}
		if _, ok := missing[key]; ok {
			delete(missing, key)
			continue
		}
		logger.WarnContext(ctx, "participant is not used by the dialogue", "participant", key, "session", session)
	}

	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		sort.Strings(names)
		logger.ErrorContext(ctx, "participants required by the dialogue are missing",
			"missing", strings.Join(names, ", "), "session", session)
		return false
	}
	return true
}

// ParticipantsFromList binds participants by their self-reported names.
// A name given twice keeps the first object and logs a warning.
func ParticipantsFromList(ctx context.Context, logger *slog.Logger, d *domain.Dialogue, list []domain.Participant) (map[string]domain.Participant, bool) {
	if len(list) == 0 {
		logger.ErrorContext(ctx, "cannot bind participants: the list is empty", "session", describe(d, -1, nil))
		return nil, false
	}

	out := make(map[string]domain.Participant, len(list))
	for i, p := range list {
		if p == nil {
			logger.ErrorContext(ctx, "cannot bind participants: entry is nil", "position", i, "session", describe(d, -1, out))
			return nil, false
		}
		name := p.ParticipantName()
		if _, dup := out[name]; dup {
			logger.WarnContext(ctx, "participant listed twice, keeping the first one", "participant", name, "session", describe(d, -1, out))
			continue
		}
		out[name] = p
	}
	return out, true
}

// ParticipantsFromPool binds every participant the dialogue declares by
// scanning an ambient pool. A declared name that is missing, or held by two
// distinct objects, fails the binding.
func ParticipantsFromPool(ctx context.Context, logger *slog.Logger, d *domain.Dialogue, pool []domain.Participant) (map[string]domain.Participant, bool) {
	if d == nil {
		logger.ErrorContext(ctx, "cannot bind participants: dialogue is nil", "session", describe(d, -1, nil))
		return nil, false
	}

	out := make(map[string]domain.Participant)
	for _, p := range pool {
		if p == nil {
			continue
		}
		name := p.ParticipantName()
		if !d.HasParticipant(name) {
			continue
		}
		if existing, ok := out[name]; ok && existing != p {
			logger.ErrorContext(ctx, "participant name is used by more than one object in the pool", "participant", name, "session", describe(d, -1, out))
			return nil, false
		}
		out[name] = p
	}

	var missing []string
	for _, name := range d.ParticipantNames() {
		if _, ok := out[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		logger.ErrorContext(ctx, "no object in the pool for required participants", "missing", strings.Join(missing, ", "), "session", describe(d, -1, out))
		return nil, false
	}
	return out, true
}

// CanStart reports whether a session over d with participants would start,
// without recording any visit.
func CanStart(ctx context.Context, env Env, d *domain.Dialogue, participants map[string]domain.Participant) bool {
	env = env.withDefaults()
	if !ValidateParticipants(ctx, env.Logger, d, participants) {
		return false
	}
	c := NewContext(env, d, participants)
	start := d.StartNode()
	for _, edge := range start.Edges {
		if c.isEdgeSatisfied(ctx, edge, start.Owner, nil) {
			return true
		}
	}
	return false
}

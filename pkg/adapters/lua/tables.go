package lua

import (
	"context"

	"github.com/aretw0/parley/pkg/domain"
	backend "github.com/Shopify/go-lua"
	"github.com/google/uuid"
)

func pushSession(l *backend.State, sv domain.SessionView) {
	if sv == nil {
		l.PushNil()
		return
	}
	l.NewTable()
	l.PushString(sv.DialogueName())
	l.SetField(-2, "dialogue")
	l.PushInteger(sv.ActiveNodeIndex())
	l.SetField(-2, "node")
	l.PushGoFunction(func(l *backend.State) int {
		index := backend.CheckInteger(l, 1)
		local := true
		if l.Top() >= 2 {
			local = l.ToBoolean(2)
		}
		l.PushBoolean(sv.WasNodeVisited(index, uuid.Nil, local))
		return 1
	})
	l.SetField(-2, "visited")
}

func pushParticipant(ctx context.Context, l *backend.State, sv domain.SessionView, p domain.Participant) {
	if p == nil {
		l.PushNil()
		return
	}
	l.NewTable()
	backend.SetFunctions(l, participantFunctions(ctx, sv, p), 0)
}

func participantFunctions(ctx context.Context, sv domain.SessionView, p domain.Participant) []backend.RegistryFunction {
	return []backend.RegistryFunction{
		{Name: "name", Function: func(l *backend.State) int {
			l.PushString(p.ParticipantName())
			return 1
		}},
		{Name: "display_name", Function: func(l *backend.State) int {
			l.PushString(p.DisplayName(backend.OptString(l, 1, "")))
			return 1
		}},
		{Name: "int", Function: func(l *backend.State) int {
			l.PushInteger(p.IntValue(backend.CheckString(l, 1)))
			return 1
		}},
		{Name: "float", Function: func(l *backend.State) int {
			l.PushNumber(p.FloatValue(backend.CheckString(l, 1)))
			return 1
		}},
		{Name: "bool", Function: func(l *backend.State) int {
			l.PushBoolean(p.BoolValue(backend.CheckString(l, 1)))
			return 1
		}},
		{Name: "value", Function: func(l *backend.State) int {
			l.PushString(p.NameValue(backend.CheckString(l, 1)))
			return 1
		}},
		{Name: "check", Function: func(l *backend.State) int {
			l.PushBoolean(p.CheckCondition(ctx, sv, backend.CheckString(l, 1)))
			return 1
		}},
		{Name: "set_int", Function: func(l *backend.State) int {
			p.ModifyIntValue(backend.CheckString(l, 1), false, backend.CheckInteger(l, 2))
			return 0
		}},
		{Name: "add_int", Function: func(l *backend.State) int {
			p.ModifyIntValue(backend.CheckString(l, 1), true, backend.CheckInteger(l, 2))
			return 0
		}},
		{Name: "set_float", Function: func(l *backend.State) int {
			p.ModifyFloatValue(backend.CheckString(l, 1), false, backend.CheckNumber(l, 2))
			return 0
		}},
		{Name: "add_float", Function: func(l *backend.State) int {
			p.ModifyFloatValue(backend.CheckString(l, 1), true, backend.CheckNumber(l, 2))
			return 0
		}},
		{Name: "set_bool", Function: func(l *backend.State) int {
			p.ModifyBoolValue(backend.CheckString(l, 1), l.ToBoolean(2))
			return 0
		}},
		{Name: "set_name", Function: func(l *backend.State) int {
			p.ModifyNameValue(backend.CheckString(l, 1), backend.CheckString(l, 2))
			return 0
		}},
		{Name: "emit", Function: func(l *backend.State) int {
			p.OnDialogueEvent(ctx, sv, backend.CheckString(l, 1))
			return 0
		}},
	}
}

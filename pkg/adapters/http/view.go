package http

import (
	"context"

	"github.com/aretw0/parley/internal/runtime"
)

// SessionView is the JSON snapshot of a live session.
type SessionView struct {
	ID       string `json:"id"`
	Dialogue string `json:"dialogue"`
	State    string `json:"state"`
	Ended    bool   `json:"ended"`

	Node *NodeView `json:"node,omitempty"`
	// Options are the satisfied options; choose them by Index.
	Options []OptionView `json:"options"`
	// All lists every edge of the active node; choose them with from_all.
	All []OptionView `json:"all"`
}

type NodeView struct {
	Index        int    `json:"index"`
	Key          string `json:"key"`
	Kind         string `json:"kind"`
	Speaker      string `json:"speaker,omitempty"`
	DisplayName  string `json:"display_name,omitempty"`
	SpeakerState string `json:"speaker_state,omitempty"`
	Icon         string `json:"icon,omitempty"`
	Text         string `json:"text"`
}

type OptionView struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	Satisfied bool   `json:"satisfied"`
	Visited   bool   `json:"visited"`
	End       bool   `json:"end"`
}

func snapshot(ctx context.Context, id string, c *runtime.Context) SessionView {
	v := SessionView{
		ID:       id,
		Dialogue: c.DialogueName(),
		State:    c.State().String(),
		Ended:    c.IsEnded(),
		Options:  []OptionView{},
		All:      []OptionView{},
	}

	node, ok := c.ActiveNode()
	if !ok {
		return v
	}
	v.Node = &NodeView{
		Index:        c.ActiveNodeIndex(),
		Key:          node.Key,
		Kind:         string(node.Kind),
		Speaker:      c.ActiveSpeaker(),
		DisplayName:  c.ActiveParticipantDisplayName(),
		SpeakerState: c.ActiveSpeakerState(),
		Icon:         c.ActiveParticipantIcon(),
		Text:         c.ActiveNodeText(ctx),
	}
	if v.Ended {
		return v
	}

	for i := 0; i < c.OptionCount(); i++ {
		v.Options = append(v.Options, OptionView{
			Index:     i,
			Text:      c.OptionText(ctx, i),
			Satisfied: true,
			Visited:   c.IsOptionConnectedToVisitedNode(ctx, i, false, false),
			End:       c.IsOptionConnectedToEndNode(ctx, i, false),
		})
	}
	for i, e := range c.AllOptions() {
		v.All = append(v.All, OptionView{
			Index:     i,
			Text:      c.OptionTextFromAll(ctx, i),
			Satisfied: e.Satisfied,
			Visited:   c.IsOptionConnectedToVisitedNode(ctx, i, false, true),
			End:       c.IsOptionConnectedToEndNode(ctx, i, true),
		})
	}
	return v
}

package domain

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
)

// History is the set of nodes visited in one dialogue.
// Both the index and the GUID of each node are recorded; the GUID wins when known,
// since indices shift when a graph is edited. The zero value is empty and ready to use.
type History struct {
	indices map[int]struct{}
	guids   map[uuid.UUID]struct{}
}

// NewHistory builds a history from previously recorded indices and GUIDs.
func NewHistory(indices []int, guids []uuid.UUID) History {
	var h History
	for _, i := range indices {
		h.Add(i, uuid.Nil)
	}
	for _, g := range guids {
		h.Add(-1, g)
	}
	return h
}

// Add records a visit. An index of -1 or a nil GUID is ignored.
func (h *History) Add(index int, guid uuid.UUID) {
	if index >= 0 {
		if h.indices == nil {
			h.indices = make(map[int]struct{})
		}
		h.indices[index] = struct{}{}
	}
	if guid != uuid.Nil {
		if h.guids == nil {
			h.guids = make(map[uuid.UUID]struct{})
		}
		h.guids[guid] = struct{}{}
	}
}

// Contains checks the GUID set when the GUID is valid and GUIDs were recorded, else the index set.
func (h History) Contains(index int, guid uuid.UUID) bool {
	if guid == uuid.Nil || len(h.guids) == 0 {
		_, ok := h.indices[index]
		return ok
	}
	_, ok := h.guids[guid]
	return ok
}

// Merge adds every visit of other.
func (h *History) Merge(other History) {
	for i := range other.indices {
		h.Add(i, uuid.Nil)
	}
	for g := range other.guids {
		h.Add(-1, g)
	}
}

func (h History) Clone() History {
	var c History
	c.Merge(h)
	return c
}

func (h History) IsEmpty() bool {
	return len(h.indices) == 0 && len(h.guids) == 0
}

// Indices returns the visited indices in ascending order.
func (h History) Indices() []int {
	out := make([]int, 0, len(h.indices))
	for i := range h.indices {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// GUIDs returns the visited GUIDs in ascending string order.
func (h History) GUIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(h.guids))
	for g := range h.guids {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

type historyJSON struct {
	Indices []int       `json:"indices"`
	GUIDs   []uuid.UUID `json:"guids"`
}

func (h History) MarshalJSON() ([]byte, error) {
	return json.Marshal(historyJSON{Indices: h.Indices(), GUIDs: h.GUIDs()})
}

func (h *History) UnmarshalJSON(data []byte) error {
	var raw historyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*h = NewHistory(raw.Indices, raw.GUIDs)
	return nil
}

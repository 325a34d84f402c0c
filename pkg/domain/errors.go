package domain

import "errors"

// ErrDialogueNotFound is returned when a loader cannot find the requested dialogue.
var ErrDialogueNotFound = errors.New("dialogue not found")

// ErrInvalidParticipants is returned when a participant binding does not satisfy a dialogue.
var ErrInvalidParticipants = errors.New("invalid participants")

// ErrNoSatisfiedEntry is returned when no edge of the Start node can be taken.
var ErrNoSatisfiedEntry = errors.New("no satisfied start edge")

// ErrInvalidNode is returned when a node index or GUID does not resolve.
var ErrInvalidNode = errors.New("invalid node")

// ErrHistoryNotFound is returned when a history store holds no entry for a dialogue.
var ErrHistoryNotFound = errors.New("history not found")

// ErrSessionNotFound is returned when a live session ID is unknown.
var ErrSessionNotFound = errors.New("session not found")

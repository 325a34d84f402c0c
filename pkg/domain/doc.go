/*
Package domain contains the core domain models of the Parley dialogue runtime.

It defines the immutable dialogue graph consumed by traversal sessions, the
closed sets of condition checks, event actions and text arguments attached to
it, and the capability surface a host object must expose to take part in a
dialogue. This package is kept pure and free of I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Dialogue: An ordered arena of Nodes plus the Start pseudo-node. Nodes refer to each other by index.
  - Node: A unit of dialogue content (speech, sequence, selector or end) with outgoing Edges.
  - Edge: A guarded transition carrying Conditions (checked) and Events (fired on traversal).
  - Condition: A Strong (AND) or Weak (OR) member of a condition array wrapping one Check variant.
  - Event: A side effect wrapping one Action variant, applied to a participant.
  - History: The set of visited (index, GUID) pairs for one dialogue.
  - Participant: The capability surface implemented by host objects bound to a session.
*/
package domain

/*
Package ports defines the driven ports (interfaces) of the Parley runtime.

These interfaces decouple the traversal core from external implementations,
allowing dialogues, visitation history and participants to come from various
backends.

# Key Interfaces

  - DialogueLoader: Retrieves compiled dialogues (e.g., from Loam or Memory).
  - HistoryStore: Persists global visitation history across process restarts.
  - DistributedLocker: Serializes history writers running in different processes.
  - VariableAccessor: Reads and writes participant fields by name ("class variables").
  - ParticipantPool: The ambient set of objects a launcher can bind participants from.
*/
package ports

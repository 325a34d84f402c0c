/*
Package session keeps the live dialogue sessions of a long-running host.

Sessions are addressed by ID. Every operation on a session runs while holding
a per-session lock, so concurrent requests for the same session are
serialized; a distributed locker extends that guarantee across replicas.
*/
package session

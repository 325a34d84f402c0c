/*
Package observability provides tools for monitoring the Parley engine.

It includes Prometheus metrics fed by lifecycle hooks, a hook that writes
every lifecycle event to a structured logger, and Combine to attach several
hook sets to one engine.
*/
package observability

/*
Package http exposes live dialogue sessions over a JSON API.

	GET    /dialogues                   list dialogue IDs
	POST   /sessions                    start a session {"dialogue": "...", "participants": [...]}
	GET    /sessions/{id}               current node and options
	POST   /sessions/{id}/choose        take an option {"option": 0, "from_all": false}
	POST   /sessions/{id}/reevaluate    recompute options after host state changed
	DELETE /sessions/{id}               drop the session
	GET    /sessions/{id}/events        server-sent session snapshots
	GET    /events                      server-sent dialogue reloads
	GET    /history                     global visitation memory
	DELETE /history                     clear it
	GET    /metrics                     Prometheus metrics
	GET    /health
*/
package http

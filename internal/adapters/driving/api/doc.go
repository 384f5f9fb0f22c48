// Package api exposes the knowledge base over HTTP using echo.
//
// Routes:
//
//	POST /ingest        {"content": "..."} or {"url": "..."}
//	GET  /items         newest-first item list
//	GET  /items/:id     one item with its full text
//	POST /query         {"question": "..."}
//	POST /admin/reset   {"api_key": "..."}
//	GET  /healthz       liveness; ?deep=1 also pings the AI providers
//	GET  /metrics       prometheus exposition, when a handler is configured
//
// Domain errors are translated to HTTP status codes by errorHandler and
// written as {"error": "..."}.
package api

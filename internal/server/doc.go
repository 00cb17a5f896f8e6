// Package server exposes live boards over HTTP.
//
// A board is an in-memory planar graph identified by a UUID. Every board
// carries its own mutex and every handler holds it for the whole request,
// so mutations and multi-step queries such as route searches never observe
// a half-applied cascade. Boards can be saved to and loaded from the
// configured document store.
//
// Nodes and edges of a live board are addressed by generational key
// ("n3:2", "e0:1"). A key stays valid for as long as its entity exists and
// fails with UNKNOWN_NODE or UNKNOWN_EDGE afterwards, even once another
// entity occupies the freed slot. Document indices only appear in the
// bodies of POST /graphs and in saved documents; creation answers with the
// node keys in document order.
//
// Request bodies are limited to 8 MiB (413 PAYLOAD_TOO_LARGE) and must be
// a single JSON value without unknown fields.
//
// # Endpoints
//
//	GET    /healthz
//	GET    /version
//	GET    /graphs                          list live board ids
//	POST   /graphs                          create (optional document body) → {id, keys}
//	GET    /graphs/{id}                     nodes and edges with their keys
//	DELETE /graphs/{id}
//	POST   /graphs/{id}/nodes               {x, y} → {key, x, y}
//	PUT    /graphs/{id}/nodes/{node}        {x, y}
//	DELETE /graphs/{id}/nodes/{node}
//	POST   /graphs/{id}/edges               {from, to} node keys → {key, created}
//	DELETE /graphs/{id}/edges/{edge}
//	DELETE /graphs/{id}/edges?from=&to=
//	GET    /graphs/{id}/route?from=&to=     keys along the shortest route
//	GET    /graphs/{id}/pick?x=&y=
//	GET    /graphs/{id}/nearest/{node}
//	GET    /graphs/{id}/within/{node}?min=&max=
//	GET    /graphs/{id}/render?format=svg|dot[&from=&to=]
//	POST   /graphs/{id}/save/{name}
//	POST   /graphs/load/{name}              → {id, keys}
//	GET    /documents                       stored names
//	DELETE /documents/{name}
//
// Errors are returned as {"code": ..., "message": ...} with the status
// chosen from the error code.
package server

// Package server exposes the attribution and compensation pipeline over
// HTTP.
//
// Routes:
//
//	GET  /healthz            liveness probe
//	GET  /api/v1/models      every configured compensation model
//	POST /api/v1/reports     price an uploaded export
//
// Reports accept either a multipart form with a "file" field or a raw CSV
// body. The "model" query parameter may be repeated; "all" prices every
// model. Failures use the {"status":"error","code":...,"message":...}
// envelope. A flock in the configured lock directory keeps a second server
// from starting against the same state.
package server

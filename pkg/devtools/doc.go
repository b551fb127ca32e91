// Package devtools exposes a running App over HTTP for inspection.
//
// The inspector serves:
//
//	GET  /dom         serialized live document
//	GET  /components  registry of live components as JSON
//	POST /dispatch    fire a native event at a node by hydration id
//	GET  /metrics     Prometheus exposition of the App's metrics
//	GET  /stream      websocket stream of msgpack-encoded lifecycle events
//
// Every handler that touches the document or the registry runs on the App
// loop through App.Dispatch, so the App must be running (App.Run) while the
// inspector serves requests.
//
// Snapshots of the document can be written to disk with FileSink or to an
// S3 bucket with S3Sink.
package devtools

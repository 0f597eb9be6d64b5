// Package config loads the scupd configuration from config.yaml.
//
// Config sections:
//   - engine — scoring-engine capacities and the default calculator variant
//     (history_size 1000, event_log_size 100, use_recovery true)
//   - server — HTTP port for the REST API, WebSocket hub and metrics
//     endpoint (8080), and the hub broadcast interval (5s)
//   - alerts — rule definitions and webhook delivery targets; rules and
//     webhooks are re-applied on hot reload, engine capacities are not
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, onChange) reloads the file on write via fsnotify.
package config

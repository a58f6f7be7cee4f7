// Package backend provides an HTTP client for the remote attendance API.
//
// The host never submits codes itself; students' scanners do. The client
// exists so the host can tell the lecturer whether the backend their
// students will talk to is reachable right now.
//
// # Usage
//
//	client, err := backend.NewClient(cfg.APIBaseURL)
//	if err != nil {
//		return err
//	}
//	health, err := client.Ping(ctx)
//
// Ping sends GET / with a 5 second timeout. Any response below 500 counts as
// reachable, including 401 and 404 from an API that guards its root.
//
// # URL Construction
//
// The base URL accepts the same shapes as the config file:
//
//   - "127.0.0.1:8080" → http://127.0.0.1:8080
//   - "https://api.example.edu/v1" → https://api.example.edu
//
// Paths, queries and fragments are dropped.
package backend

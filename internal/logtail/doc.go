// Package logtail reads the tail of the host log for the logs view.
//
// # Reading Log Files
//
// Read keeps a ring buffer of maxLines entries while scanning the file once,
// so memory is O(maxLines) regardless of file size:
//
//	lines, err := logtail.Read(cfg.LogPath(), 400)
//
// A missing file returns nil, nil; the log is created lazily by the first
// write. Other errors are wrapped.
//
// # Parsing
//
// The host writes its log with the standard library logger, so every line
// starts with a "2006/01/02 15:04:05 " stamp. Parse separates the stamp from
// the message and infers a level from wording the host uses consistently:
// "failed" and "error" are errors; "ignored", "expired" and "unreachable"
// are warnings; everything else is informational. The UI styles lines by
// level.
package logtail

package hotspot

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies hotspot failures for callers and the bridge surface.
type Code string

const (
	CodeInvalidSSID         Code = "INVALID_SSID"
	CodeInvalidPassword     Code = "INVALID_PASSWORD"
	CodeInvalidSecurity     Code = "INVALID_SECURITY"
	CodeNoWifiDevice        Code = "NO_WIFI_DEVICE"
	CodeUnsupportedPlatform Code = "UNSUPPORTED_PLATFORM"
	CodeCommandFailed       Code = "COMMAND_FAILED"
)

// Error is a classified failure. Two Errors match under errors.Is when their
// codes are equal, so the package-level sentinels can be used as targets.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidSSID         = &Error{Code: CodeInvalidSSID}
	ErrInvalidPassword     = &Error{Code: CodeInvalidPassword}
	ErrInvalidSecurity     = &Error{Code: CodeInvalidSecurity}
	ErrNoWifiDevice        = &Error{Code: CodeNoWifiDevice}
	ErrUnsupportedPlatform = &Error{Code: CodeUnsupportedPlatform}
)

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// CommandError reports a failed nmcli invocation with its output.
type CommandError struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(e.Stdout)
	}
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s (exit %d): %s", strings.Join(e.Args, " "), e.ExitCode, msg)
}

func (e *CommandError) Unwrap() error { return e.Err }

// CodeOf returns the classification of err, or "" for unclassified errors.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var he *Error
	if errors.As(err, &he) {
		return he.Code
	}
	var ce *CommandError
	if errors.As(err, &ce) {
		return CodeCommandFailed
	}
	return ""
}

package hotspot

import (
	"context"
	"strings"
)

// fakeRunner records invocations and answers from a table keyed by the
// joined argument list. Keys listed in fail return a CommandError.
type fakeRunner struct {
	calls   [][]string
	outputs map[string]string
	fail    map[string]bool
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{outputs: map[string]string{}, fail: map[string]bool{}}
}

func (f *fakeRunner) Run(_ context.Context, args ...string) (Result, error) {
	f.calls = append(f.calls, append([]string(nil), args...))
	key := strings.Join(args, " ")
	if f.fail[key] {
		return Result{Stderr: "Error: failed " + key, ExitCode: 10}, &CommandError{
			Args:     append([]string{"nmcli"}, args...),
			ExitCode: 10,
			Stderr:   "Error: failed " + key,
		}
	}
	return Result{Stdout: f.outputs[key]}, nil
}

func (f *fakeRunner) commands() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, strings.Join(c, " "))
	}
	return out
}

const (
	listKey = "-t -f DEVICE,TYPE,STATE dev"
	showKey = "-t -f GENERAL.STATE,GENERAL.CONNECTION,IP4.ADDRESS dev show wlan0"
)

func linuxManager(r Runner) *Manager {
	return NewManager(r, WithGOOS("linux"))
}

package launch

import (
	"errors"
	"os"
	"reflect"
	"testing"
)

type recordingLauncher struct {
	calls [][]string
	err   error
}

func (r *recordingLauncher) Spawn(path string, args []string) (*os.Process, error) {
	r.calls = append(r.calls, append([]string{path}, args...))
	if r.err != nil {
		return nil, r.err
	}
	return &os.Process{Pid: 4242}, nil
}

func TestExecute(t *testing.T) {
	plan := Plan{ExecutablePath: "/usr/bin/chromium", Arguments: []string{"--new-window", "https://a"}}

	t.Run("Spawns exactly once", func(t *testing.T) {
		l := &recordingLauncher{}
		proc, err := Execute(l, plan)
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if proc.Pid != 4242 {
			t.Errorf("unexpected process %+v", proc)
		}
		want := [][]string{{"/usr/bin/chromium", "--new-window", "https://a"}}
		if !reflect.DeepEqual(l.calls, want) {
			t.Errorf("unexpected spawn calls %v", l.calls)
		}
	})

	t.Run("Failure is a SpawnError and not retried", func(t *testing.T) {
		cause := errors.New("permission denied")
		l := &recordingLauncher{err: cause}
		_, err := Execute(l, plan)

		var se *SpawnError
		if !errors.As(err, &se) {
			t.Fatalf("expected SpawnError, got %v", err)
		}
		if !errors.Is(err, cause) {
			t.Error("SpawnError must wrap the cause")
		}
		if len(l.calls) != 1 {
			t.Errorf("expected a single attempt, got %d", len(l.calls))
		}
	})
}

func TestExecLauncherMissingBinary(t *testing.T) {
	_, err := ExecLauncher{}.Spawn("/nonexistent/bplaunch-browser", nil)
	if err == nil {
		t.Fatal("expected error for missing executable")
	}
}

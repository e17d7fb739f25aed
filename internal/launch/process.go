package launch

import (
	"os"
	"os/exec"

	"github.com/bplaunch/bplaunch/internal/log"
)

// ProcessLauncher starts a browser process.
type ProcessLauncher interface {
	Spawn(path string, args []string) (*os.Process, error)
}

// ExecLauncher starts processes with os/exec and does not wait for them.
type ExecLauncher struct{}

// Spawn starts path without waiting for it; a goroutine reaps the child
// when it exits.
func (ExecLauncher) Spawn(path string, args []string) (*os.Process, error) {
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	proc := cmd.Process
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Debug("browser %s exited: %v", path, err)
		}
	}()
	return proc, nil
}

// Execute hands plan to launcher once. Failures are wrapped in SpawnError and
// not retried.
func Execute(launcher ProcessLauncher, plan Plan) (*os.Process, error) {
	log.Debug("launching %s %v", plan.ExecutablePath, plan.Arguments)
	proc, err := launcher.Spawn(plan.ExecutablePath, plan.Arguments)
	if err != nil {
		return nil, &SpawnError{Path: plan.ExecutablePath, Err: err}
	}
	return proc, nil
}

package devserver

import (
	"bufio"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/creack/pty"

	"github.com/beekeeper-studio/vite-plugin/internal/devlog"
)

// TaskRunner runs the project's optional dev command (for plugins with their
// own build-watch step) as a child process. The child runs under a PTY so
// tools that detect a terminal keep their colored output.
type TaskRunner struct {
	cmdline string
	cmd     *exec.Cmd
	done    chan struct{}
}

// NewTaskRunner creates a runner for the given shell command line.
func NewTaskRunner(cmdline string) *TaskRunner {
	return &TaskRunner{cmdline: cmdline}
}

// Start launches the dev command and begins forwarding its output.
func (r *TaskRunner) Start() error {
	cmd := exec.Command("sh", "-c", r.cmdline)
	setupProcessGroup(cmd)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("failed to start dev command: %w", err)
	}
	r.cmd = cmd

	devlog.Logf(devlog.Magenta, "🚀 Dev command started (PID: %d): %s", cmd.Process.Pid, r.cmdline)

	go func() {
		defer ptmx.Close()
		scanner := bufio.NewScanner(ptmx)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) != "" {
				devlog.Logf(devlog.Magenta, "⚡ Task: %s", line)
			}
		}
	}()

	// Single waiter for the process: exec.Cmd.Wait must only be called once,
	// so Stop observes exit through the done channel instead of waiting again.
	r.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		if err := cmd.Wait(); err != nil {
			devlog.Warnf("Dev command exited: %v", err)
		}
	}(r.done)

	return nil
}

// Stop terminates the dev command and its process tree, escalating to a hard
// kill when it ignores the first signal.
func (r *TaskRunner) Stop() {
	if r.cmd == nil || r.cmd.Process == nil {
		return
	}

	devlog.Logf(devlog.Magenta, "🛑 Stopping dev command (PID: %d)...", r.cmd.Process.Pid)
	terminateProcessGroup(r.cmd)

	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
		devlog.Warnf("Dev command did not exit, force killing")
		killProcessGroup(r.cmd)
		<-r.done
	}
}

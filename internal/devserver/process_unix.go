//go:build unix

package devserver

import (
	"os/exec"
	"syscall"
)

// setupProcessGroup puts the child in its own process group so the whole
// process tree can be signalled together.
func setupProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

func terminateProcessGroup(cmd *exec.Cmd) {
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err != nil {
		pgid = cmd.Process.Pid
	}
	syscall.Kill(-pgid, syscall.SIGTERM)
}

func killProcessGroup(cmd *exec.Cmd) {
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err != nil {
		pgid = cmd.Process.Pid
	}
	syscall.Kill(-pgid, syscall.SIGKILL)
	if cmd.Process != nil {
		cmd.Process.Kill()
	}
}

//go:build windows

package devserver

import "os/exec"

func setupProcessGroup(cmd *exec.Cmd) {
	// Process groups are a Unix concept; on Windows the child is killed
	// directly.
}

func terminateProcessGroup(cmd *exec.Cmd) {
	if cmd.Process != nil {
		cmd.Process.Kill()
	}
}

func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process != nil {
		cmd.Process.Kill()
	}
}

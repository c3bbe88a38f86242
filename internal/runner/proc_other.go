//go:build !unix

package runner

import "os/exec"

// setProcessGroup is a no-op; the default Cancel kills the child process.
func setProcessGroup(cmd *exec.Cmd) {}

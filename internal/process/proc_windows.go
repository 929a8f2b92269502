//go:build windows

package process

import (
	"os"
	"os/exec"
)

func setProcessGroup(cmd *exec.Cmd) {}

func killProcess(p *os.Process) error {
	if p == nil {
		return nil
	}
	return p.Kill()
}

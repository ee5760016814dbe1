//go:build !windows

package update

import "os/exec"

// detach is only needed where the installer would otherwise share the agent's console
func detach(*exec.Cmd) {}

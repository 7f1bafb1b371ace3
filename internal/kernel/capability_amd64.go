//go:build amd64

package kernel

import "golang.org/x/sys/cpu"

func init() {
	hasAVX2 = cpu.X86.HasAVX2
	hasERMS = cpu.X86.HasERMS
	initCapabilities()
}

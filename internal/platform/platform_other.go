//go:build !linux && !windows

package platform

import "runtime"

// Platforms without a dedicated probe report the OS name only.
func osName() string { return runtime.GOOS }

func platformCPUModel() string { return "" }

func ramTotalMB() int64 { return 0 }

func disks() []Disk { return nil }

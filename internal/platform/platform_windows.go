//go:build windows

package platform

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

func osName() string {
	v := windows.RtlGetVersion()
	if v == nil {
		return "Windows"
	}
	return fmt.Sprintf("Windows %d.%d (build %d)", v.MajorVersion, v.MinorVersion, v.BuildNumber)
}

func platformCPUModel() string {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`HARDWARE\DESCRIPTION\System\CentralProcessor\0`, registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer k.Close()
	name, _, err := k.GetStringValue("ProcessorNameString")
	if err != nil {
		return ""
	}
	return name
}

func ramTotalMB() int64 {
	var ms windows.MemoryStatusEx
	ms.Length = uint32(unsafe.Sizeof(ms))
	if err := windows.GlobalMemoryStatusEx(&ms); err != nil {
		return 0
	}
	return int64(ms.TotalPhys / (1024 * 1024))
}

// disks reports fixed drives only; removable, network and optical drives
// are skipped.
func disks() []Disk {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil
	}

	var out []Disk
	for _, root := range driveRoots(mask) {
		p, err := windows.UTF16PtrFromString(root)
		if err != nil {
			continue
		}
		if windows.GetDriveType(p) != windows.DRIVE_FIXED {
			continue
		}
		var freeToCaller, total, totalFree uint64
		if err := windows.GetDiskFreeSpaceEx(p, &freeToCaller, &total, &totalFree); err != nil {
			continue
		}
		out = append(out, Disk{
			Mount:   root,
			TotalGB: int64(total / gib),
			FreeGB:  int64(freeToCaller / gib),
		})
	}
	return out
}

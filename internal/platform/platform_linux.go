//go:build linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

func osName() string {
	if n := readFirst("/etc/os-release", parseOSRelease); n != "" {
		return n
	}
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return "Linux"
	}
	return unix.ByteSliceToString(u.Sysname[:]) + " " + unix.ByteSliceToString(u.Release[:])
}

func platformCPUModel() string {
	return readFirst("/proc/cpuinfo", parseCPUInfo)
}

func ramTotalMB() int64 {
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		return 0
	}
	return int64(uint64(si.Totalram) * uint64(si.Unit) / (1024 * 1024))
}

func disks() []Disk {
	f, err := os.Open("/proc/mounts")
	if err != nil {
		return nil
	}
	mounts := parseMounts(f)
	_ = f.Close()
	if len(mounts) == 0 {
		mounts = []string{"/"}
	}

	var out []Disk
	for _, m := range mounts {
		var st unix.Statfs_t
		if err := unix.Statfs(m, &st); err != nil {
			continue
		}
		bsize := uint64(st.Bsize)
		out = append(out, Disk{
			Mount:   m,
			TotalGB: int64(st.Blocks * bsize / gib),
			FreeGB:  int64(st.Bavail * bsize / gib),
		})
	}
	return out
}

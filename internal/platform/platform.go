// Package platform probes the local machine for the facts an asset record
// carries.
package platform

import (
	"bufio"
	"io"
	"os"
	"runtime"
	"strings"
	"time"
)

// Disk describes one mounted filesystem.
type Disk struct {
	Mount   string
	TotalGB int64
	FreeGB  int64
}

// Info is a snapshot of the machine.
type Info struct {
	Hostname   string
	OSName     string
	CPUModel   string
	CPUCores   int
	RAMTotalMB int64
	Disks      []Disk
}

const gib = 1024 * 1024 * 1024

// Collect gathers Info for the running machine. Probes that fail leave a
// neutral value ("unknown", 0, no disks) rather than aborting.
func Collect() (Info, error) {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	info := Info{
		Hostname: host,
		OSName:   osName(),
		CPUModel: cpuModel(),
		CPUCores: runtime.NumCPU(),
	}
	info.RAMTotalMB = ramTotalMB()
	info.Disks = disks()
	return info, nil
}

// NowISOUTC formats t as a second-precision UTC timestamp.
func NowISOUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// parseOSRelease returns PRETTY_NAME (or NAME) from an os-release file.
func parseOSRelease(r io.Reader) string {
	var name string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		k, v, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok {
			continue
		}
		v = strings.Trim(v, `"'`)
		switch k {
		case "PRETTY_NAME":
			return v
		case "NAME":
			name = v
		}
	}
	return name
}

// parseCPUInfo returns the first "model name" of a /proc/cpuinfo listing.
func parseCPUInfo(r io.Reader) string {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		k, v, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		if strings.TrimSpace(k) == "model name" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

var realFilesystems = map[string]bool{
	"ext2": true, "ext3": true, "ext4": true, "xfs": true, "btrfs": true,
	"zfs": true, "f2fs": true, "vfat": true, "exfat": true, "ntfs": true,
	"ntfs3": true, "jfs": true, "reiserfs": true,
}

// parseMounts lists the mount points of block-device filesystems in a
// /proc/mounts listing, first occurrence only.
func parseMounts(r io.Reader) []string {
	var mounts []string
	seen := make(map[string]bool)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			continue
		}
		dev, mount, fstype := fields[0], unescapeMount(fields[1]), fields[2]
		if !strings.HasPrefix(dev, "/dev/") || !realFilesystems[fstype] || seen[mount] {
			continue
		}
		seen[mount] = true
		mounts = append(mounts, mount)
	}
	return mounts
}

// unescapeMount undoes the octal escaping /proc/mounts applies to spaces,
// tabs and backslashes.
func unescapeMount(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	r := strings.NewReplacer(`\040`, " ", `\011`, "\t", `\012`, "\n", `\134`, `\`)
	return r.Replace(s)
}

func readFirst(path string, parse func(io.Reader) string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	return parse(f)
}

func cpuModel() string {
	if m := strings.TrimSpace(platformCPUModel()); m != "" {
		return m
	}
	return "unknown " + runtime.GOARCH
}

// driveRoots turns a GetLogicalDrives bit mask (bit 0 is A:) into root
// paths such as `C:\`.
func driveRoots(mask uint32) []string {
	var roots []string
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) != 0 {
			roots = append(roots, string(rune('A'+i))+`:\`)
		}
	}
	return roots
}

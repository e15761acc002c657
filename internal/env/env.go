// Package env resolves where the hwdb binary database lives on this
// system, the way internal/env previously resolved where a distri
// checkout lived: one exported var/function seeded from an environment
// variable, with hardcoded fallbacks.
package env

import "os"

// LibexecDir is where a distribution installs udev's compiled-in hwdb.bin
// on Linux. Other platforms have no equivalent and are expected to rely
// solely on UDEV_HWDB_BIN or /etc/udev/hwdb.bin.
const LibexecDir = "/usr/lib/udev"

// HwdbPaths returns the ordered list of candidate hwdb.bin paths, per
// spec.md §4.1/§6: UDEV_HWDB_BIN first if set, then /etc/udev/hwdb.bin,
// then LibexecDir/hwdb.bin.
func HwdbPaths() []string {
	var paths []string
	if p := os.Getenv("UDEV_HWDB_BIN"); p != "" {
		paths = append(paths, p)
	}
	paths = append(paths, "/etc/udev/hwdb.bin")
	paths = append(paths, LibexecDir+"/hwdb.bin")
	return paths
}

package harness

import (
	"fmt"
	"strings"
)

// TableLine returns the device-mapper table consumed by run_up:
//
//	0 <sectors> insane <algorithm> <disks> <block_size> recover 1 <devices...>
//
// Only the first p.Disks devices are used.
func TableLine(p Plan, v Volume, blockSize int, devices []string) string {
	n := min(p.Disks, len(devices))
	return fmt.Sprintf("0 %d insane %s %d %d recover 1 %s\n",
		v.Sectors(p.Disks), p.Algorithm, p.Disks, blockSize, strings.Join(devices[:n], " "))
}

// Package harness drives benchmark runs of the insane striping algorithms: it reads a
// pattern file, resolves the LRC scheme of every test plan (repository memo or brute-force
// searcher), emits lrc_config.c, measures throughput per block size and appends results.csv.
package harness

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sharedcode/lrc"
)

// Pattern file section names.
const (
	SectionDevices    = "devices"
	SectionVolume     = "volume"
	SectionBlockSizes = "block_sizes"
	SectionTests      = "tests"
)

// Volume is the per-disk size taken from the [volume] section, e.g. "10G".
type Volume struct {
	Size int
	// Unit is one of 'G', 'M' or 'K'.
	Unit byte
}

// ParseVolume parses a size with a G, M or K suffix, in either case.
func ParseVolume(s string) (Volume, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Volume{}, lrc.Errorf(lrc.HarnessFailure, "volume %q needs a size and a unit", s)
	}
	unit := s[len(s)-1]
	switch unit {
	case 'G', 'g', 'M', 'm', 'K', 'k':
		unit &^= 0x20
	default:
		return Volume{}, lrc.Errorf(lrc.HarnessFailure, "volume %q has unknown unit %q", s, unit)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return Volume{}, lrc.Errorf(lrc.HarnessFailure, "volume %q has invalid size", s)
	}
	return Volume{Size: n, Unit: unit}, nil
}

func (v Volume) String() string {
	return fmt.Sprintf("%d%c", v.Size, v.Unit)
}

// Sectors returns the 512 byte sector count of a volume spread over disks.
func (v Volume) Sectors(disks int) int64 {
	var m int64
	switch v.Unit {
	case 'G':
		m = 1024 * 1024
	case 'M':
		m = 1024
	default:
		m = 1
	}
	return int64(disks) * 2 * m * int64(v.Size)
}

// Pattern is the parsed pattern file.
type Pattern struct {
	Devices    []string
	Volume     Volume
	BlockSizes []int
	// Tests holds the raw plan lines, see ParsePlan.
	Tests []string
}

// LoadPattern reads and parses the pattern file at path.
func LoadPattern(path string) (*Pattern, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, lrc.NewError(lrc.HarnessFailure, err, path)
	}
	defer f.Close()
	return ParsePattern(f)
}

// ParsePattern reads `[section]` headers and their lines. Blank lines and lines starting with
// '#' are skipped, as is anything before the first header. The devices, volume and block_sizes
// sections use their first line only.
func ParsePattern(r io.Reader) (*Pattern, error) {
	sections := map[string][]string{}
	section := ""
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "[") {
			section = strings.Trim(strings.TrimSpace(line), "[]")
			continue
		}
		line = strings.TrimSpace(line)
		if section == "" || line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sections[section] = append(sections[section], line)
	}
	if err := sc.Err(); err != nil {
		return nil, lrc.NewError(lrc.HarnessFailure, err, nil)
	}

	for _, s := range []string{SectionDevices, SectionVolume, SectionBlockSizes} {
		if len(sections[s]) == 0 {
			return nil, lrc.Errorf(lrc.HarnessFailure, "pattern section [%s] is missing or empty", s)
		}
	}
	p := &Pattern{
		Devices: strings.Fields(sections[SectionDevices][0]),
		Tests:   sections[SectionTests],
	}
	v, err := ParseVolume(sections[SectionVolume][0])
	if err != nil {
		return nil, err
	}
	p.Volume = v
	for _, f := range strings.Fields(sections[SectionBlockSizes][0]) {
		n, err := strconv.Atoi(f)
		if err != nil || n <= 0 {
			return nil, lrc.Errorf(lrc.HarnessFailure, "block size %q is not a positive integer", f)
		}
		p.BlockSizes = append(p.BlockSizes, n)
	}
	return p, nil
}

// Plans parses every test line against the pattern's device count.
func (p *Pattern) Plans() ([]Plan, error) {
	plans := make([]Plan, 0, len(p.Tests))
	for _, t := range p.Tests {
		pl, err := ParsePlan(t, len(p.Devices))
		if err != nil {
			return nil, err
		}
		plans = append(plans, pl)
	}
	return plans, nil
}

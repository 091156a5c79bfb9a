package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sharedcode/lrc"
)

// PlanKind tells how a plan obtains its scheme.
type PlanKind int

const (
	// NoScheme plans benchmark an algorithm that needs no LRC layout.
	NoScheme PlanKind = iota
	// ExplicitScheme plans carry the descriptor inline.
	ExplicitScheme
	// SearchedScheme plans name a configuration resolved through the repository or searcher.
	SearchedScheme
)

// Plan is one line of the [tests] section:
//
//	<disks> <algorithm> [scheme=<descriptor> | groups=<n> length=<n> [global_s=<n>]]
type Plan struct {
	Disks     int
	Algorithm string
	Kind      PlanKind
	Scheme    string
	Groups    int
	Length    int
	GlobalS   int
}

// Query returns the repository query of a SearchedScheme plan.
func (p Plan) Query() lrc.Query {
	return lrc.NewQuery(p.Groups, p.Length, p.Disks, p.GlobalS)
}

func (p Plan) String() string {
	switch p.Kind {
	case ExplicitScheme:
		return fmt.Sprintf("%d %s scheme=%s", p.Disks, p.Algorithm, p.Scheme)
	case SearchedScheme:
		return fmt.Sprintf("%d %s groups=%d length=%d global_s=%d", p.Disks, p.Algorithm, p.Groups, p.Length, p.GlobalS)
	}
	return fmt.Sprintf("%d %s", p.Disks, p.Algorithm)
}

// ParsePlan parses a plan line. partitions is the number of devices available, a plan
// needing more disks than that fails.
func ParsePlan(line string, partitions int) (Plan, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Plan{}, lrc.Errorf(lrc.HarnessFailure, "plan %q needs at least disks and algorithm", line)
	}
	disks, err := strconv.Atoi(fields[0])
	if err != nil || disks <= 0 {
		return Plan{}, lrc.Errorf(lrc.HarnessFailure, "plan %q has invalid disk count", line)
	}
	if partitions < disks {
		return Plan{}, lrc.Errorf(lrc.HarnessFailure, "plan %q: partitions < disks (%d < %d)", line, partitions, disks)
	}
	p := Plan{
		Disks:     disks,
		Algorithm: fields[1],
		GlobalS:   1,
	}
	if len(fields) == 2 {
		return p, nil
	}

	params := map[string]string{}
	for _, f := range fields[2:] {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			return Plan{}, lrc.Errorf(lrc.HarnessFailure, "plan %q: %q is not key=value", line, f)
		}
		params[k] = v
	}
	if s, ok := params["scheme"]; ok {
		if s == "" {
			return Plan{}, lrc.Errorf(lrc.HarnessFailure, "plan %q has an empty scheme", line)
		}
		p.Kind = ExplicitScheme
		p.Scheme = s
		return p, nil
	}

	num := func(key string, required bool) (int, error) {
		v, ok := params[key]
		if !ok {
			if required {
				return 0, lrc.Errorf(lrc.HarnessFailure, "plan %q is missing %s", line, key)
			}
			return 1, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return 0, lrc.Errorf(lrc.HarnessFailure, "plan %q has invalid %s %q", line, key, v)
		}
		return n, nil
	}
	if p.Groups, err = num("groups", true); err != nil {
		return Plan{}, err
	}
	if p.Length, err = num("length", true); err != nil {
		return Plan{}, err
	}
	if p.GlobalS, err = num("global_s", false); err != nil {
		return Plan{}, err
	}
	p.Kind = SearchedScheme
	return p, nil
}

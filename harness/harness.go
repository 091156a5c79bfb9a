package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	log "log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/sharedcode/lrc"
	"github.com/sharedcode/lrc/emitter"
)

// Publisher stores run artifacts outside the work directory, see aws_s3.Publisher.
type Publisher interface {
	Publish(ctx context.Context, runID, name, contentType string, data []byte) (string, error)
}

// Harness runs every plan of a pattern.
type Harness struct {
	Pattern  *Pattern
	Resolver *Resolver
	Meter    Meter
	// WorkDir receives lrc_config.c and results.csv.
	WorkDir string
	// Publisher is optional.
	Publisher Publisher
}

// Result is the outcome of one plan.
type Result struct {
	Plan   Plan
	Scheme string
	Source Source
	Speeds []string
}

// Run benchmarks every plan in order and appends them to results.csv. It stops at the first
// failing plan; rows already written stay.
func (h *Harness) Run(ctx context.Context) ([]Result, error) {
	runID := uuid.NewString()
	plans, err := h.Pattern.Plans()
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(filepath.Join(h.WorkDir, ResultsFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, lrc.NewError(lrc.HarnessFailure, err, h.WorkDir)
	}
	defer f.Close()
	// Keep a copy of what this run appended for publishing.
	var runResults bytes.Buffer
	rw := NewResultsWriter(io.MultiWriter(f, &runResults))
	if err := rw.WriteHeader(h.Pattern.BlockSizes); err != nil {
		return nil, lrc.NewError(lrc.HarnessFailure, err, nil)
	}

	log.Info("benchmark run started", "run_id", runID, "plans", len(plans))
	results := make([]Result, 0, len(plans))
	for _, p := range plans {
		r, err := h.runPlan(ctx, runID, p)
		if err != nil {
			return results, err
		}
		if err := rw.WriteRow(p, r.Scheme, r.Speeds); err != nil {
			return results, lrc.NewError(lrc.HarnessFailure, err, nil)
		}
		results = append(results, r)
	}

	if h.Publisher != nil {
		if _, err := h.Publisher.Publish(ctx, runID, ResultsFileName, "text/csv", runResults.Bytes()); err != nil {
			return results, err
		}
	}
	log.Info("benchmark run finished", "run_id", runID)
	return results, nil
}

func (h *Harness) runPlan(ctx context.Context, runID string, p Plan) (Result, error) {
	r := Result{Plan: p}
	res, err := h.Resolver.Resolve(ctx, p)
	if err != nil {
		return r, err
	}
	if res != nil {
		r.Scheme = res.Layout.Descriptor
		r.Source = res.Source
		configFile := filepath.Join(h.WorkDir, emitter.ConfigFileName)
		if err := emitter.WriteFile(configFile, res.Layout); err != nil {
			return r, lrc.NewError(lrc.HarnessFailure, err, configFile)
		}
		if h.Publisher != nil {
			name := fmt.Sprintf("%d_%s_%s", p.Disks, p.Algorithm, emitter.ConfigFileName)
			if _, err := h.Publisher.Publish(ctx, runID, name, "text/x-c", emitter.Render(res.Layout)); err != nil {
				return r, err
			}
		}
	}

	for _, bs := range h.Pattern.BlockSizes {
		m := Measurement{
			Plan:      p,
			BlockSize: bs,
			Table:     TableLine(p, h.Pattern.Volume, bs, h.Pattern.Devices),
		}
		speed, err := h.Meter.Measure(ctx, m)
		if err != nil {
			return r, err
		}
		log.Debug("measured", "plan", p.String(), "block_size", bs, "speed", speed)
		r.Speeds = append(r.Speeds, speed)
	}
	return r, nil
}

package harness

import (
	"context"
	"fmt"
	log "log/slog"

	"github.com/sharedcode/lrc"
	"github.com/sharedcode/lrc/scheme"
)

// Source tells where a resolved scheme came from.
type Source string

const (
	FromPlan       Source = "plan"
	FromRepository Source = "repository"
	FromSearch     Source = "search"
)

// Resolution is the compiled scheme of a plan.
type Resolution struct {
	Layout *scheme.Layout
	Source Source
}

// Resolver finds the scheme of a plan: inline, memoized in the repository, or searched and
// then memoized.
type Resolver struct {
	Repository lrc.SchemeRepository
	Searcher   SchemeSearcher
	Options    lrc.CompilerOptions
}

// Resolve returns nil for NoScheme plans.
func (r *Resolver) Resolve(ctx context.Context, p Plan) (*Resolution, error) {
	switch p.Kind {
	case NoScheme:
		return nil, nil
	case ExplicitScheme:
		l, err := scheme.Compile(p.Scheme, r.Options)
		if err != nil {
			return nil, err
		}
		return &Resolution{Layout: l, Source: FromPlan}, nil
	}

	q := p.Query()
	rec, ok, err := r.Repository.Lookup(ctx, q)
	if err != nil {
		return nil, err
	}
	if ok {
		l, err := r.validate(rec, p)
		if err != nil {
			return nil, err
		}
		log.Debug("scheme found in repository", "plan", p.String(), "scheme", rec.Scheme)
		return &Resolution{Layout: l, Source: FromRepository}, nil
	}

	if r.Searcher == nil {
		return nil, lrc.Errorf(lrc.SearchFailure, "no scheme stored for %q and no searcher configured", p.String())
	}
	s, err := r.Searcher.Search(ctx, p.Disks, p.Groups, p.Length)
	if err != nil {
		return nil, err
	}
	rec = lrc.Record{
		Groups:  p.Groups,
		Length:  p.Length,
		Disks:   p.Disks,
		GlobalS: p.GlobalS,
		Scheme:  s,
	}
	l, err := r.validate(rec, p)
	if err != nil {
		return nil, err
	}
	if err := r.Repository.Add(ctx, rec); err != nil {
		return nil, err
	}
	return &Resolution{Layout: l, Source: FromSearch}, nil
}

// validate compiles a record and checks it against the plan it was looked up for.
func (r *Resolver) validate(rec lrc.Record, p Plan) (*scheme.Layout, error) {
	if rec.Groups != p.Groups || rec.Length != p.Length || rec.Disks != p.Disks || rec.GlobalS != p.GlobalS {
		return nil, lrc.NewError(lrc.ConfigurationConflict,
			fmt.Errorf("stored record %v doesn't match plan %q", rec.Fields(), p.String()), rec)
	}
	l, err := scheme.Compile(rec.Scheme, r.Options)
	if err != nil {
		return nil, err
	}
	if l.Constants.Substripes != p.Groups {
		return nil, lrc.NewError(lrc.ConfigurationConflict,
			fmt.Errorf("scheme %q has %d substripes, plan asks for %d groups", rec.Scheme, l.Constants.Substripes, p.Groups), rec)
	}
	if l.Constants.GlobalSyndromes != p.GlobalS {
		return nil, lrc.NewError(lrc.ConfigurationConflict,
			fmt.Errorf("scheme %q has %d global syndromes, plan asks for %d", rec.Scheme, l.Constants.GlobalSyndromes, p.GlobalS), rec)
	}
	return l, nil
}

package weather

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Service runs the two-step lookup: resolve the query to a location, then
// fetch current conditions for it.
type Service struct {
	resolver Resolver
	fetcher  ConditionFetcher
	recorder Recorder
}

// NewService creates a new Service. recorder may be nil.
func NewService(resolver Resolver, fetcher ConditionFetcher, recorder Recorder) *Service {
	return &Service{
		resolver: resolver,
		fetcher:  fetcher,
		recorder: recorder,
	}
}

// NewProviderService builds a Service whose both steps are served by p.
func NewProviderService(p Provider, recorder Recorder) *Service {
	return NewService(p, p, recorder)
}

// Lookup resolves query and fetches conditions for the first match.
// The fetcher is only called after the resolver succeeded; any failure
// aborts the sequence and no partial Report is returned.
func (s *Service) Lookup(ctx context.Context, query string) (Report, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Report{}, ErrEmptyQuery
	}

	start := time.Now()
	report, err := s.lookup(ctx, q)
	elapsed := time.Since(start)

	outcome := Classify(err)
	switch outcome {
	case OutcomeSuccess:
		log.Printf("INFO: lookup %q resolved to %s (%s) in %s", q, report.Location.Key, report.Location.Name, elapsed)
	case OutcomeNotFound:
		log.Printf("INFO: lookup %q: no matching location", q)
	default:
		log.Printf("ERROR: lookup %q failed (%s): %v", q, outcome, err)
	}

	if s.recorder != nil {
		s.recorder.ObserveLookup(outcome, elapsed)
	}

	return report, err
}

func (s *Service) lookup(ctx context.Context, q string) (Report, error) {
	loc, err := s.resolver.ResolveLocation(ctx, q)
	if err != nil {
		return Report{}, fmt.Errorf("resolve location %q: %w", q, err)
	}

	cond, err := s.fetcher.FetchConditions(ctx, loc.Key)
	if err != nil {
		return Report{}, fmt.Errorf("fetch conditions for %s: %w", loc.Key, err)
	}

	return Report{
		Query:      q,
		Location:   loc,
		Conditions: cond,
	}, nil
}

package weather

import (
	"context"
	"time"
)

// Resolver turns free text into the provider's location identifier.
type Resolver interface {
	ResolveLocation(ctx context.Context, query string) (Location, error)
}

// ConditionFetcher loads current conditions for a resolved location key.
type ConditionFetcher interface {
	FetchConditions(ctx context.Context, locationKey string) (Conditions, error)
}

// Provider abstracts a weather data source that can do both steps
// (e.g. AccuWeather).
type Provider interface {
	Name() string
	Resolver
	ConditionFetcher
}

// Recorder receives one observation per lookup.
type Recorder interface {
	ObserveLookup(outcome Outcome, duration time.Duration)
}

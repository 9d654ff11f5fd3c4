package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/city-weather/internal/weather"
)

// DefaultAccuWeatherBaseURL is the public AccuWeather data service root.
const DefaultAccuWeatherBaseURL = "https://dataservice.accuweather.com"

const (
	endpointLocations  = "locations"
	endpointConditions = "currentconditions"
)

// AccuWeatherProvider implements weather.Provider for AccuWeather: the
// city search endpoint resolves locations and the current-conditions
// endpoint supplies the record.
type AccuWeatherProvider struct {
	name     string
	apiKey   string
	baseURL  string
	client   *http.Client
	observer Observer

	locationCircuit   *gobreaker.CircuitBreaker
	conditionsCircuit *gobreaker.CircuitBreaker
}

// Option customizes an AccuWeatherProvider.
type Option func(*AccuWeatherProvider)

// WithBaseURL overrides the provider root (used by tests and proxies).
func WithBaseURL(baseURL string) Option {
	return func(p *AccuWeatherProvider) {
		if baseURL != "" {
			p.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithObserver reports per-request latency and failures.
func WithObserver(o Observer) Option {
	return func(p *AccuWeatherProvider) {
		p.observer = o
	}
}

// NewAccuWeatherProvider creates the provider. An empty apiKey is accepted;
// the provider will reject the requests.
func NewAccuWeatherProvider(client *http.Client, apiKey string, opts ...Option) *AccuWeatherProvider {
	p := &AccuWeatherProvider{
		name:              "accuweather",
		apiKey:            apiKey,
		baseURL:           DefaultAccuWeatherBaseURL,
		client:            client,
		locationCircuit:   newCircuitBreaker("accuweather-locations"),
		conditionsCircuit: newCircuitBreaker("accuweather-currentconditions"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *AccuWeatherProvider) Name() string {
	return p.name
}

// ResolveLocation returns the first city search match for query.
func (p *AccuWeatherProvider) ResolveLocation(ctx context.Context, query string) (weather.Location, error) {
	values := url.Values{}
	values.Set("apikey", p.apiKey)
	values.Set("q", query)
	u := fmt.Sprintf("%s/locations/v1/cities/search?%s", p.baseURL, values.Encode())

	body, err := p.get(ctx, endpointLocations, p.locationCircuit, u)
	if err != nil {
		return weather.Location{}, err
	}

	first, found, err := firstElement(body)
	if err != nil {
		return weather.Location{}, fmt.Errorf("%s city search: %w", p.name, err)
	}
	if !found {
		return weather.Location{}, weather.ErrLocationNotFound
	}

	key := first.Get("Key").String()
	if key == "" {
		return weather.Location{}, fmt.Errorf("%s city search: first match has no Key: %w", p.name, weather.ErrMalformedResponse)
	}

	return weather.Location{
		Key:     key,
		Name:    first.Get("LocalizedName").String(),
		Country: first.Get("Country.LocalizedName").String(),
	}, nil
}

// FetchConditions returns the detailed current conditions for locationKey.
func (p *AccuWeatherProvider) FetchConditions(ctx context.Context, locationKey string) (weather.Conditions, error) {
	values := url.Values{}
	values.Set("apikey", p.apiKey)
	values.Set("details", "true")
	u := fmt.Sprintf("%s/currentconditions/v1/%s?%s", p.baseURL, url.PathEscape(locationKey), values.Encode())

	body, err := p.get(ctx, endpointConditions, p.conditionsCircuit, u)
	if err != nil {
		return weather.Conditions{}, err
	}

	first, found, err := firstElement(body)
	if err != nil {
		return weather.Conditions{}, fmt.Errorf("%s current conditions: %w", p.name, err)
	}
	if !found {
		return weather.Conditions{}, weather.ErrConditionsUnavailable
	}

	cond := weather.Conditions{
		Temperature: metric(first, "Temperature"),
		FeelsLike:   metric(first, "RealFeelTemperature"),
		Humidity:    optionalFloat(first, "RelativeHumidity"),
		WindSpeed:   metric(first, "Wind.Speed"),
		Pressure:    metric(first, "Pressure"),
		Description: first.Get("WeatherText").String(),
		Icon:        optionalInt(first, "WeatherIcon"),
		ObservedAt:  observedAt(first),
	}
	if err := cond.Validate(); err != nil {
		return weather.Conditions{}, err
	}
	return cond, nil
}

func (p *AccuWeatherProvider) get(ctx context.Context, endpoint string, cb *gobreaker.CircuitBreaker, rawURL string) ([]byte, error) {
	start := time.Now()
	body, err := doRequest(ctx, p.client, cb, rawURL)
	if p.observer != nil {
		p.observer.ObserveUpstream(p.name, endpoint, err, time.Since(start))
	}
	if err != nil {
		// The error may carry the request URL, which includes the key.
		return nil, fmt.Errorf("%s %s request: %s", p.name, endpoint, redact(err.Error(), p.apiKey))
	}
	return body, nil
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "REDACTED")
}

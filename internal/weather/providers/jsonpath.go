package providers

import (
	"bytes"
	"time"

	"github.com/tidwall/gjson"

	"github.com/i474232898/city-weather/internal/weather"
)

// firstElement returns the first element of a JSON array body.
// found is false for an empty body, null, or an empty array; a body that is
// not a JSON array yields weather.ErrMalformedResponse.
func firstElement(body []byte) (first gjson.Result, found bool, err error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return gjson.Result{}, false, nil
	}
	if !gjson.ValidBytes(trimmed) {
		return gjson.Result{}, false, weather.ErrMalformedResponse
	}

	root := gjson.ParseBytes(trimmed)
	switch {
	case root.Type == gjson.Null:
		return gjson.Result{}, false, nil
	case !root.IsArray():
		return gjson.Result{}, false, weather.ErrMalformedResponse
	}

	first = root.Get("0")
	if !first.Exists() {
		return gjson.Result{}, false, nil
	}
	if !first.IsObject() {
		return gjson.Result{}, false, weather.ErrMalformedResponse
	}
	return first, true, nil
}

// optionalFloat reads a numeric path. Missing paths and non-numbers are absent.
func optionalFloat(r gjson.Result, path string) *float64 {
	v := r.Get(path)
	if v.Type != gjson.Number {
		return nil
	}
	f := v.Float()
	return &f
}

func optionalInt(r gjson.Result, path string) *int {
	v := r.Get(path)
	if v.Type != gjson.Number {
		return nil
	}
	n := int(v.Int())
	return &n
}

// metric reads "<path>.Metric.{Value,Unit}".
func metric(r gjson.Result, path string) weather.Measurement {
	group := r.Get(path + ".Metric")
	return weather.Measurement{
		Value: optionalFloat(group, "Value"),
		Unit:  group.Get("Unit").String(),
	}
}

// observedAt prefers the local timestamp (keeps the station's offset) and
// falls back to the epoch field.
func observedAt(r gjson.Result) time.Time {
	if s := r.Get("LocalObservationDateTime").String(); s != "" {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			return ts
		}
	}
	if epoch := r.Get("EpochTime"); epoch.Type == gjson.Number {
		return time.Unix(epoch.Int(), 0).UTC()
	}
	return time.Time{}
}

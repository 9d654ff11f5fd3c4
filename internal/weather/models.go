package weather

import (
	"time"
)

// Location is the first geocoding match for a query.
type Location struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// Measurement is a value in the provider's metric unit group.
// A nil Value means the provider omitted the path.
type Measurement struct {
	Value *float64 `json:"value,omitempty"`
	Unit  string   `json:"unit,omitempty"`
}

// Present reports whether the provider supplied a value.
func (m Measurement) Present() bool {
	return m.Value != nil
}

// Conditions is the flat current-conditions record for one location.
// Every numeric field is optional; only Temperature is required for the
// record to be usable.
type Conditions struct {
	Temperature Measurement `json:"temperature"`
	FeelsLike   Measurement `json:"feelsLike"`
	Humidity    *float64    `json:"humidityPercent,omitempty"`
	WindSpeed   Measurement `json:"windSpeed"`
	Pressure    Measurement `json:"pressure"`
	Description string      `json:"description"`
	Icon        *int        `json:"icon,omitempty"`
	ObservedAt  time.Time   `json:"observedAt"` // zero when unknown
}

// Validate returns ErrIncompleteConditions when the temperature is missing.
func (c Conditions) Validate() error {
	if !c.Temperature.Present() {
		return ErrIncompleteConditions
	}
	return nil
}

// Report pairs a resolved location with the conditions fetched for it.
// It is always produced and replaced as a whole.
type Report struct {
	Query      string     `json:"query"`
	Location   Location   `json:"location"`
	Conditions Conditions `json:"conditions"`
}

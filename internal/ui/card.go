package ui

import (
	"math"
	"strconv"
	"strings"

	"github.com/i474232898/city-weather/internal/weather"
)

// Placeholder is shown for any field the provider did not supply.
const Placeholder = "N/A"

// DefaultIconTemplate is the AccuWeather icon asset path; {icon} is replaced
// by the two-digit icon code.
const DefaultIconTemplate = "https://developer.accuweather.com/sites/default/files/{icon}-s.png"

const observedLayout = "Mon, 02 Jan 2006 15:04 MST"

// Card is the display form of a Report. Every field is rendered on its own,
// so one missing value never blanks the rest of the card.
type Card struct {
	CityLine    string `json:"cityLine"`
	Temperature string `json:"temperature"`
	FeelsLike   string `json:"feelsLike"`
	Humidity    string `json:"humidity"`
	WindSpeed   string `json:"windSpeed"`
	Pressure    string `json:"pressure"`
	Description string `json:"description"`
	IconURL     string `json:"iconUrl"`
	ObservedAt  string `json:"observedAt"`
}

// NewCard renders r.
func NewCard(r weather.Report, iconTemplate string) Card {
	c := r.Conditions
	return Card{
		CityLine:    CityLine(r.Location),
		Temperature: FormatTemperature(c.Temperature),
		FeelsLike:   FormatTemperature(c.FeelsLike),
		Humidity:    formatHumidity(c.Humidity),
		WindSpeed:   formatMeasurement(c.WindSpeed),
		Pressure:    formatMeasurement(c.Pressure),
		Description: orPlaceholder(c.Description),
		IconURL:     iconOrPlaceholder(iconTemplate, c.Icon),
		ObservedAt:  formatObserved(c),
	}
}

// CityLine renders "City, Country", or just the city when the country is unknown.
func CityLine(loc weather.Location) string {
	switch {
	case loc.Name == "" && loc.Country == "":
		return Placeholder
	case loc.Country == "":
		return loc.Name
	case loc.Name == "":
		return loc.Country
	}
	return loc.Name + ", " + loc.Country
}

// FormatTemperature renders a rounded temperature such as "18°C".
func FormatTemperature(m weather.Measurement) string {
	if !m.Present() {
		return Placeholder
	}
	return strconv.FormatFloat(roundHalfUp(*m.Value), 'f', 0, 64) + "°" + m.Unit
}

// IconURL zero-pads codes below 10 and substitutes them into tmpl.
// The code range is not validated.
func IconURL(tmpl string, code int) string {
	s := strconv.Itoa(code)
	if code < 10 {
		s = "0" + s
	}
	return strings.ReplaceAll(tmpl, "{icon}", s)
}

func iconOrPlaceholder(tmpl string, code *int) string {
	if code == nil || tmpl == "" {
		return ""
	}
	return IconURL(tmpl, *code)
}

func formatHumidity(h *float64) string {
	if h == nil {
		return Placeholder
	}
	return strconv.FormatFloat(roundHalfUp(*h), 'f', 0, 64) + "%"
}

func formatMeasurement(m weather.Measurement) string {
	if !m.Present() {
		return Placeholder
	}
	v := strconv.FormatFloat(*m.Value, 'f', -1, 64)
	if m.Unit == "" {
		return v
	}
	return v + " " + m.Unit
}

func formatObserved(c weather.Conditions) string {
	if c.ObservedAt.IsZero() {
		return Placeholder
	}
	return c.ObservedAt.Format(observedLayout)
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// roundHalfUp rounds .5 towards positive infinity and never returns -0.
func roundHalfUp(v float64) float64 {
	r := math.Floor(v + 0.5)
	if r == 0 {
		return 0
	}
	return r
}

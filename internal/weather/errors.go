package weather

import "errors"

var (
	// ErrEmptyQuery is returned for blank or whitespace-only input.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrLocationNotFound is returned when geocoding yields no match.
	ErrLocationNotFound = errors.New("location not found")

	// ErrConditionsUnavailable is returned when the provider has no
	// current conditions for a resolved location.
	ErrConditionsUnavailable = errors.New("current conditions unavailable")

	// ErrIncompleteConditions is returned when conditions lack a temperature.
	ErrIncompleteConditions = errors.New("current conditions missing temperature")

	// ErrMalformedResponse is returned when a provider body cannot be read
	// as the expected shape.
	ErrMalformedResponse = errors.New("malformed provider response")
)

// Outcome classifies the result of a lookup.
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeEmptyQuery  Outcome = "empty_query"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeUnavailable Outcome = "unavailable"
	OutcomeIncomplete  Outcome = "incomplete"
	OutcomeTransport   Outcome = "transport_error"
)

// User-facing messages, one per failure class.
const (
	MessageNotFound    = "City not found. Please check the name and try again."
	MessageUnavailable = "Weather data is currently unavailable for this location."
	MessageIncomplete  = "Weather data for this location is incomplete."
	MessageTransport   = "Failed to fetch weather data. Please try again later."
)

// Classify maps an error returned by Lookup (or a provider) to its Outcome.
// Anything that is not one of the package sentinels is a transport failure.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrEmptyQuery):
		return OutcomeEmptyQuery
	case errors.Is(err, ErrLocationNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrIncompleteConditions):
		return OutcomeIncomplete
	case errors.Is(err, ErrConditionsUnavailable), errors.Is(err, ErrMalformedResponse):
		return OutcomeUnavailable
	default:
		return OutcomeTransport
	}
}

// UserMessage returns the message to show for err. It never exposes the
// underlying error text. Empty queries and successes have no message.
func UserMessage(err error) string {
	switch Classify(err) {
	case OutcomeNotFound:
		return MessageNotFound
	case OutcomeUnavailable:
		return MessageUnavailable
	case OutcomeIncomplete:
		return MessageIncomplete
	case OutcomeTransport:
		return MessageTransport
	default:
		return ""
	}
}

package httpapi

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/i474232898/city-weather/internal/store"
	"github.com/i474232898/city-weather/internal/ui"
	"github.com/i474232898/city-weather/internal/weather"
)

// SessionCookie names the cookie carrying the visitor's session id.
const SessionCookie = "sid"

var validate = validator.New()

// Dependencies bundles what the handlers need.
type Dependencies struct {
	Service  *weather.Service
	Sessions *store.SessionStore
	Renderer *ui.Renderer

	// SessionMaxAge sets the cookie lifetime (0 = browser session).
	SessionMaxAge time.Duration
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	h := &handler{deps: deps}

	app.Get("/", h.page)
	app.Get("/search", h.search)

	v1 := app.Group("/api/v1")
	v1.Get("/weather/current", h.current)
	v1.Get("/session", h.sessionState)
	v1.Post("/session/search", h.sessionSearch)
	v1.Delete("/session", h.sessionDelete)
}

// ErrorHandler renders errors as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

type handler struct {
	deps Dependencies
}

// page renders the visitor's current state.
func (h *handler) page(c *fiber.Ctx) error {
	sess := h.session(c)
	return h.render(c, sess.State())
}

// search runs a lookup for the visitor and renders the outcome.
// Blank input leaves the page as it was.
// The response is written only after the lookup settles, so the busy text
// shows up for other requests on the same session (a second tab), never for
// the one that started the search.
func (h *handler) search(c *fiber.Ctx) error {
	sess := h.session(c)
	st := sess.Search(c.UserContext(), queryParam(c))
	return h.render(c, st)
}

func (h *handler) current(c *fiber.Ctx) error {
	q, err := parseSearchQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	report, err := h.deps.Service.Lookup(c.UserContext(), q.Q)
	if err != nil {
		return fiber.NewError(statusFor(err), weather.UserMessage(err))
	}

	return c.JSON(fiber.Map{
		"location":   report.Location,
		"conditions": report.Conditions,
		"card":       h.deps.Renderer.CardFor(report),
	})
}

func (h *handler) sessionState(c *fiber.Ctx) error {
	return c.JSON(h.session(c).State())
}

func (h *handler) sessionSearch(c *fiber.Ctx) error {
	sess := h.session(c)
	return c.JSON(sess.Search(c.UserContext(), queryParam(c)))
}

// sessionDelete drops the visitor's session and expires the cookie.
func (h *handler) sessionDelete(c *fiber.Ctx) error {
	id := c.Cookies(SessionCookie)
	if sess, err := h.deps.Sessions.Get(id); err == nil {
		// Other holders of this session see Idle.
		sess.Reset()
		h.deps.Sessions.Delete(id)
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.SendStatus(fiber.StatusNoContent)
}

// queryParam returns the q parameter detached from the request buffer, which
// fasthttp reuses once the handler returns.
func queryParam(c *fiber.Ctx) string {
	return utils.CopyString(c.Query("q"))
}

// session returns the visitor's session, issuing a cookie for new visitors.
func (h *handler) session(c *fiber.Ctx) *ui.Session {
	current := c.Cookies(SessionCookie)
	id, sess := h.deps.Sessions.Obtain(current)
	if id != current {
		cookie := &fiber.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		}
		if h.deps.SessionMaxAge > 0 {
			cookie.MaxAge = int(h.deps.SessionMaxAge.Seconds())
		}
		c.Cookie(cookie)
	}
	return sess
}

func (h *handler) render(c *fiber.Ctx, st ui.State) error {
	var buf bytes.Buffer
	if err := h.deps.Renderer.Render(&buf, st); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// searchQuery holds the query parameter of the lookup endpoint.
type searchQuery struct {
	Q string `validate:"required,max=200"`
}

func parseSearchQuery(c *fiber.Ctx) (searchQuery, error) {
	q := searchQuery{Q: strings.TrimSpace(queryParam(c))}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func statusFor(err error) int {
	switch weather.Classify(err) {
	case weather.OutcomeEmptyQuery:
		return fiber.StatusBadRequest
	case weather.OutcomeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusBadGateway
	}
}

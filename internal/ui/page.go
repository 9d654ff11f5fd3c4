package ui

import (
	"embed"
	"html/template"
	"io"

	"github.com/i474232898/city-weather/internal/weather"
)

//go:embed templates/index.html
var templatesFS embed.FS

// Page is the view model of the search page.
type Page struct {
	Query string
	Busy  bool
	Error string
	Card  *Card
}

// Renderer renders the search page.
type Renderer struct {
	tmpl         *template.Template
	iconTemplate string
}

// NewRenderer parses the embedded page template.
func NewRenderer(iconTemplate string) (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl, iconTemplate: iconTemplate}, nil
}

// PageFor builds the view model. A card is only produced in StatusResult and
// an error banner only in StatusError.
func (r *Renderer) PageFor(st State) Page {
	p := Page{
		Query: st.Query,
		Busy:  st.Busy(),
	}
	switch st.Status {
	case StatusResult:
		if st.Report != nil {
			card := NewCard(*st.Report, r.iconTemplate)
			p.Card = &card
		}
	case StatusError:
		p.Error = st.Error
	}
	return p
}

// Render writes the page for st.
func (r *Renderer) Render(w io.Writer, st State) error {
	return r.tmpl.ExecuteTemplate(w, "index.html", r.PageFor(st))
}

// CardFor renders a standalone card for report.
func (r *Renderer) CardFor(report weather.Report) Card {
	return NewCard(report, r.iconTemplate)
}

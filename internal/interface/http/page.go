package http

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/moonwatch/internal/domain/compass"
	"github.com/yanqian/moonwatch/internal/domain/moonview"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const indexTemplate = "index.html.tmpl"

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.tmpl")
}

type pageData struct {
	Query      moonview.Query
	View       moonview.ViewState
	Loading    bool
	Facts      []moonview.Fact
	Compass    compass.Needle
	CompassSVG template.HTML
	Decoration moonview.Decoration
	Sphere     moonview.Sphere
}

// Index renders the whole page for the caller's session.
func (h *Handler) Index(c *gin.Context) {
	_, ctrl := h.controller(c)
	snap := ctrl.Snapshot()
	angle := snap.View.CompassAngle()
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, indexTemplate, pageData{
		Query:      snap.Query,
		View:       snap.View,
		Loading:    snap.View.Loading(),
		Facts:      moonview.Facts(snap.View.Result),
		Compass:    compass.Render(angle),
		CompassSVG: template.HTML(compass.SVG(angle)),
		Decoration: snap.Decoration,
		Sphere:     h.sphere,
	})
}

// SubmitForm handles the location form for browsers without scripting.
func (h *Handler) SubmitForm(c *gin.Context) {
	id, ctrl := h.controller(c)
	ctrl.SetLocationText(c.PostForm("location"))
	h.submit(c, id, ctrl)
	c.Redirect(http.StatusSeeOther, "/")
}

// Toggle3DForm flips the moon panel and returns to the page.
func (h *Handler) Toggle3DForm(c *gin.Context) {
	id, ctrl := h.controller(c)
	ctrl.Toggle3D()
	h.registry.Persist(c.Request.Context(), id)
	c.Redirect(http.StatusSeeOther, "/")
}

// ToggleAudioForm flips play/pause and returns to the page.
func (h *Handler) ToggleAudioForm(c *gin.Context) {
	id, ctrl := h.controller(c)
	ctrl.ToggleAudio()
	h.registry.Persist(c.Request.Context(), id)
	c.Redirect(http.StatusSeeOther, "/")
}

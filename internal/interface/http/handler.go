package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/moonwatch/internal/domain/compass"
	"github.com/yanqian/moonwatch/internal/domain/moonview"
	"github.com/yanqian/moonwatch/internal/domain/session"
	"github.com/yanqian/moonwatch/internal/infra/config"
	apperrors "github.com/yanqian/moonwatch/pkg/errors"
)

// AssetResolver turns an asset file name into a URL the browser can load.
type AssetResolver interface {
	URL(ctx context.Context, name string) (string, error)
}

// Handler wires the HTTP transport to the per-session controllers.
type Handler struct {
	registry *session.Registry
	assets   AssetResolver
	files    map[string]string
	sphere   moonview.Sphere
	logger   *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(cfg *config.Config, registry *session.Registry, assets AssetResolver, logger *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		assets:   assets,
		files: map[string]string{
			"background": cfg.Assets.Background,
			"audio":      cfg.Assets.Audio,
		},
		sphere: moonview.DefaultSphere(cfg.Assets.TextureURL),
		logger: logger.With("component", "http.handler"),
	}
}

type stateResponse struct {
	Query      moonview.Query      `json:"query"`
	View       moonview.ViewState  `json:"view"`
	Facts      []moonview.Fact     `json:"facts,omitempty"`
	Compass    compass.Needle      `json:"compass"`
	Decoration moonview.Decoration `json:"decoration"`
}

type locationRequest struct {
	Location *string `json:"location"`
}

type positionRequest struct {
	Position *float64 `json:"position" binding:"required"`
}

func newStateResponse(snap moonview.Snapshot) stateResponse {
	return stateResponse{
		Query:      snap.Query,
		View:       snap.View,
		Facts:      moonview.Facts(snap.View.Result),
		Compass:    compass.Render(snap.View.CompassAngle()),
		Decoration: snap.Decoration,
	}
}

// State returns the caller's view session.
func (h *Handler) State(c *gin.Context) {
	_, ctrl := h.controller(c)
	c.JSON(http.StatusOK, newStateResponse(ctrl.Snapshot()))
}

// SetLocation stores the pending location text.
func (h *Handler) SetLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Location == nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "location is required", err))
		return
	}
	id, ctrl := h.controller(c)
	ctrl.SetLocationText(*req.Location)
	h.registry.Persist(c.Request.Context(), id)
	c.JSON(http.StatusOK, newStateResponse(ctrl.Snapshot()))
}

// Query submits the pending location, optionally replacing it first. A
// failed fetch is a view state, so the response is 200 either way.
func (h *Handler) Query(c *gin.Context) {
	var req locationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
			return
		}
	}
	id, ctrl := h.controller(c)
	if req.Location != nil {
		ctrl.SetLocationText(*req.Location)
	}
	h.submit(c, id, ctrl)
	c.JSON(http.StatusOK, newStateResponse(ctrl.Snapshot()))
}

// Toggle3D shows or hides the moon panel.
func (h *Handler) Toggle3D(c *gin.Context) {
	id, ctrl := h.controller(c)
	ctrl.Toggle3D()
	h.registry.Persist(c.Request.Context(), id)
	c.JSON(http.StatusOK, newStateResponse(ctrl.Snapshot()))
}

// ToggleAudio plays or pauses the background loop.
func (h *Handler) ToggleAudio(c *gin.Context) {
	id, ctrl := h.controller(c)
	ctrl.ToggleAudio()
	h.registry.Persist(c.Request.Context(), id)
	c.JSON(http.StatusOK, newStateResponse(ctrl.Snapshot()))
}

// SeekAudio records the player position reported by the browser.
func (h *Handler) SeekAudio(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	id, ctrl := h.controller(c)
	ctrl.SeekAudio(*req.Position)
	h.registry.Persist(c.Request.Context(), id)
	c.JSON(http.StatusOK, newStateResponse(ctrl.Snapshot()))
}

// CompassSVG renders the dial for ?angle=, or for the session's current
// angle when the parameter is absent.
func (h *Handler) CompassSVG(c *gin.Context) {
	var angle float64
	if raw, ok := c.GetQuery("angle"); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			abortWithError(c, fromAppError(apperrors.Wrap(apperrors.CodeInvalidInput, "angle must be a number", err)))
			return
		}
		angle = parsed
	} else {
		_, ctrl := h.controller(c)
		angle = ctrl.CompassAngle()
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "image/svg+xml; charset=utf-8", []byte(compass.SVG(angle)))
}

// Sphere describes the decorative 3D model.
func (h *Handler) Sphere(c *gin.Context) {
	c.JSON(http.StatusOK, h.sphere)
}

// Asset redirects to the resolved URL of a named asset.
func (h *Handler) Asset(c *gin.Context) {
	file, ok := h.files[c.Param("name")]
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "unknown asset", nil))
		return
	}
	target, err := h.assets.URL(c.Request.Context(), file)
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	c.Redirect(http.StatusFound, target)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.registry.Len()})
}

func (h *Handler) controller(c *gin.Context) (string, *moonview.Controller) {
	id := sessionID(c)
	return id, h.registry.Controller(c.Request.Context(), id)
}

// submit runs the fetch detached from client cancellation; leaving the page
// does not abort an in-flight request.
func (h *Handler) submit(c *gin.Context, id string, ctrl *moonview.Controller) moonview.ViewState {
	ctx := context.WithoutCancel(c.Request.Context())
	view := ctrl.Submit(ctx)
	h.registry.Persist(ctx, id)
	return view
}

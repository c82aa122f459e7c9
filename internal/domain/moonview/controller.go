package moonview

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// AstronomyClient fetches moon data for a free-form location.
type AstronomyClient interface {
	Fetch(ctx context.Context, location string) (AstronomyResult, error)
}

// Controller mediates between user input and the astronomy provider for one
// viewer. It is safe for concurrent use; the provider call runs without the
// lock held, and overlapping submissions resolve as "last submitted wins".
type Controller struct {
	client AstronomyClient
	logger *slog.Logger

	mu         sync.Mutex
	query      Query
	view       ViewState
	decoration Decoration
	lastToken  uint64
}

// NewController builds an idle controller.
func NewController(client AstronomyClient, logger *slog.Logger) *Controller {
	return &Controller{
		client: client,
		logger: logger.With("component", "moonview.controller"),
		view:   Idle(),
	}
}

// SetLocationText stores the input verbatim.
func (c *Controller) SetLocationText(text string) {
	c.mu.Lock()
	c.query.LocationText = text
	c.mu.Unlock()
}

// Submit validates the current location and, when it is not blank, issues
// exactly one provider request. The returned state is the controller's state
// after this submission settled, which belongs to a newer submission if one
// was issued meanwhile.
func (c *Controller) Submit(ctx context.Context) ViewState {
	c.mu.Lock()
	c.lastToken++
	token := c.lastToken
	location := c.query.LocationText
	if strings.TrimSpace(location) == "" {
		c.view = Reduce(c.view, QueryRejected{Token: token, Message: MsgEmptyLocation})
		view := c.view
		c.mu.Unlock()
		return view
	}
	c.view = Reduce(c.view, FetchStarted{Token: token, Location: location})
	c.mu.Unlock()

	result, err := c.client.Fetch(ctx, location)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Warn("moon data fetch failed", "location", location, "token", token, "error", err)
		c.view = Reduce(c.view, FetchFailed{Token: token, Message: MsgFetchFailed})
	} else {
		c.view = Reduce(c.view, FetchSucceeded{Token: token, Result: result})
	}
	if c.view.Token != token {
		c.logger.Debug("discarded stale moon data", "token", token, "latest", c.view.Token)
	}
	return c.view
}

// View returns the current state.
func (c *Controller) View() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// CompassAngle derives the needle angle from the current state.
func (c *Controller) CompassAngle() float64 {
	return c.View().CompassAngle()
}

// Toggle3D shows or hides the moon panel.
func (c *Controller) Toggle3D() Decoration {
	return c.updateDecoration(Decoration.Toggle3D)
}

// ToggleAudio plays or pauses the background loop.
func (c *Controller) ToggleAudio() Decoration {
	return c.updateDecoration(Decoration.ToggleAudio)
}

// SeekAudio records the player position in seconds.
func (c *Controller) SeekAudio(seconds float64) Decoration {
	return c.updateDecoration(func(d Decoration) Decoration { return d.Seek(seconds) })
}

func (c *Controller) updateDecoration(fn func(Decoration) Decoration) Decoration {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decoration = fn(c.decoration)
	return c.decoration
}

// Snapshot copies the controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{Query: c.query, View: c.view, Decoration: c.decoration}
	if snap.View.Result != nil {
		result := *snap.View.Result
		snap.View.Result = &result
	}
	return snap
}

// Restore loads a snapshot taken by another controller. A snapshot caught
// mid-fetch cannot be resumed, so it is restored as a failed fetch.
func (c *Controller) Restore(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = snap.Query
	c.decoration = snap.Decoration
	c.view = snap.View
	if c.view.Status == "" {
		c.view.Status = StatusIdle
	}
	if c.view.Loading() {
		c.view = Reduce(c.view, FetchFailed{Token: c.view.Token, Message: MsgFetchFailed})
	}
	if c.view.Token > c.lastToken {
		c.lastToken = c.view.Token
	}
}

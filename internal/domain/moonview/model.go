package moonview

// Messages shown to the user. They are part of the contract and must not be
// reworded.
const (
	MsgEmptyLocation = "Please enter a city."
	MsgFetchFailed   = "Could not fetch moon data. Please check the location and try again."
)

// Query is the user's pending input.
type Query struct {
	LocationText string `json:"location"`
}

// AstronomyResult carries the moon facts returned by the provider. Fields
// are copied verbatim; an empty string means the provider did not send it.
type AstronomyResult struct {
	Moonrise     string `json:"moonrise,omitempty"`
	Moonset      string `json:"moonset,omitempty"`
	MoonPhase    string `json:"moonPhase,omitempty"`
	MoonAltitude string `json:"moonAltitude,omitempty"`
	MoonAzimuth  string `json:"moonAzimuth,omitempty"`
}

// Status tags the active ViewState variant.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusErrored Status = "errored"
)

// ViewState is the display mode of one controller. Result is set only when
// Status is loaded and Error only when Status is errored.
type ViewState struct {
	Status   Status           `json:"status"`
	Location string           `json:"location,omitempty"`
	Result   *AstronomyResult `json:"result,omitempty"`
	Error    string           `json:"error,omitempty"`
	// Token identifies the latest submission; completions carrying an older
	// token are ignored.
	Token uint64 `json:"token"`
}

// Idle is the initial state.
func Idle() ViewState {
	return ViewState{Status: StatusIdle}
}

// Loading reports whether a fetch is in flight.
func (v ViewState) Loading() bool {
	return v.Status == StatusLoading
}

// CompassAngle derives the needle angle from the loaded result, 0 otherwise.
func (v ViewState) CompassAngle() float64 {
	if v.Status != StatusLoaded || v.Result == nil {
		return 0
	}
	return v.Result.CompassAngle()
}

// Snapshot is a copy of everything a controller holds.
type Snapshot struct {
	Query      Query      `json:"query"`
	View       ViewState  `json:"view"`
	Decoration Decoration `json:"decoration"`
}

package moonview

// Event drives a ViewState transition.
type Event interface {
	apply(ViewState) ViewState
}

// QueryRejected is raised when a submission fails local validation.
type QueryRejected struct {
	Token   uint64
	Message string
}

// FetchStarted is raised when a request to the provider is issued.
type FetchStarted struct {
	Token    uint64
	Location string
}

// FetchSucceeded carries the provider's answer for the request Token.
type FetchSucceeded struct {
	Token  uint64
	Result AstronomyResult
}

// FetchFailed reports that the request Token did not produce a result.
type FetchFailed struct {
	Token   uint64
	Message string
}

// Reduce returns the state that follows ev. It never mutates state.
func Reduce(state ViewState, ev Event) ViewState {
	if ev == nil {
		return state
	}
	return ev.apply(state)
}

func (e QueryRejected) apply(s ViewState) ViewState {
	if e.Token < s.Token {
		return s
	}
	return ViewState{Status: StatusErrored, Error: e.Message, Token: e.Token}
}

func (e FetchStarted) apply(s ViewState) ViewState {
	if e.Token < s.Token {
		return s
	}
	return ViewState{Status: StatusLoading, Location: e.Location, Token: e.Token}
}

func (e FetchSucceeded) apply(s ViewState) ViewState {
	if !s.awaiting(e.Token) {
		return s
	}
	result := e.Result
	return ViewState{Status: StatusLoaded, Location: s.Location, Result: &result, Token: e.Token}
}

func (e FetchFailed) apply(s ViewState) ViewState {
	if !s.awaiting(e.Token) {
		return s
	}
	return ViewState{Status: StatusErrored, Location: s.Location, Error: e.Message, Token: e.Token}
}

func (s ViewState) awaiting(token uint64) bool {
	return s.Status == StatusLoading && s.Token == token
}

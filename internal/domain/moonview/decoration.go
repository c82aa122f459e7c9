package moonview

import "math"

// Playback mirrors the browser's background audio element.
type Playback struct {
	Playing bool `json:"playing"`
	// Position is the playback offset in seconds.
	Position float64 `json:"position"`
}

// Decoration is the state of the 3D moon panel and its audio.
type Decoration struct {
	Visible bool     `json:"visible"`
	Audio   Playback `json:"audio"`
}

// Toggle3D flips the panel. Hiding it always stops and rewinds the audio.
func (d Decoration) Toggle3D() Decoration {
	d.Visible = !d.Visible
	if !d.Visible {
		d.Audio = Playback{}
	}
	return d
}

// ToggleAudio flips play/pause without touching the position.
func (d Decoration) ToggleAudio() Decoration {
	d.Audio.Playing = !d.Audio.Playing
	return d
}

// Seek records the position reported by the player.
func (d Decoration) Seek(seconds float64) Decoration {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	d.Audio.Position = seconds
	return d
}

// Sphere describes the decorative moon model handed to the browser renderer.
type Sphere struct {
	Radius          float64    `json:"radius"`
	WidthSegments   int        `json:"widthSegments"`
	HeightSegments  int        `json:"heightSegments"`
	InitialRotation [3]float64 `json:"initialRotation"`
	// SpinPerFrame is added to the Y rotation on every animation frame.
	SpinPerFrame float64 `json:"spinPerFrame"`
	TextureURL   string  `json:"textureUrl"`
}

// DefaultSphere returns the model used by the 3D panel.
func DefaultSphere(textureURL string) Sphere {
	return Sphere{
		Radius:          2,
		WidthSegments:   64,
		HeightSegments:  64,
		InitialRotation: [3]float64{0.4, 0.4, 0},
		SpinPerFrame:    0.002,
		TextureURL:      textureURL,
	}
}

// RotationAt returns the Euler rotation after frame animation frames.
func (s Sphere) RotationAt(frame int64) [3]float64 {
	rot := s.InitialRotation
	if frame > 0 {
		rot[1] += float64(frame) * s.SpinPerFrame
	}
	return rot
}

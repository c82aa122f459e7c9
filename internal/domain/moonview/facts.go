package moonview

// NotAvailable is rendered in place of any absent fact.
const NotAvailable = "N/A"

// Fact is one labelled line of the result card.
type Fact struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Facts lists the result card lines in display order.
func Facts(r *AstronomyResult) []Fact {
	if r == nil {
		return nil
	}
	return []Fact{
		{Key: "moonrise", Label: "Moonrise", Value: orNA(r.Moonrise, "")},
		{Key: "moonset", Label: "Moonset", Value: orNA(r.Moonset, "")},
		{Key: "moonPhase", Label: "Moon Phase", Value: orNA(r.MoonPhase, "")},
		{Key: "moonAltitude", Label: "Moon Altitude", Value: orNA(r.MoonAltitude, "°")},
		{Key: "moonAzimuth", Label: "Moon Azimuth", Value: orNA(r.MoonAzimuth, "°")},
	}
}

func orNA(v, unit string) string {
	if v == "" {
		return NotAvailable
	}
	return v + unit
}

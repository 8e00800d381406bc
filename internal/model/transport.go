package model

// TransportMode is one entry of the static shipping catalog. The simulator
// applies its flat cost as a surcharge whenever an order is placed.
type TransportMode struct {
	Name     string  `json:"name"`
	FlatCost float64 `json:"cost"`
	LeadTime int     `json:"time"`
}

// TransportModes returns the static shipping catalog
func TransportModes() []TransportMode {
	return []TransportMode{
		{Name: "truck", FlatCost: 100.0, LeadTime: 1},
		{Name: "ship", FlatCost: 50.0, LeadTime: 3},
		{Name: "rail", FlatCost: 75.0, LeadTime: 2},
		{Name: "air", FlatCost: 200.0, LeadTime: 0},
	}
}

// TransportCost resolves a mode name to its flat cost. Unknown names
// resolve to a zero surcharge.
func TransportCost(name string) float64 {
	for _, mode := range TransportModes() {
		if mode.Name == name {
			return mode.FlatCost
		}
	}
	return 0
}

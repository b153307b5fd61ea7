package cosmic

// JSON payload shapes for the cache rows. These are the wire format of the
// jsonb columns; renaming a field is a data migration.

// PositionEntry is one body inside the global planetary_positions column.
type PositionEntry struct {
	Body       string  `json:"body"`
	Sign       string  `json:"sign"`
	Degree     float64 `json:"degree"`
	Longitude  float64 `json:"longitude"`
	Retrograde bool    `json:"retrograde"`
}

// GlobalEvent is one entry of the global significant_events column.
type GlobalEvent struct {
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	Bodies      []string `json:"bodies,omitempty"`
	Orb         float64  `json:"orb,omitempty"`
}

// PersonalTransit is one entry of the per-user personal_transits column.
type PersonalTransit struct {
	Transiting string  `json:"transiting"`
	Natal      string  `json:"natal"`
	Aspect     string  `json:"aspect"`
	Orb        float64 `json:"orb"`
}

// PersonalAspect summarizes the tightest transit hitting one natal body.
type PersonalAspect struct {
	Natal      string  `json:"natal"`
	Transiting string  `json:"transiting"`
	Aspect     string  `json:"aspect"`
	Orb        float64 `json:"orb"`
}

// Highlight is one entry of the per-user highlights column.
type Highlight struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

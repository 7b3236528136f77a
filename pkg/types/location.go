package types

// Location is a point with an optional human-readable address. Stored as
// jsonb on rider and store rows.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// StringList is a jsonb-serialized list of opaque references, e.g. delivery
// proof media keys.
type StringList []string

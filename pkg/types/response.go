package types

// Status carries the machine-readable outcome mirrored from the HTTP status.
type Status struct {
	Code    int    `json:"Code"`
	Message string `json:"Message"`
}

// Envelope is the uniform response body used by every endpoint, success and
// failure alike. On failures Data is null unless the error carries caller
// actionable details (for example the missing ids of a rejected batch).
type Envelope struct {
	Data   any    `json:"data"`
	Status Status `json:"Status"`
}

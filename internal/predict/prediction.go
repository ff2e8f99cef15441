package predict

// Entry is a single ranked label with its probability in [0,1].
type Entry struct {
	Label string  `json:"label"`
	Prob  float64 `json:"prob"`
}

// Prediction is the top-K response of the backend. Top is in rank order.
type Prediction struct {
	Top      []Entry `json:"top"`
	AllCount int     `json:"all_count,omitempty"`
}

package generator

import "encoding/json"

type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseSearching   Phase = "searching"
	PhaseCompleted   Phase = "completed"
	PhaseFailed      Phase = "failed"
	PhaseUnavailable Phase = "unavailable"
)

// Status is advisory progress for one generation; it never drives control flow.
type Status struct {
	Model string
	Phase Phase
}

func (s Status) MarshalJSON() ([]byte, error) {
	var model *string
	if s.Model != "" {
		model = &s.Model
	}
	return json.Marshal(struct {
		Model  *string `json:"model"`
		Status Phase   `json:"status"`
	}{model, s.Phase})
}

type Observer interface {
	Observe(Status)
}

type ObserverFunc func(Status)

func (f ObserverFunc) Observe(s Status) { f(s) }

func notify(obs Observer, s Status) {
	if obs != nil {
		obs.Observe(s)
	}
}

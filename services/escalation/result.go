package escalation

// Pipeline step names recorded in FanOutResult.Steps.
const (
	StepAdminAlert     = "admin_alert"
	StepEscalationFlag = "escalation_flag"
	StepResolveAdmins  = "resolve_admins"
	StepResolveSubject = "resolve_subject"
)

type StepResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// FanOutResult reports how an escalation went. Notification counts cover stored
// inbox records; push counts cover the best-effort FCM sends that follow them.
type FanOutResult struct {
	Skipped       bool         `json:"skipped"`
	Steps         []StepResult `json:"steps"`
	Attempted     int          `json:"attempted"`
	Delivered     int          `json:"delivered"`
	Failed        int          `json:"failed"`
	PushAttempted int          `json:"pushAttempted"`
	PushDelivered int          `json:"pushDelivered"`
	PushFailed    int          `json:"pushFailed"`
}

func (r *FanOutResult) record(name string, err error) {
	step := StepResult{Name: name, OK: err == nil}
	if err != nil {
		step.Error = err.Error()
	}
	r.Steps = append(r.Steps, step)
}

// Step looks up the outcome of a named pipeline step.
func (r *FanOutResult) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

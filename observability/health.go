package observability

import "context"

// HealthChecker is implemented by components that can probe themselves.
// The data protection provider implements it with a protect and
// unprotect round trip.
type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// HealthStatus is a component or service health state.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
)

// statusRank orders statuses from healthiest to worst. Unknown statuses
// rank healthiest and never degrade an aggregate.
var statusRank = map[HealthStatus]int{
	HealthStatusUp:       0,
	HealthStatusDegraded: 1,
	HealthStatusDown:     2,
}

// Health is one component's probe result.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// HealthFromError builds a component health from a probe result: up for
// a nil error, down otherwise with the error as message.
func HealthFromError(name string, err error) Health {
	if err != nil {
		return Health{Name: name, Status: HealthStatusDown, Message: err.Error()}
	}
	return Health{Name: name, Status: HealthStatusUp}
}

// ServiceHealth aggregates component probes into a service-level status.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// NewServiceHealth starts an aggregate at status up.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{
		Service: service,
		Status:  HealthStatusUp,
		Version: version,
	}
}

// AddComponent records a component probe. The aggregate keeps the worst
// status seen so far.
func (sh *ServiceHealth) AddComponent(ch Health) {
	sh.Components = append(sh.Components, ch)
	if statusRank[ch.Status] > statusRank[sh.Status] {
		sh.Status = ch.Status
	}
}

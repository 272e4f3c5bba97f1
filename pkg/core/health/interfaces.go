package health

import (
	"context"
	"time"
)

type ComponentStatus struct {
	Name      string    `json:"name"`
	Ready     bool      `json:"ready"`
	StartedAt time.Time `json:"started_at"`
	ReadyAt   time.Time `json:"ready_at,omitempty"`
}

type ReadinessStatus struct {
	Ready           bool              `json:"ready"`
	Components      []ComponentStatus `json:"components"`
	ReadyAt         time.Time         `json:"ready_at,omitempty"`
	ProbeNotifiedAt time.Time         `json:"probe_notified_at,omitempty"`
}

// ComponentManager registers startup components and tracks their readiness.
type ComponentManager interface {
	// AddComponent registers a component and returns a function that marks
	// it ready. Calling the returned function more than once is a no-op.
	AddComponent(name string) (markReady func())
}

// ReadinessChecker reports the aggregated readiness state.
type ReadinessChecker interface {
	IsReady() bool
	Status() ReadinessStatus
	// NotifyKubernetesProbe records that a readiness probe has observed the
	// ready state. Called by the health HTTP handler.
	NotifyKubernetesProbe()
}

// ReadinessWaiter blocks callers until readiness milestones are reached.
type ReadinessWaiter interface {
	// WaitReady blocks until every registered component is ready.
	WaitReady(ctx context.Context) error
	// WaitTrafficReady blocks until the platform has acknowledged readiness.
	// Inside Kubernetes that means a probe saw 200; elsewhere it degrades to
	// WaitReady so local runs do not hang.
	WaitTrafficReady(ctx context.Context) error
}

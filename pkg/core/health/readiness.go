package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type component struct {
	name      string
	ready     bool
	startedAt time.Time
	readyAt   time.Time
}

type readiness struct {
	mu           sync.RWMutex
	components   map[string]*component
	readyChan    chan struct{}
	readyOnce    sync.Once
	probeChan    chan struct{}
	probeOnce    sync.Once
	probeSeenAt  time.Time
	inKubernetes bool
	log          *zap.Logger
}

func newReadiness(log *zap.Logger, inKubernetes bool) *readiness {
	return &readiness{
		components:   make(map[string]*component),
		readyChan:    make(chan struct{}),
		probeChan:    make(chan struct{}),
		inKubernetes: inKubernetes,
		log:          log,
	}
}

func (r *readiness) AddComponent(name string) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.components[name]; !exists {
		r.components[name] = &component{
			name:      name,
			startedAt: time.Now(),
		}
	}

	return func() { r.markReady(name) }
}

func (r *readiness) markReady(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	comp, exists := r.components[name]
	if !exists || comp.ready {
		return
	}
	comp.ready = true
	comp.readyAt = time.Now()

	for _, c := range r.components {
		if !c.ready {
			return
		}
	}

	r.readyOnce.Do(func() {
		close(r.readyChan)
		r.log.Info("all components are ready",
			zap.Int("component_count", len(r.components)),
		)
	})
}

func (r *readiness) IsReady() bool {
	select {
	case <-r.readyChan:
		return true
	default:
		return false
	}
}

func (r *readiness) Status() ReadinessStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := ReadinessStatus{
		Ready:           r.IsReady(),
		Components:      make([]ComponentStatus, 0, len(r.components)),
		ProbeNotifiedAt: r.probeSeenAt,
	}

	for _, comp := range r.components {
		status.Components = append(status.Components, ComponentStatus{
			Name:      comp.name,
			Ready:     comp.ready,
			StartedAt: comp.startedAt,
			ReadyAt:   comp.readyAt,
		})
		if comp.readyAt.After(status.ReadyAt) {
			status.ReadyAt = comp.readyAt
		}
	}
	if !status.Ready {
		status.ReadyAt = time.Time{}
	}

	return status
}

// NotifyKubernetesProbe records the first readiness probe that observed the
// ready state. Workers gated on traffic readiness start after this.
func (r *readiness) NotifyKubernetesProbe() {
	if !r.IsReady() {
		return
	}

	r.probeOnce.Do(func() {
		r.mu.Lock()
		r.probeSeenAt = time.Now()
		r.mu.Unlock()
		close(r.probeChan)
		r.log.Info("kubernetes readiness probe confirmed")
	})
}

func (r *readiness) WaitReady(ctx context.Context) error {
	select {
	case <-r.readyChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *readiness) WaitTrafficReady(ctx context.Context) error {
	// Outside Kubernetes no probe will ever arrive
	if !r.inKubernetes {
		return r.WaitReady(ctx)
	}

	select {
	case <-r.probeChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

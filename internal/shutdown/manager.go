package shutdown

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"caselog/internal/logger"
)

// Shutdownable is implemented by components that need teardown on exit.
type Shutdownable interface {
	Shutdown()
}

// Func adapts a plain function to the Shutdownable interface.
type Func func()

func (f Func) Shutdown() { f() }

// stepTimeout bounds each shutdown step so one stuck component cannot
// hang the exit sequence.
const stepTimeout = 10 * time.Second

// Manager runs registered shutdown steps in reverse registration order.
type Manager struct {
	logger logger.Logger

	mu    sync.Mutex
	steps []step
	done  chan struct{}
}

type step struct {
	name      string
	component Shutdownable
}

func NewManager(log logger.Logger) *Manager {
	return &Manager{
		logger: log,
		done:   make(chan struct{}),
	}
}

// Register adds a named component to the shutdown sequence.
func (m *Manager) Register(name string, component Shutdownable) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.steps = append(m.steps, step{name: name, component: component})
}

// Listen triggers the shutdown sequence on SIGINT or SIGTERM. The
// callback runs after the sequence finishes, typically to quit the UI
// event loop.
func (m *Manager) Listen(onShutdown func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		sig := <-sigChan
		m.logger.Info("shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})
		m.Shutdown()
		if onShutdown != nil {
			onShutdown()
		}
	}()
}

// Shutdown runs every registered step once. Later registrations shut
// down first, so a component registered after its dependencies is torn
// down before them.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	select {
	case <-m.done:
		m.mu.Unlock()
		return
	default:
		close(m.done)
	}
	steps := make([]step, len(m.steps))
	copy(steps, m.steps)
	m.mu.Unlock()

	m.logger.Info("shutdown sequence initiated", map[string]interface{}{
		"steps": len(steps),
	})

	for i := len(steps) - 1; i >= 0; i-- {
		m.runStep(steps[i])
	}

	m.logger.Info("shutdown sequence completed", nil)
}

func (m *Manager) runStep(s step) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.component.Shutdown()
	}()

	select {
	case <-done:
		m.logger.Debug("shutdown step completed", map[string]interface{}{
			"step": s.name,
		})
	case <-time.After(stepTimeout):
		m.logger.Warning("shutdown step timed out", map[string]interface{}{
			"step": s.name,
		})
	}
}

// Done is closed once shutdown has started.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

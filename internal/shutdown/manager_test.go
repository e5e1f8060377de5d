package shutdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warning(string, map[string]interface{})      {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

func TestManagerRunsStepsInReverseOrder(t *testing.T) {
	m := NewManager(nopLogger{})

	var order []string
	m.Register("store", Func(func() { order = append(order, "store") }))
	m.Register("controller", Func(func() { order = append(order, "controller") }))

	m.Shutdown()

	assert.Equal(t, []string{"controller", "store"}, order)
}

func TestManagerShutdownRunsOnce(t *testing.T) {
	m := NewManager(nopLogger{})

	count := 0
	m.Register("counter", Func(func() { count++ }))

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, 1, count)

	select {
	case <-m.Done():
	default:
		t.Fatal("done channel should be closed after shutdown")
	}
}

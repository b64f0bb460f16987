package dynamo

// Handler is a periodic event handler invoked once per simulation step.
//
// Handle reports whether the step was eligible for the handler and was
// processed. A handler that is not due must return (false, nil) without
// side effects. Handlers may block the calling step (an ingestion read
// waits for the controller); the host tolerates unbounded per-step
// latency while such a handler is registered.
type Handler interface {
	Name() string
	Handle(t float64) (bool, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc struct {
	Label string
	Fn    func(t float64) (bool, error)
}

func (h HandlerFunc) Name() string                   { return h.Label }
func (h HandlerFunc) Handle(t float64) (bool, error) { return h.Fn(t) }

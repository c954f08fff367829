package observability

import "context"

// MultiObserver delivers each event to several observers in order.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver combines observers. Nil entries and NoOpObservers are
// dropped and nested MultiObservers are flattened into the result.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	m := &MultiObserver{}
	for _, obs := range observers {
		switch o := obs.(type) {
		case nil, NoOpObserver:
		case *MultiObserver:
			if o != nil {
				m.observers = append(m.observers, o.observers...)
			}
		default:
			m.observers = append(m.observers, o)
		}
	}
	return m
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}

package event

import "testing"

func TestDispatchOrderAndConsume(t *testing.T) {
	m := NewManager()
	var calls []string
	m.Subscribe(TypeDocumentChanged, func(e Event) bool {
		calls = append(calls, "first")
		return e.Data.(DocumentChangedData).Words == 0
	})
	m.Subscribe(TypeDocumentChanged, func(Event) bool {
		calls = append(calls, "second")
		return false
	})

	m.Dispatch(TypeDocumentChanged, DocumentChangedData{Words: 2})
	if got, want := len(calls), 2; got != want {
		t.Fatalf("handlers called: got %d, want %d", got, want)
	}

	calls = nil
	m.Dispatch(TypeDocumentChanged, DocumentChangedData{Words: 0})
	if len(calls) != 1 || calls[0] != "first" {
		t.Fatalf("consumed event reached later handlers: %v", calls)
	}
}

func TestUnsubscribe(t *testing.T) {
	m := NewManager()
	count := 0
	stop := m.Subscribe(TypeHistoryChanged, func(Event) bool { count++; return false })
	m.Dispatch(TypeHistoryChanged, HistoryChangedData{CanUndo: true})
	stop()
	m.Dispatch(TypeHistoryChanged, HistoryChangedData{})
	if count != 1 {
		t.Fatalf("count: got %d, want 1", count)
	}
	m.Dispatch(TypeAppQuit, nil) // no handlers, must not panic
}

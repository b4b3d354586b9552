package session

import "testing"

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Began, "Began"},
		{Ended, "Ended"},
		{MediaServicesLost, "MediaServicesLost"},
		{MediaServicesReset, "MediaServicesReset"},
		{Kind(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHub_EmitDelivers(t *testing.T) {
	h := NewHub()
	h.Emit(Began)
	h.Emit(Ended)

	ev := <-h.Events()
	if ev.Kind != Began {
		t.Errorf("first event = %v, want Began", ev.Kind)
	}
	ev = <-h.Events()
	if ev.Kind != Ended {
		t.Errorf("second event = %v, want Ended", ev.Kind)
	}
}

func TestHub_EmitDropsWhenFull(t *testing.T) {
	h := NewHub()
	for range eventBufferSize + 5 {
		h.Emit(Began)
	}

	drained := 0
	for {
		select {
		case <-h.Events():
			drained++
			continue
		default:
		}
		break
	}
	if drained != eventBufferSize {
		t.Errorf("drained %d events, want %d", drained, eventBufferSize)
	}
}

func TestHub_CloseClosesStream(t *testing.T) {
	h := NewHub()
	if err := h.Close(); err != nil {
		t.Fatalf("Close() err = %v", err)
	}

	if _, ok := <-h.Events(); ok {
		t.Error("Events() still open after Close")
	}

	// Emit after close must not panic
	h.Emit(Began)

	// Double close must not panic
	if err := h.Close(); err != nil {
		t.Errorf("second Close() err = %v", err)
	}
}

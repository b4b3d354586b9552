package node

import (
	"testing"

	"github.com/llehouerou/pulse/internal/pcm"
)

func filledBuffer(frames int) *pcm.Buffer {
	b := pcm.NewBuffer(frames)
	for i := range b.Samples() {
		b.Samples()[i] = [2]float64{0.5, -0.5}
	}
	b.SetLen(frames)
	return b
}

func TestRenderReader_EmptyQueueReturnsZero(t *testing.T) {
	r := newRenderReader()
	p := make([]byte, 64)
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("Read() err = %v", err)
	}
	if n != 0 {
		t.Errorf("Read() = %d, want 0", n)
	}
}

func TestRenderReader_CompletesBufferWhenDrained(t *testing.T) {
	r := newRenderReader()
	completed := 0
	r.enqueue(filledBuffer(4), func() { completed++ })

	// 4 frames = 16 bytes; read exactly that much
	p := make([]byte, 4*pcm.BytesPerFrame)
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("Read() err = %v", err)
	}
	if n != len(p) {
		t.Errorf("Read() = %d, want %d", n, len(p))
	}
	if completed != 1 {
		t.Errorf("completed = %d, want 1", completed)
	}
	if r.renderTime() != 4 {
		t.Errorf("renderTime() = %d, want 4", r.renderTime())
	}
}

func TestRenderReader_PartialReadsDelayCompletion(t *testing.T) {
	r := newRenderReader()
	completed := 0
	r.enqueue(filledBuffer(4), func() { completed++ })

	p := make([]byte, 8) // half the buffer
	if _, err := r.Read(p); err != nil {
		t.Fatal(err)
	}
	if completed != 0 {
		t.Errorf("completed after partial read = %d, want 0", completed)
	}

	if _, err := r.Read(p); err != nil {
		t.Fatal(err)
	}
	if completed != 1 {
		t.Errorf("completed after full drain = %d, want 1", completed)
	}
}

func TestRenderReader_FIFOCompletionOrder(t *testing.T) {
	r := newRenderReader()
	var order []int
	r.enqueue(filledBuffer(2), func() { order = append(order, 1) })
	r.enqueue(filledBuffer(2), func() { order = append(order, 2) })
	r.enqueue(filledBuffer(2), func() { order = append(order, 3) })

	p := make([]byte, 6*pcm.BytesPerFrame)
	if _, err := r.Read(p); err != nil {
		t.Fatal(err)
	}

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("completion order = %v, want [1 2 3]", order)
	}
}

func TestRenderReader_CallbackMayResubmit(t *testing.T) {
	r := newRenderReader()
	resubmitted := false
	r.enqueue(filledBuffer(2), func() {
		if !resubmitted {
			resubmitted = true
			r.enqueue(filledBuffer(2), nil)
		}
	})

	p := make([]byte, 2*pcm.BytesPerFrame)
	if _, err := r.Read(p); err != nil {
		t.Fatal(err)
	}
	if !resubmitted {
		t.Fatal("callback did not run")
	}

	n, err := r.Read(p)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2*pcm.BytesPerFrame {
		t.Errorf("resubmitted buffer read = %d bytes, want %d", n, 2*pcm.BytesPerFrame)
	}
}

func TestRenderReader_FlushCompletesEverything(t *testing.T) {
	r := newRenderReader()
	completed := 0
	for range 3 {
		r.enqueue(filledBuffer(4), func() { completed++ })
	}

	// Partially drain the head so flush has both a head and a queue
	p := make([]byte, 8)
	if _, err := r.Read(p); err != nil {
		t.Fatal(err)
	}

	r.flush()
	if completed != 3 {
		t.Errorf("completed = %d, want 3", completed)
	}

	n, _ := r.Read(make([]byte, 64))
	if n != 0 {
		t.Errorf("Read() after flush = %d, want 0", n)
	}
}

func TestFake_CompleteNext(t *testing.T) {
	f := NewFake()
	if err := f.Start(44100); err != nil {
		t.Fatal(err)
	}

	done := 0
	f.Submit(filledBuffer(100), func() { done++ })
	f.Submit(filledBuffer(50), func() { done++ })

	if !f.CompleteNext() {
		t.Fatal("CompleteNext() = false with queued buffers")
	}
	if done != 1 {
		t.Errorf("done = %d, want 1", done)
	}
	if f.RenderTime() != 100 {
		t.Errorf("RenderTime() = %d, want 100", f.RenderTime())
	}

	f.CompleteAll()
	if done != 2 {
		t.Errorf("done = %d, want 2", done)
	}
	if f.CompleteNext() {
		t.Error("CompleteNext() = true on empty queue")
	}
}

func TestFake_Translate(t *testing.T) {
	f := NewFake()
	if err := f.Start(44100); err != nil {
		t.Fatal(err)
	}

	got := f.Translate(Time(44100))
	if got.Seconds() != 1.0 {
		t.Errorf("Translate(44100) = %v, want 1s", got)
	}
}

func TestFake_StartError(t *testing.T) {
	f := NewFake()
	wantErr := ErrRateMismatch
	f.SetStartError(wantErr)
	if err := f.Start(44100); err == nil {
		t.Fatal("Start() succeeded, want error")
	}
	if f.Running() {
		t.Error("Running() = true after failed Start")
	}
}

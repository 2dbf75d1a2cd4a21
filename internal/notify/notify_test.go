package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"skate_app/internal/domain"
)

type fakeTransport struct {
	calls int
	err   error
}

func (f *fakeTransport) Notify(ctx context.Context, n domain.Notification) error {
	f.calls++
	return f.err
}

func TestFanout_AllTransportsCalled(t *testing.T) {
	a := &fakeTransport{}
	b := &fakeTransport{}
	f := Fanout{a, b}

	if err := f.Notify(context.Background(), domain.Notification{UserID: "u"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("calls = %d/%d, want 1/1", a.calls, b.calls)
	}
}

func TestFanout_FailureDoesNotStopOthers(t *testing.T) {
	a := &fakeTransport{err: errors.New("push down")}
	b := &fakeTransport{}
	f := Fanout{a, b}

	err := f.Notify(context.Background(), domain.Notification{UserID: "u"})
	if err == nil {
		t.Fatal("expected the transport error to surface")
	}
	if !strings.Contains(err.Error(), "push down") {
		t.Fatalf("err = %v, want it to carry the transport failure", err)
	}
	if b.calls != 1 {
		t.Fatalf("second transport calls = %d, want 1", b.calls)
	}
}

func TestFanout_Empty(t *testing.T) {
	var f Fanout
	if err := f.Notify(context.Background(), domain.Notification{UserID: "u"}); err != nil {
		t.Fatalf("empty fanout: %v", err)
	}
}

package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{NotFound("x"), KindNotFound},
		{Forbidden("x"), KindForbidden},
		{InvalidState("x"), KindInvalidState},
		{InvalidParticipants("x"), KindInvalidParticipants},
		{errors.New("plain"), KindInternal},
		{nil, KindInternal},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Errorf("KindOf(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("load game: %w", NotFound("Game not found"))
	if got := KindOf(err); got != KindNotFound {
		t.Fatalf("KindOf(wrapped) = %v, want not found", got)
	}
	if err.Error() != "load game: Game not found" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestErrorMessage(t *testing.T) {
	err := Forbidden("Only offense can resolve a round")
	if err.Error() != "Only offense can resolve a round" {
		t.Fatalf("message = %q", err.Error())
	}
}

package domain

import "testing"

func TestLettersWord(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, ""},
		{-1, ""},
		{1, "S"},
		{2, "S.K"},
		{3, "S.K.A"},
		{4, "S.K.A.T"},
		{5, "S.K.A.T.E"},
		{9, "S.K.A.T.E"},
	}
	for _, tc := range cases {
		if got := LettersWord(tc.n); got != tc.want {
			t.Errorf("LettersWord(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestGame_AddLetter(t *testing.T) {
	g := &Game{Player1ID: "A", Player2ID: "B"}

	if n := g.AddLetter("B"); n != 1 {
		t.Fatalf("first letter = %d, want 1", n)
	}
	if n := g.AddLetter("B"); n != 2 {
		t.Fatalf("second letter = %d, want 2", n)
	}
	if n := g.AddLetter("A"); n != 1 {
		t.Fatalf("letter for A = %d, want 1", n)
	}
	if g.Player1Letters != 1 || g.Player2Letters != 2 {
		t.Fatalf("letters = %d/%d, want 1/2", g.Player1Letters, g.Player2Letters)
	}
	if g.Letters("B") != 2 {
		t.Fatalf("Letters(B) = %d, want 2", g.Letters("B"))
	}
}

func TestGame_OtherPlayer(t *testing.T) {
	g := &Game{Player1ID: "A", Player2ID: "B"}
	if got := g.OtherPlayer("A"); got != "B" {
		t.Fatalf("OtherPlayer(A) = %q, want B", got)
	}
	if got := g.OtherPlayer("B"); got != "A" {
		t.Fatalf("OtherPlayer(B) = %q, want A", got)
	}
}

func TestGame_OnTurn(t *testing.T) {
	g := &Game{Player1ID: "A", Player2ID: "B"}
	if g.OnTurn("A") {
		t.Fatal("no one is on turn in a pending game")
	}
	turn := "A"
	g.CurrentTurn = &turn
	if !g.OnTurn("A") || g.OnTurn("B") {
		t.Fatal("only A holds the offense")
	}
}

func TestGameStatus_Terminal(t *testing.T) {
	for status, terminal := range map[GameStatus]bool{
		StatusPending:   false,
		StatusActive:    false,
		StatusCompleted: true,
		StatusDeclined:  true,
		StatusForfeited: true,
	} {
		if status.Terminal() != terminal {
			t.Errorf("Terminal(%s) = %v, want %v", status, status.Terminal(), terminal)
		}
	}
}

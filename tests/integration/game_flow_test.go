//go:build integration

package integration

import (
	"testing"
	"time"
)

func TestSessionStartAndRound(t *testing.T) {
	client := NewTestClient(t)
	defer client.Close()

	matchID, ticket := client.OpenSession(t)
	if matchID == "" || ticket == "" {
		t.Fatalf("open session returned match %q ticket %q", matchID, ticket)
	}
	t.Logf("Opened match %s", matchID)

	client.JoinMatch(t, matchID, ticket, "p1")
	client.WaitForMatchData(t, OpSnapshot, 5*time.Second)

	client.Send(t, matchID, OpStartSession, nil)
	started := client.WaitForMatchData(t, OpSessionStarted, 5*time.Second)
	if got := len(started.GetFields()["rounds"].GetListValue().GetValues()); got != 3 {
		t.Fatalf("Expected 3 rounds, got %d", got)
	}

	client.Send(t, matchID, OpNextRound, nil)
	round := client.WaitForMatchData(t, OpRoundStarted, 5*time.Second)
	if mode := round.GetFields()["mode"].GetStringValue(); mode != "PulseDuel" {
		t.Fatalf("Expected PulseDuel first, got %s", mode)
	}

	client.Send(t, matchID, OpInput, map[string]interface{}{
		"p1": map[string]interface{}{"resonance": true},
	})
	outcome := client.WaitForMatchData(t, OpOutcome, 5*time.Second)
	if player := outcome.GetFields()["player"].GetStringValue(); player != "p1" {
		t.Fatalf("Expected outcome for p1, got %s", player)
	}

	client.Send(t, matchID, OpNextRound, nil)
	errPayload := client.WaitForMatchData(t, OpError, 5*time.Second)
	if code := errPayload.GetFields()["code"].GetNumberValue(); code != 409 {
		t.Fatalf("Expected 409 while a round is running, got %v", code)
	}

	t.Log("Session opened and first round running.")
}

func TestSecondConsoleRejected(t *testing.T) {
	owner := NewTestClient(t)
	defer owner.Close()
	intruder := NewTestClient(t)
	defer intruder.Close()

	matchID, ticket := owner.OpenSession(t)
	owner.JoinMatch(t, matchID, ticket, "")
	owner.WaitForMatchData(t, OpSnapshot, 5*time.Second)

	intruder.JoinMatch(t, matchID, ticket, "")
	deadline := time.After(5 * time.Second)
	for {
		select {
		case env, ok := <-intruder.inbox:
			if !ok {
				t.Fatal("Socket closed before join was rejected")
			}
			if env.GetError() != nil {
				return
			}
			if env.GetMatch() != nil {
				t.Fatal("Second console joined the match")
			}
		case <-deadline:
			t.Fatal("Timeout waiting for join rejection")
		}
	}
}

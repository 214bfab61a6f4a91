package commands

import (
	"errors"
	"testing"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent prio:high", TypeAdd},
		{"done 42", TypeDone},
		{"delete 42", TypeDelete},
		{"show tasks status:pending", TypeShow},
		{"dismiss insight:balance:high-priority", TypeDismiss},
		{"/mute", TypeMute},
		{"unmute", TypeUnmute},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddTokens(t *testing.T) {
	cmd, err := Parse("/add finish tax return due:2026-04-15T17:00:00Z prio:high label:finance label:home")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Title != "finish tax return" {
		t.Fatalf("title = %q", cmd.Add.Title)
	}
	if cmd.Add.Priority != "high" {
		t.Fatalf("priority = %q", cmd.Add.Priority)
	}
	if cmd.Add.Due != "2026-04-15T17:00:00Z" {
		t.Fatalf("due = %q", cmd.Add.Due)
	}
	if len(cmd.Add.Labels) != 2 || cmd.Add.Labels[0] != "finance" || cmd.Add.Labels[1] != "home" {
		t.Fatalf("labels = %v", cmd.Add.Labels)
	}
}

func TestParseAddRequiresTitle(t *testing.T) {
	for _, in := range []string{"add", "add prio:high due:2026-04-15T17:00:00Z"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseShowSubjects(t *testing.T) {
	cmd, err := Parse("show tasks prio:high status:pending report")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Show.Subject != "tasks" || cmd.Show.Priority != "high" || cmd.Show.Status != "pending" || cmd.Show.Query != "report" {
		t.Fatalf("unexpected show args: %+v", cmd.Show)
	}

	_, err = Parse("show nonsense")
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
		t.Fatalf("expected invalid argument for unknown subject, got %v", err)
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "/", "/   "} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
			t.Fatalf("parse %q: expected empty input error, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/launch missiles")
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestParseMuteRejectsArguments(t *testing.T) {
	_, err := Parse("mute everything")
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/done 42")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Done: func(a DoneArgs) (Result, error) {
			called = true
			if a.Target != "42" {
				t.Fatalf("unexpected target: %q", a.Target)
			}
			return Result{Message: "completed"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "completed" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("show stats")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}

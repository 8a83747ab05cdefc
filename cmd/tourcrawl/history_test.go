package main

import (
	"testing"
)

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history" {
			t.Errorf("expected use 'history', got %q", cmd.Use)
		}
	})

	t.Run("has limit flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("limit")
		if flag == nil {
			t.Fatal("expected limit flag")
		}
		if flag.Shorthand != "n" {
			t.Errorf("expected shorthand 'n', got %q", flag.Shorthand)
		}
		if flag.DefValue != "10" {
			t.Errorf("expected default '10', got %q", flag.DefValue)
		}
	})

	t.Run("has run flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("run") == nil {
			t.Fatal("expected run flag")
		}
	})

	t.Run("rejects positional arguments", func(t *testing.T) {
		t.Parallel()

		cmd := NewHistoryCmd()
		cmd.SetArgs([]string{"unexpected"})
		if err := cmd.Execute(); err == nil {
			t.Error("expected error for positional argument")
		}
	})
}

// TestFirstLine tests the single-line record display helper.
func TestFirstLine(t *testing.T) {
	t.Parallel()

	t.Run("single line unchanged", func(t *testing.T) {
		t.Parallel()
		if got := firstLine("just one line"); got != "just one line" {
			t.Errorf("expected unchanged text, got %q", got)
		}
	})

	t.Run("multi-line cut with ellipsis", func(t *testing.T) {
		t.Parallel()
		if got := firstLine("first\nsecond"); got != "first ..." {
			t.Errorf("expected 'first ...', got %q", got)
		}
	})
}

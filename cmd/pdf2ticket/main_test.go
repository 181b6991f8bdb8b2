package main

import (
	"strings"
	"testing"
)

func TestRunCommandRejectsBadInput(t *testing.T) {
	// Each case fails before any keyring access.
	cases := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "set-token missing args",
			args: []string{"set-token"},
			want: "set-token takes",
		},
		{
			name: "set-token extra args",
			args: []string{"set-token", "extraction", "tok", "extra"},
			want: "set-token takes",
		},
		{
			name: "set-token unknown backend",
			args: []string{"set-token", "jira", "tok"},
			want: "unknown backend",
		},
		{
			name: "delete-token missing backend",
			args: []string{"delete-token"},
			want: "delete-token takes",
		},
		{
			name: "delete-token unknown backend",
			args: []string{"delete-token", "mail"},
			want: "unknown backend",
		},
		{
			name: "unknown command",
			args: []string{"frobnicate"},
			want: "unknown command",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := runCommand(tc.args)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %q, want it to mention %q", err.Error(), tc.want)
			}
		})
	}
}

package main

import "testing"

func TestWindowTitle(t *testing.T) {
	cases := []struct {
		token    string
		file     string
		expected string
	}{
		{"abc", "", "Unlock shared file"},
		{"", "share.bar", "Decrypt offline container"},
		{"abc", "share.bar", "Decrypt offline container"},
		{"", "", "Bar secure access"},
	}

	for _, tc := range cases {
		if got := windowTitle(tc.token, tc.file); got != tc.expected {
			t.Errorf("windowTitle(%q, %q) = %q, want %q", tc.token, tc.file, got, tc.expected)
		}
	}
}

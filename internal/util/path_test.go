package util

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	orig := userHomeDir
	defer func() { userHomeDir = orig }()
	userHomeDir = func() (string, error) { return "/home/ada", nil }
	t.Setenv("BPLAUNCH_TEST_DIR", "/srv/data")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", "/home/ada"},
		{"~/exports/settings.json", "/home/ada/exports/settings.json"},
		{"$BPLAUNCH_TEST_DIR/settings.yaml", "/srv/data/settings.yaml"},
		{"/etc/../tmp/x.toml", "/tmp/x.toml"},
		{"~other/file", "~other/file"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpandPath(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	userHomeDir = func() (string, error) { return "", errors.New("no home") }
	if _, err := ExpandPath("~/x"); err == nil {
		t.Error("expected error when the home directory is unknown")
	}
}

func TestAbsPath(t *testing.T) {
	got, err := AbsPath("relative/settings.json")
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %q", got)
	}
	if _, err := AbsPath(""); err == nil {
		t.Error("expected error for empty path")
	}
}

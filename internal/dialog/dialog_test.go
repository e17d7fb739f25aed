package dialog

import (
	"errors"
	"testing"

	"github.com/ncruces/zenity"
)

func stubZenity(t *testing.T, available bool, path string, err error) {
	t.Helper()
	origAvail, origOpen, origSave := isAvailable, selectFile, selectFileSave
	t.Cleanup(func() { isAvailable, selectFile, selectFileSave = origAvail, origOpen, origSave })

	isAvailable = func() bool { return available }
	fn := func(...zenity.Option) (string, error) { return path, err }
	selectFile = fn
	selectFileSave = fn
}

func TestNativePicker(t *testing.T) {
	boom := errors.New("display gone")
	tests := []struct {
		name      string
		available bool
		path      string
		err       error
		want      string
		wantErr   error
	}{
		{"Selected", true, "/tmp/settings.yaml", nil, "/tmp/settings.yaml", nil},
		{"Canceled", true, "", zenity.ErrCanceled, "", ErrCanceled},
		{"Empty selection", true, "", nil, "", ErrCanceled},
		{"Unavailable", false, "", nil, "", ErrUnavailable},
		{"Failure", true, "", boom, "", boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubZenity(t, tt.available, tt.path, tt.err)
			for _, pick := range []func(string, string) (string, error){Native{}.OpenFile, Native{}.SaveFile, Native{}.OpenExecutable} {
				got, err := pick("Title", "/tmp")
				if got != tt.want {
					t.Errorf("got %q, want %q", got, tt.want)
				}
				if tt.wantErr == nil && err != nil {
					t.Errorf("unexpected error %v", err)
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("error %v, want %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestExecutableFilters(t *testing.T) {
	orig := goos
	t.Cleanup(func() { goos = orig })

	goos = "windows"
	if got := executableFilters()[0].Patterns; len(got) != 1 || got[0] != "*.exe" {
		t.Errorf("windows patterns = %v", got)
	}
	goos = "linux"
	if got := executableFilters()[0].Patterns; len(got) != 1 || got[0] != "*" {
		t.Errorf("linux patterns = %v", got)
	}
}

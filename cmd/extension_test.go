package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestIsExtension(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"buy", false},
		{"show-rates", false},
		{"help", false},
		{"", false},
		{"hello", true},
	}
	for _, tt := range tests {
		if got := IsExtension(tt.name); got != tt.want {
			t.Errorf("IsExtension(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRunExtension(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script extension")
	}
	dir := t.TempDir()
	script := `#!/bin/sh
echo "args=$*"
echo "` + EnvDataDir + `=$` + EnvDataDir + `"
echo "` + EnvDefaultBase + `=$` + EnvDefaultBase + `"
exit 3
`
	if err := os.WriteFile(filepath.Join(dir, "vth-hello"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	ta := newTestApp(t)
	found, code := ta.RunExtension("hello", []string{"a", "b"})
	if !found {
		t.Fatal("vth-hello not found")
	}
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	out := ta.stdout.String()
	for _, want := range []string{"args=a b", EnvDataDir + "=/data", EnvDefaultBase + "=USD"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}

	if found, _ := ta.RunExtension("missing", nil); found {
		t.Error("RunExtension(missing) found an extension")
	}
}

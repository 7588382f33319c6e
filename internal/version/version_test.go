package version

import (
	"strings"
	"testing"
)

func TestLine(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version, GitCommit, BuildDate = "1.2.3", "", ""
	if got := Line(false); got != "apidiff 1.2.3" {
		t.Fatalf("Line = %q", got)
	}

	GitCommit, BuildDate = "abc123", "2024-01-15"
	if got := Line(false); got != "apidiff 1.2.3 (abc123, 2024-01-15)" {
		t.Fatalf("Line = %q", got)
	}
}

func TestColoredKeepsText(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "0.4.1-rc1"
	got := Colored(true)
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-rc1") {
		t.Fatalf("Colored = %q", got)
	}
	Version = "dev"
	if Colored(true) != "dev" {
		t.Fatal("non-semver version must pass through")
	}
}

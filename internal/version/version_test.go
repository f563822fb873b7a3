package version

import "testing"

func TestVersionStringNonEmpty(t *testing.T) {
	if s := String(); s == "" {
		t.Fatalf("version string is empty")
	}
}

func TestVersionStringIncludesMetadata(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
	Version, Commit, Date = "1.2.3", "abc1234", "2025-01-01"
	if got, want := String(), "1.2.3+abc1234 (2025-01-01)"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

package main

import (
	"runtime"
	"strings"
	"testing"
)

func TestBuildLine(t *testing.T) {
	restore := func(v, c, d string) {
		version, commit, buildDate = v, c, d
	}
	defer restore(version, commit, buildDate)

	restore("dev", "", "")
	if got := buildLine(); got != "reelscan dev "+runtime.Version() {
		t.Errorf("dev build line = %q", got)
	}

	restore("1.2.0", "abc1234", "2026-08-31")
	got := buildLine()
	for _, want := range []string{"reelscan 1.2.0", "abc1234", "2026-08-31"} {
		if !strings.Contains(got, want) {
			t.Errorf("release build line %q missing %q", got, want)
		}
	}

	restore("1.2.0", "abc1234", "")
	if got := buildLine(); !strings.Contains(got, "(abc1234)") {
		t.Errorf("dateless build line = %q, want bare commit", got)
	}
}

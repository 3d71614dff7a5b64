package imagegen

import (
	"strings"
	"testing"
)

func TestBuildInstruction(t *testing.T) {
	got := BuildInstruction(" Rustic ")

	checks := []string{
		"Rustic interior style",
		"Natural materials and cozy, warm atmosphere",
		"Use wood and stone; Choose warm lighting",
		"camera angle unchanged",
	}
	for _, expect := range checks {
		if !strings.Contains(got, expect) {
			t.Fatalf("instruction missing %q: %s", expect, got)
		}
	}
}

func TestBuildInstructionUnknownStyle(t *testing.T) {
	got := BuildInstruction("traditional")
	if !strings.Contains(got, "Traditional interior style") {
		t.Fatalf("unexpected instruction: %s", got)
	}
	if strings.Contains(got, "Guidelines") {
		t.Fatalf("unknown style must not carry catalog tips: %s", got)
	}
}

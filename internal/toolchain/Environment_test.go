package toolchain

import (
	"strings"
	"testing"
)

func TestEnvironmentStripRemovesInheritedVariable(t *testing.T) {
	t.Setenv("MULTIARCH_TEST_STRIP", "1")

	env := NewEnvironment().Strip("MULTIARCH_TEST_STRIP")
	for _, kv := range env.Environ() {
		if strings.HasPrefix(kv, "MULTIARCH_TEST_STRIP=") {
			t.Fatalf("expected MULTIARCH_TEST_STRIP to be stripped from Environ(), found %q", kv)
		}
	}
}

func TestEnvironmentStripThenSetReinstatesVariable(t *testing.T) {
	t.Setenv("MULTIARCH_TEST_STRIP2", "1")

	env := NewEnvironment().Strip("MULTIARCH_TEST_STRIP2").Set("MULTIARCH_TEST_STRIP2", "2")
	found := false
	for _, kv := range env.Environ() {
		if kv == "MULTIARCH_TEST_STRIP2=2" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a Set after Strip to reinstate the variable in Environ()")
	}
}

func TestEnvironmentEnvironKeepsUnrelatedInheritedVars(t *testing.T) {
	t.Setenv("MULTIARCH_TEST_KEEP", "keepme")

	env := NewEnvironment().Strip("MULTIARCH_TEST_UNSET")
	found := false
	for _, kv := range env.Environ() {
		if kv == "MULTIARCH_TEST_KEEP=keepme" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected unrelated inherited variables to survive Environ()")
	}
}

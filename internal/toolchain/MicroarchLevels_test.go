package toolchain

import (
	"testing"

	"github.com/poppolopoppo/multiarch/internal/variant"
)

func TestCpuFeaturesForModel(t *testing.T) {
	triple := variant.Triple{Arch: "amd64", OS: "linux"}
	fs, err := CpuFeaturesForModel(triple, "x86-64-v3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fs.Contains("avx2") || !fs.Contains("bmi2") {
		t.Fatalf("expected x86-64-v3 to imply avx2 and bmi2, got %v", fs)
	}
	if fs.Contains("avx512f") {
		t.Fatalf("did not expect x86-64-v3 to imply avx512f, got %v", fs)
	}
}

func TestCpuFeaturesForModelUnknown(t *testing.T) {
	triple := variant.Triple{Arch: "amd64", OS: "linux"}
	if _, err := CpuFeaturesForModel(triple, "not-a-real-cpu"); err == nil {
		t.Fatal("expected an error for an unknown CPU model")
	}
}

func TestGoAmd64Level(t *testing.T) {
	cases := []struct {
		fs   variant.FeatureSet
		want string
	}{
		{variant.NewFeatureSet(), "v1"},
		{variant.NewFeatureSet("sse3", "ssse3", "sse4.1", "sse4.2", "popcnt"), "v2"},
		{variant.NewFeatureSet("avx", "avx2", "bmi", "bmi2", "lzcnt", "movbe", "fma", "sse3", "ssse3", "sse4.1", "sse4.2", "popcnt"), "v3"},
	}
	for _, c := range cases {
		if got := GoAmd64Level(c.fs); got != c.want {
			t.Errorf("GoAmd64Level(%v) = %q, want %q", c.fs, got, c.want)
		}
	}
}

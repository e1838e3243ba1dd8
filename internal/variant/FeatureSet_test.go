package variant

import "testing"

func TestFeatureSetCanonicalOrdering(t *testing.T) {
	fs := NewFeatureSet("bmi2", "avx2", "avx2", "avx")
	got := fs.Tokens()
	want := []FeatureToken{"avx", "avx2", "bmi2"}
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestFeatureSetEqual(t *testing.T) {
	a := NewFeatureSet("avx", "avx2")
	b := NewFeatureSet("avx2", "avx")
	if !a.Equal(b) {
		t.Fatalf("expected %v == %v regardless of construction order", a, b)
	}
}

func TestFeatureSetSubset(t *testing.T) {
	host := NewFeatureSet("avx", "avx2", "sse4.2", "popcnt")
	variant := NewFeatureSet("avx", "avx2")
	if !variant.IsSubsetOf(host) {
		t.Fatalf("expected %v to be a subset of %v", variant, host)
	}
	missingBmi2 := NewFeatureSet("avx", "avx2", "bmi2")
	if missingBmi2.IsSubsetOf(host) {
		t.Fatalf("did not expect %v to be a subset of %v", missingBmi2, host)
	}
}

func TestFeatureSetScratchBasename(t *testing.T) {
	if got := NewFeatureSet().ScratchBasename(); got != "bin-default" {
		t.Fatalf("expected bin-default, got %q", got)
	}
	if got := NewFeatureSet("avx2", "avx").ScratchBasename(); got != "bin-avx_avx2" {
		t.Fatalf("expected bin-avx_avx2, got %q", got)
	}
}

func TestManifestDistinctDigests(t *testing.T) {
	m := ArtifactManifest{Bins: []BuiltVariant{
		{Digest: [32]byte{1}},
		{Digest: [32]byte{2}},
	}}
	if !m.HasDistinctDigests() {
		t.Fatal("expected distinct digests")
	}
	m.Bins = append(m.Bins, BuiltVariant{Digest: [32]byte{1}})
	if m.HasDistinctDigests() {
		t.Fatal("expected duplicate digest to be detected")
	}
}

package variant

import (
	"os"

	"github.com/goccy/go-json"
)

// VariantSpec is the Compiler Driver's input: which target and which
// declared CPU features to build for.
type VariantSpec struct {
	Target   Triple
	Features FeatureSet
}

// BuiltVariant is the Compiler Driver's output: a VariantSpec plus the
// scratch-path artifact it produced and the digest used for deduplication.
// OriginalBasename is the name the Go toolchain itself chose for the built
// executable (spec §3's "the original basename the compiler chose"), used to
// name the final fat binary once packing is done.
type BuiltVariant struct {
	Spec             VariantSpec
	Path             string
	Digest           [32]byte
	OriginalBasename string
}

func (b BuiltVariant) FeatureCount() int { return b.Spec.Features.Len() }

// binaryDesc is the wire shape of one manifest entry (spec §6):
//
//	{ "path": "<abs>", "cpufeatures": [ "tok", ... ] }
//
// OriginalBasename does not cross the manifest boundary -- like the
// original's `#[serde(skip)]` original_filename, it is process-local
// information the driver still has in memory when it writes the final
// binary, never needed by the out-of-process Patch/Pack Builder step.
type binaryDesc struct {
	Path        string     `json:"path"`
	CpuFeatures FeatureSet `json:"cpufeatures"`
}

// ArtifactManifest is the ordered sequence of BuiltVariants serialized to
// JSON for cross-process transport between the build pipeline and the
// Patch/Pack Builder (spec §3, §6).
type ArtifactManifest struct {
	Bins []BuiltVariant
}

type manifestWire struct {
	Bins []binaryDesc `json:"bins"`
}

func (m ArtifactManifest) MarshalJSON() ([]byte, error) {
	wire := manifestWire{Bins: make([]binaryDesc, len(m.Bins))}
	for i, b := range m.Bins {
		wire.Bins[i] = binaryDesc{Path: b.Path, CpuFeatures: b.Spec.Features}
	}
	return json.Marshal(wire)
}

func (m *ArtifactManifest) UnmarshalJSON(data []byte) error {
	var wire manifestWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	m.Bins = make([]BuiltVariant, len(wire.Bins))
	for i, b := range wire.Bins {
		m.Bins[i] = BuiltVariant{
			Path: b.Path,
			Spec: VariantSpec{Features: b.CpuFeatures},
		}
	}
	return nil
}

// WriteManifestFile serializes the manifest to path, the JSON file whose
// location is communicated downstream via the MULTIARCH_ARTIFACTS
// environment variable (spec §6).
func WriteManifestFile(path string, m ArtifactManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func ReadManifestFile(path string) (ArtifactManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ArtifactManifest{}, err
	}
	var m ArtifactManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return ArtifactManifest{}, err
	}
	return m, nil
}

// HasDistinctDigests checks invariant 2: no two manifest entries share a
// content digest.
func (m ArtifactManifest) HasDistinctDigests() bool {
	seen := map[[32]byte]struct{}{}
	for _, b := range m.Bins {
		if _, ok := seen[b.Digest]; ok {
			return false
		}
		seen[b.Digest] = struct{}{}
	}
	return true
}

// FallbackCount checks invariant 3: at most one entry with an empty
// FeatureSet.
func (m ArtifactManifest) FallbackCount() (count int) {
	for _, b := range m.Bins {
		if b.Spec.Features.Empty() {
			count++
		}
	}
	return
}

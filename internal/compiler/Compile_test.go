package compiler

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateArtifactPicksLastOutput(t *testing.T) {
	stream := bytes.NewBufferString(
		`{"ImportPath":"example/cmd/foo","Action":"build"}` + "\n" +
			`{"ImportPath":"example/cmd/foo","Action":"build-output","Output":"/tmp/scratch/foo"}` + "\n",
	)
	path, err := locateArtifact(stream)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/scratch/foo", path)
}

func TestLocateArtifactIgnoresMalformedLines(t *testing.T) {
	stream := bytes.NewBufferString("not json\n")
	path, err := locateArtifact(stream)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestPackageFeaturesBuildTags(t *testing.T) {
	pf := PackageFeatures{Tags: []string{"memfd", "cgo"}}
	assert.Equal(t, "memfd,cgo", pf.buildTags())

	assert.Empty(t, PackageFeatures{All: true}.buildTags())
	assert.Empty(t, PackageFeatures{}.buildTags())
}

package pack

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"text/template"

	"github.com/poppolopoppo/multiarch/internal/variant"
)

// fatbinTemplateData is the template's view of a FatBinImage: byte slices
// are pre-encoded to base64 string literals, since text/template has no
// facility for emitting raw Go byte-slice literals compactly.
type fatbinTemplateData struct {
	PackageName        string
	CompressedFallback string
	Patches            []patchTemplateEntry
}

type patchTemplateEntry struct {
	Tokens string // Go slice literal body, e.g. `"avx", "avx2"`
	Patch  string // base64
}

// fatbinTemplate mirrors gen_fatbin_pkg.rs's generated-source shape: a
// single package-level var holding the embedded table, consumed directly by
// internal/dispatch without any runtime parsing step.
const fatbinTemplate = `// Code generated by multiarch pack; DO NOT EDIT.

package {{.PackageName}}

import (
	"encoding/base64"

	"github.com/poppolopoppo/multiarch/internal/dispatch"
)

func mustDecodeBase64(s string) []byte {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

var embeddedFatBin = dispatch.RawFatBin{
	CompressedFallback: mustDecodeBase64("{{.CompressedFallback}}"),
	Patches: []dispatch.RawPatchEntry{
{{- range .Patches}}
		{
			Tokens: []string{ {{.Tokens}} },
			Patch:  mustDecodeBase64("{{.Patch}}"),
		},
{{- end}}
	},
}
`

var fatbinTmpl = template.Must(template.New("fatbin").Parse(fatbinTemplate))

// GenerateSource renders the FatBinImage as a self-contained Go source file
// assigning the launcher's embedded table, the direct analogue of
// gen_fatbin_pkg.rs's FatbinCrate::generate writing out a scratch Cargo
// package's src/lib.rs.
func GenerateSource(w io.Writer, packageName string, image variant.FatBinImage) error {
	data := fatbinTemplateData{
		PackageName:        packageName,
		CompressedFallback: base64.StdEncoding.EncodeToString(image.CompressedFallback),
	}
	for _, p := range image.Patches {
		tokens := ""
		for i, t := range p.Features.Tokens() {
			if i > 0 {
				tokens += ", "
			}
			tokens += fmt.Sprintf("%q", string(t))
		}
		data.Patches = append(data.Patches, patchTemplateEntry{
			Tokens: tokens,
			Patch:  base64.StdEncoding.EncodeToString(p.Patch),
		})
	}
	return fatbinTmpl.Execute(w, data)
}

// GenerateSourceBytes is a convenience wrapper returning the rendered source
// as a byte slice, used by internal/launcher when writing the scratch
// module's generated file to disk.
func GenerateSourceBytes(packageName string, image variant.FatBinImage) ([]byte, error) {
	var buf bytes.Buffer
	if err := GenerateSource(&buf, packageName, image); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

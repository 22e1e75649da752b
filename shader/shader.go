// Package shader turns WGSL shader source assets into SPIR-V modules.
//
// Compilation runs on the CPU via gogpu/naga, so shader assets can be
// compiled and validated by background loads on any goroutine. Creating the
// device-side module object is the only step that touches the GPU and must
// happen on the goroutine that owns the hal device (see the gpures package).
package shader

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/assets"
	"github.com/gogpu/assets/blob"
)

// Module is a compiled shader asset: the WGSL source it came from and the
// SPIR-V words ready for device module creation.
type Module struct {
	// Source is the original WGSL text.
	Source string

	// SPIRV is the compiled code as little-endian 32-bit words.
	SPIRV []uint32
}

// Compile compiles WGSL source to a SPIR-V module. A compilation error is an
// ordinary load failure, suitable for storing in a failed asset record.
func Compile(source string) (*Module, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("shader: compile: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return &Module{Source: source, SPIRV: words}, nil
}

// CreateHALModule creates the device-side shader module. The caller must be
// on the goroutine that owns device.
func (m *Module) CreateHALModule(device hal.Device, label string) (hal.ShaderModule, error) {
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: m.SPIRV,
		},
	})
}

// Load reads and compiles the WGSL file at path, reading through the blob
// package so compressed sources work transparently.
func Load(path string) (*Module, error) {
	data, err := blob.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Compile(string(data))
}

// File adapts a path into a load function for [assets.Generate]:
//
//	h := assets.Generate(store, "blit.wgsl", shader.File("blit.wgsl"))
func File(path string) assets.LoadFunc[*Module] {
	return func() (*Module, error) {
		return Load(path)
	}
}

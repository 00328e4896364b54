// seehuhn.de/go/pagerender - render PDF operator lists to raster surfaces
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package softmask

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gogpu/naga"

	"seehuhn.de/go/pagerender/surface"
)

//go:embed shaders/softmask.wgsl
var composeShaderWGSL string

// workgroupSize must match @workgroup_size in softmask.wgsl.
const workgroupSize = 64

// Device runs compute shaders.  Implementations wrap a GPU adapter.
type Device interface {
	// Name identifies the device in log messages.
	Name() string

	// Dispatch runs the entry point of the SPIR-V module code with the
	// given number of workgroups.  buffers are bound as storage buffers
	// at group 0, binding i.  Buffers declared read_write in the shader
	// are copied back into the slices when Dispatch returns nil.
	Dispatch(code []uint32, entry string, buffers [][]byte, workgroups int) error
}

// GPUBackend composes layers with a compute shader.
type GPUBackend struct {
	dev Device

	once sync.Once
	code []uint32
	err  error
}

// NewGPUBackend returns a backend which runs on dev.
func NewGPUBackend(dev Device) *GPUBackend {
	return &GPUBackend{dev: dev}
}

// Name implements [Backend].
func (b *GPUBackend) Name() string {
	if b.dev == nil {
		return "gpu"
	}
	return "gpu:" + b.dev.Name()
}

// init compiles the shader.  It is safe to call init more than once.
func (b *GPUBackend) init() error {
	b.once.Do(func() {
		spirvBytes, err := naga.Compile(composeShaderWGSL)
		if err != nil {
			b.err = fmt.Errorf("softmask: failed to compile shader: %w", err)
			return
		}

		// SPIR-V is a sequence of little-endian 32-bit words.
		b.code = make([]uint32, len(spirvBytes)/4)
		for i := range b.code {
			b.code[i] = binary.LittleEndian.Uint32(spirvBytes[4*i:])
		}
	})
	return b.err
}

// Compose implements [Backend].  Transfer maps are not supported on the
// GPU; for those, ErrFallbackToCPU is returned.
func (b *GPUBackend) Compose(layer *surface.Surface, m *SoftMask) error {
	if b.dev == nil {
		return ErrNoDevice
	}
	if m.TransferMap != nil {
		return ErrFallbackToCPU
	}
	if err := b.init(); err != nil {
		return err
	}

	w, h := layer.Width(), layer.Height()
	n := w * h

	params := make([]byte, 32)
	putParams(params, w, h, m)

	pix := make([]byte, 4*n)
	maskPix := make([]byte, 4*n)
	for y := range h {
		copy(pix[4*y*w:4*(y+1)*w], layer.Pix[y*layer.Stride:])
		for x := range w {
			r, g, bb, a := m.Pixel(x, y)
			i := 4 * (y*w + x)
			maskPix[i], maskPix[i+1], maskPix[i+2], maskPix[i+3] = r, g, bb, a
		}
	}

	groups := (n + workgroupSize - 1) / workgroupSize
	err := b.dev.Dispatch(b.code, "main", [][]byte{params, pix, maskPix}, groups)
	if err != nil {
		return fmt.Errorf("softmask: dispatch on %s: %w", b.dev.Name(), err)
	}

	for y := range h {
		copy(layer.Pix[y*layer.Stride:y*layer.Stride+4*w], pix[4*y*w:])
	}
	return nil
}

// putParams fills the Params struct of softmask.wgsl.
func putParams(buf []byte, w, h int, m *SoftMask) {
	le := binary.LittleEndian
	le.PutUint32(buf[0:], uint32(w))
	le.PutUint32(buf[4:], uint32(h))
	le.PutUint32(buf[8:], uint32(m.Subtype))
	if m.Backdrop != nil {
		le.PutUint32(buf[12:], 1)
		le.PutUint32(buf[16:], uint32(m.Backdrop[0]))
		le.PutUint32(buf[20:], uint32(m.Backdrop[1]))
		le.PutUint32(buf[24:], uint32(m.Backdrop[2]))
	}
}

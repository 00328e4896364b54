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
	"errors"

	"seehuhn.de/go/pagerender/internal/logger"
	"seehuhn.de/go/pagerender/surface"
)

// Fallback tries Primary first and uses Secondary if that fails.
// Primary must leave the layer unchanged when it returns an error.
type Fallback struct {
	Primary   Backend
	Secondary Backend
}

// Name implements [Backend].
func (f *Fallback) Name() string {
	return f.Primary.Name() + "+" + f.Secondary.Name()
}

// Compose implements [Backend].
func (f *Fallback) Compose(layer *surface.Surface, m *SoftMask) error {
	err := f.Primary.Compose(layer, m)
	if err == nil {
		return nil
	}
	log := logger.Get()
	if errors.Is(err, ErrFallbackToCPU) {
		log.Debug("soft mask not supported by backend",
			"backend", f.Primary.Name(), "fallback", f.Secondary.Name())
	} else {
		log.Warn("soft mask composition failed",
			"backend", f.Primary.Name(), "fallback", f.Secondary.Name(), "error", err)
	}
	return f.Secondary.Compose(layer, m)
}

// Probe selects the backend to use for dev.  Without a device, or if the
// shader cannot be compiled, the CPU backend is returned.
func Probe(dev Device) Backend {
	log := logger.Get()
	if dev == nil {
		log.Info("soft mask backend selected", "backend", "cpu")
		return CPUBackend{}
	}
	g := NewGPUBackend(dev)
	if err := g.init(); err != nil {
		log.Warn("GPU soft mask backend unavailable", "device", dev.Name(), "error", err)
		return CPUBackend{}
	}
	b := &Fallback{Primary: g, Secondary: CPUBackend{}}
	log.Info("soft mask backend selected", "backend", b.Name())
	return b
}

// Package form holds the cloth settings edited in the lab panel. Values use
// the widths imgui widgets write into, and nothing here touches GL.
package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/midgard-cloth/internal/config"
)

// Slider bounds for the lab panel.
const (
	MinSize = 2
	MaxSize = 200
)

// Cloth is the pending state of the parameter panel. Edits stay here until
// Build succeeds.
type Cloth struct {
	Size       int32
	Resolution float32
	Height     float32
	Mass       float32
	Stiffness  float32
	Gravity    float32
	Drag       float32
	Timestep   float32
	Held       string // comma-separated mass indices

	UseNormals       bool
	NormalizeNormals bool
}

// FromConfig fills a form from the cloth section of a loaded config.
func FromConfig(c config.ClothConfig) Cloth {
	return Cloth{
		Size:             int32(c.Size),
		Resolution:       c.Resolution,
		Height:           c.Height,
		Mass:             c.Mass,
		Stiffness:        c.Stiffness,
		Gravity:          c.Gravity,
		Drag:             c.Drag,
		Timestep:         c.Timestep,
		Held:             FormatHeld(c.Held),
		UseNormals:       c.Attribute != "color" && c.Attribute != "colour",
		NormalizeNormals: c.NormalizeNormals,
	}
}

// Build converts the form into a validated cloth config. The error text is
// shown as is in the panel.
func (f *Cloth) Build() (config.ClothConfig, error) {
	held, err := config.ParseHeld(f.Held)
	if err != nil {
		return config.ClothConfig{}, fmt.Errorf("held: %w", err)
	}

	attr := "normal"
	if !f.UseNormals {
		attr = "color"
	}
	c := config.ClothConfig{
		Size:             int(f.Size),
		Resolution:       f.Resolution,
		Height:           f.Height,
		Mass:             f.Mass,
		Stiffness:        f.Stiffness,
		Gravity:          f.Gravity,
		Drag:             f.Drag,
		Timestep:         f.Timestep,
		Held:             held,
		Attribute:        attr,
		NormalizeNormals: f.NormalizeNormals,
	}
	if err := c.Validate(); err != nil {
		return config.ClothConfig{}, err
	}
	return c, nil
}

// CornersHeld replaces the held list with the two corners of the first row,
// which always fit the current size.
func (f *Cloth) CornersHeld() {
	n := max(int(f.Size), MinSize)
	f.Held = FormatHeld([]int{0, n - 1})
}

// FormatHeld joins indices the way ParseHeld reads them.
func FormatHeld(held []int) string {
	parts := make([]string, len(held))
	for i, h := range held {
		parts[i] = strconv.Itoa(h)
	}
	return strings.Join(parts, ",")
}

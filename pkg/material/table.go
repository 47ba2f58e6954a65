package material

import "github.com/df07/go-progressive-integrator/pkg/core"

// DefaultDiffuse is used for material ids the table does not know about
var DefaultDiffuse Material = NewLambertian(core.NewVec3(0.8, 0.8, 0.8))

// Table maps the material ids reported by scene hits to materials
type Table []Material

// Lookup returns the material for id, falling back to DefaultDiffuse
func (t Table) Lookup(id int) Material {
	if id < 0 || id >= len(t) || t[id] == nil {
		return DefaultDiffuse
	}
	return t[id]
}

// Add appends a material and returns its id
func (t *Table) Add(m Material) int {
	*t = append(*t, m)
	return len(*t) - 1
}

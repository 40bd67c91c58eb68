package rendering

import (
	"github.com/fosdem/trimix/lib/gpu"
	"github.com/fosdem/trimix/lib/shaders"
)

// Unit pairs a program with the resources it draws.
type Unit struct {
	Name      string
	Program   *shaders.LinkedProgram
	Resources *ResourceSet
}

func (u *Unit) Draw(d gpu.Driver) {
	d.UseProgram(u.Program.Handle)
	u.Resources.Bind(d)
	u.Resources.Draw(d)
}

// Release deletes the program and the resource set of the unit.
func (u *Unit) Release(d gpu.Driver) {
	if u.Program != nil {
		u.Program.Delete(d)
	}
	if u.Resources != nil {
		u.Resources.Delete(d)
	}
}

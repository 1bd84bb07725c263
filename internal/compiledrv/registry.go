package compiledrv

import "judgecore/internal/submission"

// Registry maps each supported comp_type to its Driver.
type Registry map[submission.CompType]Driver

// DefaultRegistry builds the registry covering every comp_type spec.md names.
func DefaultRegistry() Registry {
	return Registry{
		submission.CompGCC:      newGCC(),
		submission.CompGPP:      newGPP(),
		submission.CompClang:    newClang(),
		submission.CompClangPP:  newClangPP(),
		submission.CompMakefile: newMakefile(),
		submission.CompPython3:  newPython3(),
		submission.CompRustc:    newRustc(),
		submission.CompJava:     newJava(),
	}
}

// Lookup returns the driver for the given comp_type and whether it exists.
func (r Registry) Lookup(c submission.CompType) (Driver, bool) {
	d, ok := r[c]
	return d, ok
}

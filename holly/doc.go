// Package holly provides a hardware abstraction layer for the Holly ASIC of
// the Naomi arcade board, which contains the PowerVR2 (CLX2) tile based
// renderer and the system bus interrupt controller.
//
// Hardware access goes through the [Registers] and [Memory] interfaces, so
// the higher level packages run unmodified on the real board (build tag
// naomi) or on the simulation in holly/sim.
package holly

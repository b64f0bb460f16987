// Package bridge exchanges line-oriented numeric data between a running
// arm simulation and an external controller process.
//
// Three handlers are driven by the host once per simulation step:
//
//   - ExcitationIngestor reads one control line and routes its four
//     channels onto muscles by anatomical group.
//   - CoordinateEmitter writes the selected joint coordinates.
//   - MuscleEmitter writes one fiber length per muscle and records the
//     selected per-muscle variables to its .pnt file.
//
// Each handler owns a schedule.Gate and commits the step time before
// performing any I/O.
package bridge

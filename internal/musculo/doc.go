// Package musculo describes the musculoskeletal entities a host
// simulation exposes to the bridge: joint coordinates of articulated
// bodies and muscles of force subsystems.
//
// The host owns every entity. Consumers resolve them by name once, at
// configuration time, through [ResolveArticulatedBody] and
// [ResolveMuscleSubsystem]; both perform the capability check that turns a
// generic handle into a typed one or into a configuration error.
package musculo

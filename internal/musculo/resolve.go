package musculo

import "fmt"

func ResolveArticulatedBody(sys System, name string) (ArticulatedBody, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: body", ErrEmptyName)
	}
	b, ok := sys.Body(name)
	if !ok {
		return nil, fmt.Errorf("%w: body %q", ErrNotFound, name)
	}
	ab, ok := b.(ArticulatedBody)
	if !ok {
		return nil, fmt.Errorf("%w: body %q is not a reduced coordinate articulated body", ErrWrongKind, name)
	}
	return ab, nil
}

func ResolveMuscleSubsystem(sys System, name string) (MuscleSubsystem, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: force subsystem", ErrEmptyName)
	}
	fs, ok := sys.ForceSubsystem(name)
	if !ok {
		return nil, fmt.Errorf("%w: force subsystem %q", ErrNotFound, name)
	}
	ms, ok := fs.(MuscleSubsystem)
	if !ok {
		return nil, fmt.Errorf("%w: force subsystem %q must be a muscle force subsystem", ErrWrongKind, name)
	}
	return ms, nil
}

// SelectMuscles returns the selected muscles. The returned slice is a copy
// and is never reordered by the subsystem afterwards.
func SelectMuscles(sub MuscleSubsystem, sel Selection) ([]Muscle, error) {
	if sel.All {
		all := sub.Muscles()
		out := make([]Muscle, len(all))
		copy(out, all)
		return out, nil
	}
	out := make([]Muscle, 0, len(sel.Names))
	for _, name := range sel.Names {
		m, ok := sub.Muscle(name)
		if !ok {
			return nil, fmt.Errorf("%w: muscle %q in %q", ErrNotFound, name, sub.Name())
		}
		out = append(out, m)
	}
	return out, nil
}

// SelectCoordinates returns the selected coordinates in selection order.
func SelectCoordinates(body ArticulatedBody, sel Selection) ([]Coordinate, error) {
	coords := body.Coordinates()
	if sel.All {
		out := make([]Coordinate, len(coords))
		copy(out, coords)
		return out, nil
	}
	out := make([]Coordinate, 0, len(sel.Names))
	for _, name := range sel.Names {
		c, ok := findCoordinate(coords, name)
		if !ok {
			return nil, fmt.Errorf("%w: coordinate %q in body %q", ErrNotFound, name, body.Name())
		}
		out = append(out, c)
	}
	return out, nil
}

func findCoordinate(coords []Coordinate, name string) (Coordinate, bool) {
	for _, c := range coords {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

package arm

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/armbridge/internal/integrators"
	"github.com/san-kum/armbridge/internal/musculo"
)

func newTestArm(t *testing.T) *Arm {
	t.Helper()
	a, err := New(DefaultParams())
	if err != nil {
		t.Fatalf("new arm: %v", err)
	}
	return a
}

func TestArmDims(t *testing.T) {
	a := newTestArm(t)
	if a.StateDim() != 22 {
		t.Errorf("expected 22 states, got %d", a.StateDim())
	}
	if a.ControlDim() != 18 {
		t.Errorf("expected 18 controls, got %d", a.ControlDim())
	}
}

func TestArmRestAtReference(t *testing.T) {
	a := newTestArm(t)
	p := DefaultParams()
	x := a.InitialState(p.ShoulderRef, p.ElbowRef)

	dx := a.Derive(x, nil, 0)
	if math.Abs(dx[2]) > 1e-9 || math.Abs(dx[3]) > 1e-9 {
		t.Errorf("relaxed arm at reference posture should not accelerate, got %v %v", dx[2], dx[3])
	}
}

func TestArmElbowFlexion(t *testing.T) {
	a := newTestArm(t)
	p := DefaultParams()
	x := a.InitialState(p.ShoulderRef, p.ElbowRef)
	for i, mp := range p.Muscles {
		if mp.Name == "BRA" {
			x[4+i] = 1.0
		}
	}

	dx := a.Derive(x, nil, 0)
	if dx[3] <= 0 {
		t.Errorf("activated brachialis should flex the elbow, got qdd=%v", dx[3])
	}
}

func TestArmActivationDynamics(t *testing.T) {
	a := newTestArm(t)
	m, _ := a.MuscleByName("TRIlong")
	m.SetExcitation(1.0)

	x := a.InitialState(0.5, 1.2)
	integ := integrators.NewRK4()
	for i := 0; i < 100; i++ {
		x = integ.Step(a, x, a.Control(), float64(i)*0.001, 0.001)
	}
	a.Sync(x, 0.1)

	if m.Activation() < 0.9 {
		t.Errorf("activation should approach excitation, got %v", m.Activation())
	}
	if m.Force() <= 0 {
		t.Error("activated muscle should produce force")
	}
}

func TestArmSyncCoordinates(t *testing.T) {
	a := newTestArm(t)
	x := a.InitialState(0.3, 0.9)
	x[2] = 0.5
	a.Sync(x, 0)

	body, err := musculo.ResolveArticulatedBody(a, DefaultBodyName)
	if err != nil {
		t.Fatalf("resolve body: %v", err)
	}
	coords := body.Coordinates()
	if len(coords) != 2 {
		t.Fatalf("expected 2 coordinates, got %d", len(coords))
	}
	if coords[0].Name() != ShoulderCoordinate || coords[0].Q() != 0.3 || coords[0].Qd() != 0.5 {
		t.Errorf("unexpected shoulder coordinate %s q=%v qd=%v", coords[0].Name(), coords[0].Q(), coords[0].Qd())
	}
	if coords[1].Q() != 0.9 {
		t.Errorf("unexpected elbow angle %v", coords[1].Q())
	}
}

func TestArmFiberLengthFollowsJoint(t *testing.T) {
	a := newTestArm(t)
	a.Sync(a.InitialState(0.5, 1.2), 0)
	bic, _ := a.MuscleByName("BIClong")
	rest := bic.FiberLength()

	a.Sync(a.InitialState(0.5, 1.8), 0)
	if bic.FiberLength() >= rest {
		t.Errorf("elbow flexion should shorten biceps: %v -> %v", rest, bic.FiberLength())
	}
}

func TestArmWrongKinds(t *testing.T) {
	a := newTestArm(t)
	if _, err := musculo.ResolveArticulatedBody(a, DefaultGroundName); !errors.Is(err, musculo.ErrWrongKind) {
		t.Errorf("ground is not articulated, got %v", err)
	}
	if _, err := musculo.ResolveMuscleSubsystem(a, DefaultDampingSys); !errors.Is(err, musculo.ErrWrongKind) {
		t.Errorf("damping is not a muscle subsystem, got %v", err)
	}
}

func TestZeroMaxIsometricForce(t *testing.T) {
	p := DefaultParams()
	if err := p.SetMaxIsometricForce("DELT2", 0); err != nil {
		t.Fatal(err)
	}
	if err := p.SetMaxIsometricForce("NOPE", 1); err == nil {
		t.Error("expected error for unknown muscle")
	}
	a, err := New(p)
	if err != nil {
		t.Fatal(err)
	}
	a.Sync(a.InitialState(0.5, 1.2), 0)
	m, _ := a.MuscleByName("DELT2")
	if m.Force() != 0 {
		t.Errorf("zero-strength muscle should produce no force, got %v", m.Force())
	}
}

func TestNewRejectsDuplicateMuscles(t *testing.T) {
	p := DefaultParams()
	p.Muscles = append(p.Muscles, p.Muscles[0])
	if _, err := New(p); !errors.Is(err, musculo.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

package arm

import "fmt"

const (
	DefaultBodyName    = "arm"
	DefaultMuscleSys   = "arm_muscles"
	DefaultDampingSys  = "arm_damping"
	DefaultGroundName  = "ground"
	ShoulderCoordinate = "arm_flex"
	ElbowCoordinate    = "elbow_flex"
)

// MuscleParams describes one muscle-tendon unit. Moment arms are in
// meters per radian of joint flexion; positive arms flex the joint.
type MuscleParams struct {
	Name              string
	MaxIsometricForce float64
	OptimalFiberLen   float64
	ShoulderArm       float64
	ElbowArm          float64
}

// Params holds the arm's geometry and the per-muscle table.
type Params struct {
	BodyName      string
	MuscleSysName string

	ShoulderInertia float64
	ElbowInertia    float64
	JointDamping    float64

	// Joint ranges (rad); outside them a stiff restoring torque applies.
	ShoulderRange [2]float64
	ElbowRange    [2]float64
	LimitStiff    float64

	// Reference posture at which fibers sit at optimal length.
	ShoulderRef float64
	ElbowRef    float64

	ActivationTau   float64
	DeactivationTau float64
	SpecificTension float64

	Muscles []MuscleParams
}

// DefaultMuscles is the 18-muscle set of the reference 2-DOF horizontal
// arm, in the order controllers expect muscle lengths on the wire.
func DefaultMuscles() []MuscleParams {
	return []MuscleParams{
		{"DELT1", 1142.6, 0.0976, 0.020, 0},
		{"DELT2", 1142.6, 0.1078, 0.004, 0},
		{"DELT3", 259.9, 0.1367, -0.020, 0},
		{"Infraspinatus", 1210.8, 0.0755, -0.015, 0},
		{"Latissimus_dorsi_1", 389.1, 0.2540, -0.018, 0},
		{"Latissimus_dorsi_2", 389.1, 0.2324, -0.018, 0},
		{"Latissimus_dorsi_3", 281.7, 0.2789, -0.016, 0},
		{"Teres_minor", 354.3, 0.0741, -0.012, 0},
		{"PECM1", 364.4, 0.1442, 0.022, 0},
		{"PECM2", 515.4, 0.1385, 0.020, 0},
		{"PECM3", 390.6, 0.1813, 0.018, 0},
		{"Coracobrachialis", 242.5, 0.0683, 0.012, 0},
		{"TRIlong", 798.5, 0.1340, -0.010, -0.021},
		{"TRIlat", 624.3, 0.1138, 0, -0.021},
		{"TRImed", 624.3, 0.1138, 0, -0.021},
		{"BIClong", 624.3, 0.1157, 0.010, 0.030},
		{"BICshort", 435.6, 0.1321, 0.008, 0.030},
		{"BRA", 987.3, 0.0858, 0, 0.018},
	}
}

func DefaultParams() Params {
	return Params{
		BodyName:        DefaultBodyName,
		MuscleSysName:   DefaultMuscleSys,
		ShoulderInertia: 0.30,
		ElbowInertia:    0.06,
		JointDamping:    1.5,
		ShoulderRange:   [2]float64{-0.5, 2.6},
		ElbowRange:      [2]float64{0.0, 2.6},
		LimitStiff:      200.0,
		ShoulderRef:     0.5,
		ElbowRef:        1.2,
		ActivationTau:   0.010,
		DeactivationTau: 0.040,
		SpecificTension: 0.6e6,
		Muscles:         DefaultMuscles(),
	}
}

// SetMaxIsometricForce overrides the maximum isometric force of a muscle.
// Zero is accepted; derived ratios then become non-finite.
func (p *Params) SetMaxIsometricForce(name string, force float64) error {
	for i := range p.Muscles {
		if p.Muscles[i].Name == name {
			p.Muscles[i].MaxIsometricForce = force
			return nil
		}
	}
	return fmt.Errorf("arm: unknown muscle %q", name)
}

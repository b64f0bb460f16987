package bridge_test

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/san-kum/armbridge/internal/arm"
	"github.com/san-kum/armbridge/internal/bridge"
	"github.com/san-kum/armbridge/internal/config"
	"github.com/san-kum/armbridge/internal/dynamo"
	"github.com/san-kum/armbridge/internal/integrators"
	"github.com/san-kum/armbridge/internal/musculo"
)

func newArm(overrides map[string]float64) *arm.Arm {
	p := arm.DefaultParams()
	for name, f := range overrides {
		gomega.Expect(p.SetMaxIsometricForce(name, f)).To(gomega.Succeed())
	}
	a, err := arm.New(p)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return a
}

func runSession(cfg *config.Config, a *arm.Arm, input string) (*dynamo.Result, string, error) {
	var out bytes.Buffer
	b, err := bridge.Build(cfg, a, bridge.Streams{In: strings.NewReader(input), Out: &out}, nil, nil)
	if err != nil {
		return nil, out.String(), err
	}
	defer b.Close()

	integ, err := integrators.New(cfg.Simulation.Integrator)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	sim := dynamo.New(a, integ)
	for _, h := range b.Handlers {
		sim.AddHandler(h)
	}
	x0 := a.InitialState(cfg.Simulation.InitState.Shoulder, cfg.Simulation.InitState.Elbow)
	res, err := sim.Run(context.Background(), x0, dynamo.Config{
		Dt:            cfg.Simulation.Dt,
		Duration:      cfg.Simulation.Duration,
		ValidateState: cfg.Simulation.ValidateState,
	})
	return res, out.String(), err
}

func frames(out string) [][]string {
	var fs [][]string
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		if line == "" {
			continue
		}
		fs = append(fs, bridge.Fields(line))
	}
	return fs
}

var _ = ginkgo.Describe("Excitation ingestion", func() {
	var (
		a   *arm.Arm
		sub musculo.MuscleSubsystem
	)

	ginkgo.BeforeEach(func() {
		a = newArm(nil)
		var err error
		sub, err = musculo.ResolveMuscleSubsystem(a, arm.DefaultMuscleSys)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
	})

	ingest := func(names []string, lines ...string) *bridge.ExcitationIngestor {
		ms, err := musculo.SelectMuscles(sub, musculo.Selection{Names: names})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		src := bridge.NewReaderSource(strings.NewReader(strings.Join(lines, "\n") + "\n"))
		ing, err := bridge.NewExcitationIngestor(0, ms, src)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		for i := range lines {
			handled, err := ing.Handle(float64(i) * 0.01)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(handled).To(gomega.BeTrue())
		}
		return ing
	}

	excitation := func(name string) float64 {
		m, ok := a.MuscleByName(name)
		gomega.Expect(ok).To(gomega.BeTrue())
		return m.Excitation()
	}

	ginkgo.It("routes each channel to its anatomical group", func() {
		ingest([]string{"TRIlong", "BIClong", "PECM1", "DELT3"}, "10 20 30 40")

		gomega.Expect(excitation("TRIlong")).To(gomega.Equal(30.0))
		gomega.Expect(excitation("BIClong")).To(gomega.Equal(40.0))
		gomega.Expect(excitation("PECM1")).To(gomega.Equal(20.0))
		gomega.Expect(excitation("DELT3")).To(gomega.Equal(10.0))
	})

	ginkgo.It("leaves unclassified muscles untouched", func() {
		m, _ := a.MuscleByName("DELT2")
		m.SetExcitation(0.42)
		ingest([]string{"DELT2", "BRA"}, "1 1 1 1")

		gomega.Expect(excitation("DELT2")).To(gomega.Equal(0.42))
		gomega.Expect(excitation("BRA")).To(gomega.Equal(1.0))
	})

	ginkgo.It("keeps channels a short line does not supply", func() {
		ing := ingest(nil, "1 2 3 4", "9")
		gomega.Expect(ing.Vector()).To(gomega.Equal(bridge.ControlVector{9, 2, 3, 4}))
	})

	ginkgo.It("clears the vector on an empty line", func() {
		ing := ingest(nil, "1 2 3 4", "")
		gomega.Expect(ing.Vector()).To(gomega.Equal(bridge.ControlVector{}))
	})

	ginkgo.It("produces identical excitations for a repeated vector", func() {
		names := []string{"BIClong", "TRIlat", "PECM2", "Teres_minor"}
		ingest(names, "0.1 0.2 0.3 0.4")
		first := make([]float64, len(names))
		for i, n := range names {
			first[i] = excitation(n)
		}
		ingest(names, "0.1 0.2 0.3 0.4")
		for i, n := range names {
			gomega.Expect(excitation(n)).To(gomega.Equal(first[i]))
		}
	})
})

var _ = ginkgo.Describe("A bridged run", func() {
	var cfg *config.Config

	ginkgo.BeforeEach(func() {
		cfg = config.DefaultConfig()
		cfg.PntDir = ginkgo.GinkgoT().TempDir()
		cfg.Simulation.Duration = 0.05
	})

	ginkgo.It("exchanges one frame pair per eligible step", func() {
		input := strings.Repeat("0.1 0.1 0.1 0.1\n", 5)
		res, out, err := runSession(cfg, newArm(nil), input)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(res.Halted).To(gomega.BeFalse())
		gomega.Expect(res.Handled).To(gomega.HaveKeyWithValue(bridge.CoordinateEmitterName, 5))

		fs := frames(out)
		gomega.Expect(fs).To(gomega.HaveLen(10))
		for i, f := range fs {
			if i%2 == 0 {
				gomega.Expect(f).To(gomega.HaveLen(2))
			} else {
				gomega.Expect(f).To(gomega.HaveLen(config.DefaultFrameWidth))
			}
		}
	})

	ginkgo.It("writes time-stamped frames to the pnt files", func() {
		input := strings.Repeat("0 0 0 0\n", 5)
		_, _, err := runSession(cfg, newArm(nil), input)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		data, err := os.ReadFile(filepath.Join(cfg.PntDir, "arm_coordates_status.pnt"))
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		gomega.Expect(lines).To(gomega.HaveLen(5))
		gomega.Expect(bridge.Fields(lines[0])).To(gomega.Equal([]string{"0", "0.5", "1.2"}))

		data, err = os.ReadFile(filepath.Join(cfg.PntDir, "arm_muscles_status.pnt"))
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		first := bridge.Fields(strings.SplitN(string(data), "\n", 2)[0])
		gomega.Expect(first).To(gomega.HaveLen(1 + 18*len(bridge.AllVariables())))
	})

	ginkgo.It("halts cleanly when the controller closes its input", func() {
		res, out, err := runSession(cfg, newArm(nil), "0 0 0 0\n0 0 0 0\n")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(res.Halted).To(gomega.BeTrue())
		gomega.Expect(frames(out)).To(gomega.HaveLen(4))
	})

	ginkgo.It("fails before the first step on an unknown variable", func() {
		cfg.MuscleStatus.Variables = config.Selection{Names: []string{"force", "tendonSlack"}}
		res, out, err := runSession(cfg, newArm(nil), "1 2 3 4\n")
		gomega.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("tendonSlack")))
		gomega.Expect(err).To(gomega.MatchError(bridge.ErrUnknownVariable))
		gomega.Expect(res).To(gomega.BeNil())
		gomega.Expect(out).To(gomega.BeEmpty())
	})

	ginkgo.It("passes a non-finite relative contraction through", func() {
		cfg.MuscleStatus.Variables = config.Selection{Names: []string{"RelativeMaxContraction", "capacity"}}
		cfg.MuscleStatus.Muscles = config.Selection{Names: []string{"DELT2", "BRA"}}
		input := strings.Repeat("0 0 0 0\n", 5)
		_, _, err := runSession(cfg, newArm(map[string]float64{"DELT2": 0}), input)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		data, err := os.ReadFile(filepath.Join(cfg.PntDir, "arm_muscles_status.pnt"))
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		gomega.Expect(lines).To(gomega.HaveLen(5))
		for _, line := range lines {
			f := bridge.Fields(line)
			gomega.Expect(f).To(gomega.HaveLen(5))
			rel := bridge.ParseToken(f[1])
			gomega.Expect(math.IsInf(rel, 0) || math.IsNaN(rel)).To(gomega.BeTrue())
			gomega.Expect(math.IsNaN(bridge.ParseToken(f[3]))).To(gomega.BeFalse())
		}
	})

	ginkgo.It("round-trips frames through the ingestion tokenizer", func() {
		input := strings.Repeat("0.2 0.2 0.2 0.2\n", 5)
		_, out, err := runSession(cfg, newArm(nil), input)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
			var v bridge.ControlVector
			n := v.Apply(line)
			gomega.Expect(n).To(gomega.Equal(min(len(bridge.Fields(line)), bridge.ControlWidth)))
		}
	})
})

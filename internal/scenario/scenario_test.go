package scenario_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/povpendulum/internal/config"
	"github.com/san-kum/povpendulum/internal/dynamo"
	"github.com/san-kum/povpendulum/internal/export"
	"github.com/san-kum/povpendulum/internal/physics"
	"github.com/san-kum/povpendulum/internal/scenario"
	"github.com/san-kum/povpendulum/internal/storage"
)

var _ = Describe("Build", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		cfg.DataDir = GinkgoT().TempDir()
		cfg.OutputDir = filepath.Join(GinkgoT().TempDir(), "POVRAY_1")
	})

	It("places the bodies at their initial literals", func() {
		scene, err := scenario.Build(cfg)
		Expect(err).NotTo(HaveOccurred())

		Expect(scene.Pendulum.Pos()).To(Equal(dynamo.V(0, 3, 0)))
		Expect(scene.Pendulum.LinVel()).To(Equal(dynamo.V(1, 0, 0)))
		Expect(scene.Floor.Pos()).To(Equal(dynamo.V(0, -2, 0)))
		Expect(scene.Floor.Fixed()).To(BeTrue())
		Expect(scene.System.Bodies()).To(HaveLen(2))
		Expect(scene.System.Links()).To(HaveLen(1))
	})

	It("links the pendulum to the floor at the joint", func() {
		scene, err := scenario.Build(cfg)
		Expect(err).NotTo(HaveOccurred())

		b1, b2 := scene.Link.Bodies()
		Expect(b1).To(BeIdenticalTo(scene.Pendulum))
		Expect(b2).To(BeIdenticalTo(scene.Floor))
		Expect(scene.Link.Violation()).To(BeNumerically("<", 1e-12))
	})

	It("dresses the bodies and registers them with the exporter", func() {
		scene, err := scenario.Build(cfg)
		Expect(err).NotTo(HaveOccurred())

		Expect(scene.Pendulum.VisualShape(0).Color).To(Equal(dynamo.Color{R: 0.2, G: 0.5, B: 0.25}))
		tex := scene.Floor.VisualShape(0).Texture
		Expect(tex).NotTo(BeNil())
		Expect(filepath.IsAbs(tex.File)).To(BeTrue())
		Expect(tex.File).To(HaveSuffix(filepath.Join("textures", "checker1.png")))
		Expect(scene.Exporter.Items()).To(HaveLen(2))
		Expect(scene.Camera.Angle).To(Equal(50.0))
	})

	It("rejects a joint outside the motion plane", func() {
		cfg.Joint = dynamo.V(0, 4, 1)
		_, err := scenario.Build(cfg)
		Expect(err).To(MatchError(dynamo.ErrOutOfPlane))
	})

	It("seeds the pendulum spin from the config", func() {
		cfg.Pendulum.AngVel = 0.5
		scene, err := scenario.Build(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(scene.Pendulum.AngVel()).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("rejects an unknown collision system", func() {
		cfg.Collision = "havok"
		_, err := scenario.Build(cfg)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("TemplatePath", func() {
	It("falls back to the built-in template when the default file is absent", func() {
		cfg := config.DefaultConfig()
		cfg.DataDir = GinkgoT().TempDir()
		Expect(scenario.TemplatePath(cfg)).To(BeEmpty())
	})

	It("uses the template from the data directory when present", func() {
		cfg := config.DefaultConfig()
		cfg.DataDir = GinkgoT().TempDir()
		path := filepath.Join(cfg.DataDir, config.DefaultTemplate)
		Expect(os.WriteFile(path, []byte("// scene\n"), 0644)).To(Succeed())
		Expect(scenario.TemplatePath(cfg)).To(Equal(path))
	})

	It("keeps an explicit template even when it is missing", func() {
		cfg := config.DefaultConfig()
		cfg.DataDir = GinkgoT().TempDir()
		cfg.Template = "mine.pov"
		Expect(scenario.TemplatePath(cfg)).To(Equal(filepath.Join(cfg.DataDir, "mine.pov")))
	})
})

var _ = Describe("Run", func() {
	var (
		cfg *config.Config
		out *bytes.Buffer
	)

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		cfg.DataDir = GinkgoT().TempDir()
		cfg.OutputDir = filepath.Join(GinkgoT().TempDir(), "out", "POVRAY_1")
		out = &bytes.Buffer{}
	})

	Context("with the default scene", func() {
		var report *scenario.Report

		BeforeEach(func() {
			var err error
			report, err = scenario.Run(context.Background(), cfg, scenario.RunOptions{Out: out})
			Expect(err).NotTo(HaveOccurred())
		})

		It("takes 150 steps and reaches the end time", func() {
			Expect(report.Result.Steps).To(Equal(150))
			Expect(report.Result.FinalTime).To(BeNumerically(">=", 1.5-1e-9))
			Expect(report.Scene.System.StepCount()).To(Equal(150))
		})

		It("prints one time line per step", func() {
			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			Expect(lines).To(HaveLen(150))
			Expect(lines[0]).To(Equal("time= 0.01"))
		})

		It("writes the render script and 150 frames", func() {
			Expect(filepath.Join(cfg.OutputDir, "render_frames.pov")).To(BeAnExistingFile())
			Expect(filepath.Join(cfg.OutputDir, "render_frames.pov.ini")).To(BeAnExistingFile())
			Expect(filepath.Join(cfg.OutputDir, "render_frames.pov.assets")).To(BeAnExistingFile())
			Expect(filepath.Join(cfg.OutputDir, "anim")).To(BeADirectory())

			dat, err := filepath.Glob(filepath.Join(cfg.OutputDir, "output", "state*.dat"))
			Expect(err).NotTo(HaveOccurred())
			pov, err := filepath.Glob(filepath.Join(cfg.OutputDir, "output", "state*.pov"))
			Expect(err).NotTo(HaveOccurred())
			Expect(dat).To(HaveLen(150))
			Expect(pov).To(HaveLen(150))
			Expect(filepath.Join(cfg.OutputDir, "output", "state00149.dat")).To(BeAnExistingFile())

			ini, err := os.ReadFile(filepath.Join(cfg.OutputDir, "render_frames.pov.ini"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(ini)).To(ContainSubstring("Final_Frame=0149"))
		})

		It("keeps the pendulum on the joint and the floor in place", func() {
			Expect(report.Result.Metrics).To(HaveKey("joint_violation"))
			Expect(report.Result.Metrics["joint_violation"]).To(BeNumerically("<", 1e-2))
			Expect(report.Scene.Floor.Pos()).To(Equal(dynamo.V(0, -2, 0)))
			Expect(report.Result.Metrics["amplitude"]).To(BeNumerically(">", 0.1))
			Expect(report.Result.Metrics["model_deviation"]).To(BeNumerically("<", 0.05))
		})

		It("stores the run next to the frames", func() {
			store := storage.New(cfg.OutputDir)
			meta, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(meta.Steps).To(Equal(150))
			Expect(meta.Frames).To(Equal(150))
			Expect(meta.Collision).To(Equal(physics.CollisionBullet.String()))

			samples, err := store.LoadTrajectory()
			Expect(err).NotTo(HaveOccurred())
			Expect(samples).To(HaveLen(151))
			Expect(samples[0].Pos).To(Equal(dynamo.V(0, 3, 0)))
			Expect(samples[0].Vel).To(Equal(dynamo.V(1, 0, 0)))

			Expect(filepath.Join(cfg.OutputDir, export.TrajectorySVGFile)).To(BeAnExistingFile())
		})
	})

	It("accepts an existing output directory", func() {
		Expect(os.MkdirAll(cfg.OutputDir, 0755)).To(Succeed())
		cfg.EndTime = 0.05
		report, err := scenario.Run(context.Background(), cfg, scenario.RunOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Result.Steps).To(Equal(5))
	})

	It("stops before the first step when the output directory cannot be created", func() {
		blocker := filepath.Join(GinkgoT().TempDir(), "file")
		Expect(os.WriteFile(blocker, nil, 0644)).To(Succeed())
		cfg.OutputDir = filepath.Join(blocker, "POVRAY_1")

		report, err := scenario.Run(context.Background(), cfg, scenario.RunOptions{Out: out})
		Expect(err).To(MatchError(dynamo.ErrOutputDir))
		Expect(report).To(BeNil())
		Expect(out.Len()).To(BeZero())
	})

	It("runs without touching the filesystem when export is off", func() {
		cfg.EndTime = 0.1
		report, err := scenario.Run(context.Background(), cfg, scenario.RunOptions{NoExport: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Result.Steps).To(Equal(10))
		Expect(cfg.OutputDir).NotTo(BeADirectory())
	})

	It("writes the configured ambient light and background", func() {
		cfg.EndTime = 0.02
		cfg.Export.Ambient = dynamo.Color{R: 1, G: 1, B: 1}
		cfg.Export.Background = dynamo.Color{R: 0, G: 0, B: 0.2}
		_, err := scenario.Run(context.Background(), cfg, scenario.RunOptions{Out: out})
		Expect(err).NotTo(HaveOccurred())

		script, err := os.ReadFile(filepath.Join(cfg.OutputDir, "render_frames.pov"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(script)).To(ContainSubstring("ambient_light rgb<1,1,1>"))
		Expect(string(script)).To(ContainSubstring("background { rgb<0,0,0.2> }"))
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		report, err := scenario.Run(ctx, cfg, scenario.RunOptions{})
		Expect(err).To(MatchError(context.Canceled))
		Expect(report.Result.Steps).To(BeZero())
	})
})

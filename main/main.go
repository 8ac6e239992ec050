package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path"
	"runtime"
	"runtime/pprof"
	"strings"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/raygeom/geom"
	"github.com/phil-mansfield/raygeom/io"
	"github.com/phil-mansfield/raygeom/render"
)

// FileGroup holds the optional log and CPU profile files of a run. Logs are
// redirected to the log file until Close is called.
type FileGroup struct {
	log, prof *os.File
}

// NewFileGroup opens whichever of logFile and profFile are non-empty and
// starts profiling.
func NewFileGroup(logFile, profFile string) (*FileGroup, error) {
	fg := &FileGroup{}
	var err error

	if logFile != "" {
		if fg.log, err = os.Create(logFile); err != nil {
			return nil, err
		}
		log.SetOutput(fg.log)
	}

	if profFile != "" {
		if fg.prof, err = os.Create(profFile); err != nil {
			fg.Close()
			return nil, err
		}
		if err = pprof.StartCPUProfile(fg.prof); err != nil {
			fg.prof.Close()
			fg.prof = nil
			fg.Close()
			return nil, err
		}
	}

	return fg, nil
}

// Close flushes the profile, closes both files and sends logs back to
// stderr. It returns the first error encountered.
func (fg *FileGroup) Close() error {
	var err error
	if fg.prof != nil {
		pprof.StopCPUProfile()
		err = fg.prof.Close()
		fg.prof = nil
	}

	if fg.log != nil {
		log.SetOutput(os.Stderr)
		if lerr := fg.log.Close(); err == nil {
			err = lerr
		}
		fg.log = nil
	}
	return err
}

type Options struct {
	Threads           int
	Plot              bool
	LogFile, ProfFile string
}

// modeNames lists the mode flags in the order they are reported to users.
var modeNames = []string{"Render", "Cast", "Inspect", "ExampleConfig"}

func main() {
	modes := map[string]*string{}
	for _, name := range modeNames {
		modes[name] = new(string)
	}
	opt := &Options{}

	flag.StringVar(
		modes["Render"], "Render", "",
		"Scene file for [Render] mode. Any further arguments are triangle "+
			"tables which are added to the scene.",
	)
	flag.StringVar(
		modes["Cast"], "Cast", "",
		"Scene file for [Cast] mode. The next argument is a table of rays.",
	)
	flag.StringVar(
		modes["Inspect"], "Inspect", "",
		"Depth map file for [Inspect] mode.",
	)
	flag.StringVar(
		modes["ExampleConfig"], "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. The only accepted argument is 'Scene'.",
	)
	flag.IntVar(
		&opt.Threads, "Threads", runtime.NumCPU(),
		"Number of workers used in [Render] mode.",
	)
	flag.BoolVar(
		&opt.Plot, "Plot", false,
		"In [Render] mode, also plot the central row of the depth map.",
	)
	flag.StringVar(&opt.LogFile, "LogFile", "", "File to write logs to.")
	flag.StringVar(&opt.ProfFile, "ProfileFile", "", "File to write a CPU profile to.")

	flag.Parse()

	if err := run(modes, flag.Args(), opt); err != nil {
		log.Fatal(err.Error())
	}
}

// run executes the selected mode. The log and profile files are closed
// before it returns, including on failure.
func run(modes map[string]*string, args []string, opt *Options) (err error) {
	mode, err := selectMode(modes)
	if err != nil {
		return err
	}

	fg, err := NewFileGroup(opt.LogFile, opt.ProfFile)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			log.Print(err.Error())
		}
		if cerr := fg.Close(); err == nil {
			err = cerr
		}
	}()

	arg := *modes[mode]
	switch mode {
	case "Render":
		con, err := io.ReadSceneConfig(arg)
		if err != nil {
			return err
		} else if !con.Camera.ValidOutput() {
			return fmt.Errorf(
				"%s: invalid/non-existent 'Output' value '%s'.",
				arg, con.Camera.Output,
			)
		}
		return renderMain(con, args, opt)

	case "Cast":
		con, err := io.ReadSceneConfig(arg)
		if err != nil {
			return err
		} else if len(args) != 1 {
			return fmt.Errorf("-Cast requires exactly one ray table.")
		}
		return castMain(con, args[0])

	case "Inspect":
		return inspectMain(arg)

	case "ExampleConfig":
		if arg != "Scene" {
			return fmt.Errorf(
				"'%s' is not a valid ExampleConfig argument. The only "+
					"valid argument is 'Scene'.", arg,
			)
		}
		fmt.Println(io.ExampleSceneFile)
	}
	return nil
}

// selectMode returns the single mode whose flag was set. The error lists the
// accepted mode flags.
func selectMode(modes map[string]*string) (string, error) {
	set := []string{}
	for _, name := range modeNames {
		if *modes[name] != "" {
			set = append(set, name)
		}
	}

	switch len(set) {
	case 0:
		return "", fmt.Errorf(
			"No mode was given. Set exactly one of %s.", flagList(modeNames),
		)
	case 1:
		return set[0], nil
	}
	return "", fmt.Errorf(
		"Modes %s were all given, but only one of %s may be used at a time.",
		flagList(set), flagList(modeNames),
	)
}

func flagList(names []string) string {
	flags := make([]string, len(names))
	for i := range names {
		flags[i] = "-" + names[i]
	}
	return strings.Join(flags, ", ")
}

func renderMain(con *io.SceneConfig, meshes []string, opt *Options) error {
	scene := render.NewScene(con)
	for _, file := range meshes {
		tris, err := io.ReadTriangles(file)
		if err != nil {
			return err
		}
		scene.AddTriangles(path.Base(file)+"_", tris)
	}

	for i, name := range scene.ConeNames {
		log.Printf("Cone '%s' contains spheres %v", name, scene.ConeSpheres(i))
	}
	for i, name := range scene.BoxNames {
		log.Printf("Box '%s' overlaps spheres %v", name, scene.BoxSpheres(i))
	}

	m := con.Camera.ViewProjection()
	cv := geom.NewClipVolume(m)
	visible := scene.Cull(&cv)
	log.Printf(
		"%d/%d spheres, %d/%d boxes and %d/%d triangles are visible.",
		len(visible.Spheres), len(scene.Spheres),
		len(visible.Boxes), len(scene.Boxes),
		len(visible.Triangles), len(scene.Triangles),
	)

	f := geom.NewFrustum(m)
	width, height := con.Camera.Width, con.Camera.Height
	man := render.NewDepthManager(visible, opt.Threads)
	depths := man.Render(&f, width, height)

	hd := &io.DepthHeader{Camera: io.NewCameraInfo(&con.Camera)}
	hd.Image.Width, hd.Image.Height = int64(width), int64(height)
	err := io.WriteDepthFile(con.Camera.Output, hd, depths)
	if err != nil {
		return err
	}

	if opt.Plot {
		plotRow(depths, width, height, con.Camera.Output+".png")
	}
	return nil
}

// plotRow plots the depths along the central row of a depth map.
func plotRow(depths []float32, width, height int, fname string) {
	y := height / 2
	xs, ds := []float64{}, []float64{}
	for x := 0; x < width; x++ {
		d := float64(depths[x+y*width])
		if math.IsInf(d, 0) {
			continue
		}
		xs = append(xs, float64(x))
		ds = append(ds, d)
	}

	plt.Figure()
	plt.Plot(xs, ds, "k", plt.LW(2))
	plt.Title(fmt.Sprintf("Row %d", y))
	plt.XLabel("Pixel", plt.FontSize(16))
	plt.YLabel("Depth", plt.FontSize(16))
	plt.XLim(0, float64(width))
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)
	plt.Execute()
}

func castMain(con *io.SceneConfig, rayFile string) error {
	rays, err := io.ReadRays(rayFile)
	if err != nil {
		return err
	}

	scene := render.NewScene(con)
	ws := &render.Workspace{}
	fmt.Println("# Ray | Kind | Name | T | U | V | W")
	for i := range rays {
		hit, ok := scene.Cast(ws, rays[i])
		if !ok {
			fmt.Printf("%5d %8s\n", i, "-")
			continue
		}
		fmt.Printf("%5d %8s %12s %10.4g %8.4g %8.4g %8.4g\n",
			i, hit.Kind, scene.Name(&hit), hit.T, hit.U, hit.V, hit.W)
	}
	return nil
}

func inspectMain(file string) error {
	hd, depths, err := io.ReadDepthFile(file)
	if err != nil {
		return err
	}

	lo, hi := math.Inf(+1), math.Inf(-1)
	for _, d := range depths {
		if !math.IsInf(float64(d), 0) {
			lo, hi = math.Min(lo, float64(d)), math.Max(hi, float64(d))
		}
	}

	fmt.Printf("# Eye:    %v\n", hd.Camera.Eye)
	fmt.Printf("# Target: %v\n", hd.Camera.Target)
	fmt.Printf("# Fov:    %g\n", hd.Camera.Fov)
	fmt.Printf("# Size:   %d x %d\n", hd.Image.Width, hd.Image.Height)
	fmt.Printf("# Hits:   %d\n", hd.Image.Hits)
	if hd.Image.Hits > 0 {
		fmt.Printf("# Depths: [%g, %g]\n", lo, hi)
	}
	return nil
}

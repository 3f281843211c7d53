package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chazu/carve/pkg/engine"
	"github.com/chazu/carve/pkg/kernel"
	"github.com/chazu/carve/pkg/kernel/bsp"
	"github.com/chazu/carve/pkg/kernel/sdfx"
	"github.com/chazu/carve/pkg/stl"
)

var CLI struct {
	Debug bool `help:"Whether to enable debug logging."`

	Render struct {
		Script string `arg:"" help:"Carve script to evaluate." type:"existingfile"`
		Out    string `help:"Output directory for STL files." short:"o" default:"."`
		Kernel string `help:"Geometry backend." enum:"bsp,sdfx" default:"bsp"`
		ASCII  bool   `help:"Write ASCII STL instead of binary."`
	} `cmd:"" help:"Evaluate a script and write one STL file per emitted solid."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := kong.Parse(&CLI,
		kong.Name("carve"),
		kong.Description("a BSP-tree CSG modeling tool"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Debug().Msg("debug logging enabled")
	}

	switch ctx.Command() {
	case "render <script>":
		if err := renderCommand(); err != nil {
			writeError(err)
		}
	}
}

func pickKernel(name string) kernel.Kernel {
	if name == "sdfx" {
		return sdfx.New()
	}
	return bsp.New()
}

func renderCommand() error {
	source, err := os.ReadFile(CLI.Render.Script)
	if err != nil {
		return err
	}

	k := pickKernel(CLI.Render.Kernel)
	eng := engine.New(k)
	eng.Log = log.Logger

	scene, evalErrs, err := eng.Evaluate(string(source))
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	for _, e := range evalErrs {
		log.Error().Str("script", CLI.Render.Script).Msg(e.Error())
	}
	if len(evalErrs) > 0 {
		return fmt.Errorf("%d script errors", len(evalErrs))
	}
	if len(scene.Solids) == 0 {
		log.Warn().Msg("script emitted no solids")
		return nil
	}

	if err := os.MkdirAll(CLI.Render.Out, 0o755); err != nil {
		return err
	}

	for _, ns := range scene.Solids {
		mesh, err := k.ToMesh(ns.Solid)
		if err != nil {
			return fmt.Errorf("meshing %q: %w", ns.Name, err)
		}
		mesh.Name = ns.Name

		path := filepath.Join(CLI.Render.Out, ns.Name+".stl")
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if CLI.Render.ASCII {
			err = stl.WriteASCII(f, mesh)
		} else {
			err = stl.WriteBinary(f, mesh)
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		log.Info().
			Str("file", path).
			Int("triangles", mesh.TriangleCount()).
			Msg("solid written")
	}
	return nil
}

// weldtool is a CLI utility that deduplicates vertices of YAML mesh files.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/vertexweld/internal/config"
	"github.com/Faultbox/vertexweld/internal/glbind"
	"github.com/Faultbox/vertexweld/internal/logger"
	"github.com/Faultbox/vertexweld/pkg/geom"
	"github.com/Faultbox/vertexweld/pkg/meshio"
	"github.com/Faultbox/vertexweld/pkg/weld"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	command := args[0]
	var err error
	switch command {
	case "weld", "w":
		err = cmdWeld(args[1:], stdout)
	case "info":
		err = cmdInfo(args[1:], stdout)
	case "config":
		err = cmdConfig(args[1:], stdout)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `weldtool - vertex deduplication for indexed meshes

Usage:
  weldtool <command> [options] <args>

Commands:
  weld <mesh.yaml>...     Merge identical vertices and write the result
  info <mesh.yaml>...     Show channels, draw calls and weld estimate
  config                  Write the effective configuration

Examples:
  weldtool weld model.yaml
  weldtool weld -o model.min.yaml model.yaml
  weldtool info -debug model.yaml
  weldtool config -o ./weldtool.yaml

Options:`)
	config.PrintFlags(w)
}

// setup parses flags, loads configuration and starts logging.
func setup(args []string) (*config.Config, []string, error) {
	rest, err := config.ParseFlags(args)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logOpts := logger.Options{Level: cfg.Logging.Level, Console: os.Stderr}
	if cfg.Logging.LogFile != "" {
		logOpts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
		logOpts.File.MaxSizeMB = cfg.Logging.MaxSizeMB
		logOpts.File.MaxBackups = cfg.Logging.MaxBackups
	}
	if err := logger.Setup(logOpts); err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	logger.Sugar.Debugf("config: %+v", cfg)

	return cfg, rest, nil
}

func cmdWeld(args []string, stdout io.Writer) error {
	cfg, files, err := setup(args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if len(files) == 0 {
		return errors.New("usage: weldtool weld [options] <mesh.yaml>")
	}
	if config.OutputPath() != "" && len(files) > 1 {
		return errors.New("-o requires a single input file")
	}

	w := weld.New(logger.Named("weld"), weld.Options{ValidateIndices: cfg.Weld.ValidateIndices})
	for _, in := range files {
		out := config.OutputPath()
		if out == "" {
			out = derivedPath(in, cfg.Output.Suffix)
		}
		if err := weldFile(w, in, out, cfg.Output.Overwrite); err != nil {
			return err
		}

		s := w.Stats()
		fmt.Fprintf(stdout, "%s: %d -> %d vertices (%d removed), %d channels, %d draw calls -> %s\n",
			in, s.InputVertices, s.OutputVertices, s.Removed(), s.Channels, s.DrawCalls, out)
	}
	return nil
}

func weldFile(w *weld.Welder, in, out string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(out); err == nil {
			return fmt.Errorf("%s exists (use -f to overwrite)", out)
		}
	}

	m, err := meshio.ReadFile(in)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	}

	if err := w.Weld(m); err != nil {
		logger.Log.Error("weld failed", zap.String("file", in), zap.Error(err))
		return fmt.Errorf("%s: %w", in, err)
	}

	if err := meshio.WriteFile(out, m); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	logger.Log.Info("mesh written",
		zap.String("input", in),
		zap.String("output", out),
		zap.Int("removed", w.Stats().Removed()),
	)
	return nil
}

// derivedPath inserts suffix before the extension of path.
func derivedPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

func cmdInfo(args []string, stdout io.Writer) error {
	cfg, files, err := setup(args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if len(files) == 0 {
		return errors.New("usage: weldtool info [options] <mesh.yaml>")
	}

	for _, path := range files {
		m, err := meshio.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := printInfo(stdout, path, m, cfg); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func printInfo(w io.Writer, path string, m *geom.Mesh, cfg *config.Config) error {
	fmt.Fprintf(w, "Mesh:      %s\n", path)
	if m.Name != "" {
		fmt.Fprintf(w, "Name:      %s\n", m.Name)
	}
	fmt.Fprintf(w, "Vertices:  %d\n", m.VertexCount())
	fmt.Fprintf(w, "Indices:   %d\n", m.IndexCount())
	fmt.Fprintln(w)

	layouts, err := glbind.Layouts(m)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Channels:")
	for i, ch := range m.Channels() {
		l := layouts[i]
		fmt.Fprintf(w, "  %-18s %-10s %-8d location=%d type=%#x stride=%d normalized=%v\n",
			ch.ID, ch.Array.Format(), ch.Array.Len(), l.Location, l.Type, l.Stride, l.Normalized)
	}

	fmt.Fprintln(w, "Draw calls:")
	for i, dc := range m.DrawCalls {
		if err := printDrawCall(w, i, dc); err != nil {
			return err
		}
	}

	// Weld a shallow copy; arrays are replaced, never modified.
	welded := m.Clone()
	welder := weld.New(logger.Named("weld"), weld.Options{ValidateIndices: cfg.Weld.ValidateIndices})
	if err := welder.Weld(welded); err != nil {
		fmt.Fprintf(w, "Weld:      not possible: %v\n", err)
		return nil
	}
	s := welder.Stats()
	fmt.Fprintf(w, "Weld:      %d unique vertices (%d removable)\n", s.OutputVertices, s.Removed())

	before, after := 0, 0
	for i, dc := range welded.DrawCalls {
		if d, ok := m.DrawCalls[i].(*geom.DrawElements); ok {
			buf, err := glbind.IndexBytes(d)
			if err != nil {
				return fmt.Errorf("draw call %d: %w", i, err)
			}
			before += len(buf)
		}
		if d, ok := dc.(*geom.DrawElements); ok {
			buf, err := glbind.IndexBytes(d)
			if err != nil {
				return fmt.Errorf("welded draw call %d: %w", i, err)
			}
			after += len(buf)
		}
	}
	fmt.Fprintf(w, "Index data: %d -> %d bytes\n", before, after)
	return nil
}

func printDrawCall(w io.Writer, i int, dc geom.DrawCall) error {
	params, err := glbind.Params(dc)
	if err != nil {
		return err
	}
	kind := "arrays"
	if params.Indexed {
		kind = "elements"
		if d, ok := dc.(*geom.DrawElements); ok {
			kind += " " + d.Type.String()
		}
	}
	if params.Restart {
		kind += fmt.Sprintf(" restart=%d", params.RestartIndex)
	}
	fmt.Fprintf(w, "  %-3d %-24s %-8d %s\n", i, dc.Mode(), dc.Count(), kind)
	return nil
}

func cmdConfig(args []string, stdout io.Writer) error {
	cfg, _, err := setup(args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	path := config.OutputPath()
	if path == "" {
		path, err = cfg.Save()
	} else {
		err = cfg.SaveTo(path)
	}
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(stdout, "config written to %s\n", path)
	return nil
}

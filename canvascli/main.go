// Package canvascli implements the canvas command: routing the connectors of a scene file
// and replaying scripted pointer, wheel and keyboard input against it.
package canvascli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cdr.dev/slog"
	"github.com/spf13/pflag"

	"oss.terrastruct.com/util-go/go2"
	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/canvas/config"
	"oss.terrastruct.com/canvas/diagram"
	"oss.terrastruct.com/canvas/lib/log"
	"oss.terrastruct.com/canvas/lib/version"
)

// job is one run of a subcommand. In watch mode it reruns whenever one of its inputs
// changes.
type job struct {
	inputs []string
	run    func(context.Context) error
}

func Run(ctx context.Context, ms *xmain.State) (err error) {
	ctx = log.Stderr(ctx)

	configFlag := ms.Opts.String("CANVAS_CONFIG", "config", "c", "", "path to a YAML config file. CANVAS_* environment variables override its values and flags override both.")
	gridFlag, err := ms.Opts.Float64("", "grid", "g", 0, "grid size dragged shapes snap to. Overrides grid_size.")
	if err != nil {
		return err
	}
	snapFlag, err := ms.Opts.Bool("", "snap", "", true, "snap dragged shapes to the grid. Overrides snap.")
	if err != nil {
		return err
	}
	styleFlag := ms.Opts.String("", "style", "s", "", "style of connectors drawn during a replay: straight, orthogonal or curved. Overrides style.")
	watchFlag, err := ms.Opts.Bool("CANVAS_WATCH", "watch", "w", false, "watch the input files for changes and rerun.")
	if err != nil {
		return err
	}
	debugFlag, err := ms.Opts.Bool("DEBUG", "debug", "d", false, "print debug logs.")
	if err != nil {
		ms.Log.Warn.Printf("Invalid DEBUG flag value ignored")
		debugFlag = go2.Pointer(false)
	}
	timeoutFlag, err := ms.Opts.Int64("CANVAS_TIMEOUT", "timeout", "", 60, "the maximum number of seconds a run may take. Ignored with --watch.")
	if err != nil {
		return err
	}
	versionFlag, err := ms.Opts.Bool("", "version", "v", false, "get the version")
	if err != nil {
		return err
	}

	err = ms.Opts.Flags.Parse(ms.Opts.Args)
	if !errors.Is(err, pflag.ErrHelp) && err != nil {
		return xmain.UsageErrorf("failed to parse flags: %v", err)
	}
	if errors.Is(err, pflag.ErrHelp) {
		help(ms)
		return nil
	}

	if *debugFlag {
		ctx = log.Leveled(ctx, slog.LevelDebug)
		ms.Env.Setenv("DEBUG", "1")
	}

	args := ms.Opts.Flags.Args()
	if len(args) == 0 {
		if *versionFlag {
			fmt.Fprintln(ms.Stdout, version.Version)
			return nil
		}
		help(ms)
		return nil
	}

	configPath := *configFlag
	if configPath != "" {
		configPath = ms.AbsPath(configPath)
	}
	opts, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if ms.Opts.Flags.Changed("grid") {
		opts.GridSize = *gridFlag
	}
	if ms.Opts.Flags.Changed("snap") {
		opts.Snap = *snapFlag
	}
	if *styleFlag != "" {
		opts.Style = diagram.ConnectorStyle(*styleFlag)
	}
	err = opts.Validate()
	if err != nil {
		return xmain.UsageErrorf("%v", err)
	}

	var j *job
	switch args[0] {
	case "route":
		j, err = routeCmd(ms, opts.Canvas(), args[1:])
	case "replay":
		j, err = replayCmd(ms, opts.Canvas(), args[1:])
	case "config":
		j, err = configCmd(ms, opts, args[1:])
	case "version":
		if len(args) > 1 {
			return xmain.UsageErrorf("version subcommand accepts no arguments")
		}
		fmt.Fprintln(ms.Stdout, version.Version)
		return nil
	default:
		return xmain.UsageErrorf("unknown subcommand %q", args[0])
	}
	if err != nil {
		return err
	}
	if configPath != "" {
		j.inputs = append(j.inputs, configPath)
	}

	if *watchFlag {
		for _, in := range j.inputs {
			if in == "-" {
				return xmain.UsageErrorf("--watch cannot be used with stdin")
			}
		}
		return watch(ctx, ms, j)
	}

	ctx, cancel := log.WithTimeout(ctx, time.Duration(*timeoutFlag)*time.Second)
	defer cancel()
	return j.run(ctx)
}

func absPath(ms *xmain.State, p string) string {
	if p == "-" {
		return p
	}
	return ms.AbsPath(p)
}

// writeOutput leaves stdout open so that watch mode can write to it again.
func writeOutput(ms *xmain.State, p string, b []byte) error {
	if p == "-" {
		_, err := ms.Stdout.Write(b)
		return err
	}
	return ms.WritePath(p, b)
}

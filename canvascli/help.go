package canvascli

import (
	"fmt"
	"path/filepath"

	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/canvas/lib/version"
)

func help(ms *xmain.State) {
	fmt.Fprintf(ms.Stdout, `%[1]s %[2]s
Usage:
  %[1]s [--config=canvas.yml] route scene.yml [out.json]
  %[1]s [--config=canvas.yml] [--grid=10] [--snap] replay scene.yml script.yml [out.yml]
  %[1]s [--config=canvas.yml] config [out.yml]

route prints the resolved path of every connector in scene.yml as JSON.
replay drives a canvas over scene.yml with the events in script.yml and writes the
resulting scene.
config prints the options in effect after the config file, CANVAS_* variables and flags.

Outputs default to stdout. Use - to read an input from stdin.

Flags:
%[3]s

Subcommands:
  %[1]s route scene.yml [out.json] - Route every connector of a scene
  %[1]s replay scene.yml script.yml [out.yml] - Replay scripted input against a scene
  %[1]s config [out.yml] - Print the options in effect
  %[1]s version - Print the version
`, filepath.Base(ms.Name), version.Version, ms.Opts.Defaults())
}

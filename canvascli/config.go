package canvascli

import (
	"context"

	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/canvas/config"
)

// configCmd prints the options a run would use after the config file, CANVAS_*
// variables and flags are applied.
func configCmd(ms *xmain.State, opts *config.Options, args []string) (*job, error) {
	if len(args) > 1 {
		return nil, xmain.UsageErrorf("too many arguments passed to config")
	}
	outputPath := "-"
	if len(args) == 1 {
		outputPath = absPath(ms, args[0])
	}

	return &job{
		run: func(ctx context.Context) error {
			b, err := opts.Marshal()
			if err != nil {
				return err
			}
			return writeOutput(ms, outputPath, b)
		},
	}, nil
}

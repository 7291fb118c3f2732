package canvascli

import (
	"context"
	"errors"
	"fmt"

	"oss.terrastruct.com/util-go/xdefer"
	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/canvas/canvas"
	"oss.terrastruct.com/canvas/interaction"
	"oss.terrastruct.com/canvas/scene"
)

const fitPadding = 20

func replayCmd(ms *xmain.State, opts canvas.Options, args []string) (*job, error) {
	if len(args) < 2 {
		return nil, xmain.UsageErrorf("replay must be passed a scene file and a script file")
	}
	if len(args) > 3 {
		return nil, xmain.UsageErrorf("too many arguments passed to replay")
	}
	scenePath := absPath(ms, args[0])
	scriptPath := absPath(ms, args[1])
	if scenePath == "-" && scriptPath == "-" {
		return nil, xmain.UsageErrorf("only one of the scene and the script can be read from stdin")
	}
	outputPath := "-"
	if len(args) == 3 {
		outputPath = absPath(ms, args[2])
	}

	return &job{
		inputs: []string{scenePath, scriptPath},
		run: func(ctx context.Context) error {
			return replay(ctx, ms, opts, scenePath, scriptPath, outputPath)
		},
	}, nil
}

func replay(ctx context.Context, ms *xmain.State, opts canvas.Options, scenePath, scriptPath, outputPath string) (err error) {
	defer xdefer.Errorf(&err, "failed to replay %s", ms.HumanPath(scriptPath))

	s, err := readScene(ms, scenePath)
	if err != nil {
		return err
	}
	b, err := ms.ReadPath(scriptPath)
	if err != nil {
		return err
	}
	script, err := scene.ParseScript(b)
	if err != nil {
		return err
	}

	store := scene.NewStore(s)
	exec := &scene.Executor{}
	c := canvas.New(scenePath, store, exec, opts)
	if s.Viewport != nil {
		c.SetViewport(*s.Viewport)
	}
	c.SetSize(script.Width, script.Height)

	for i, st := range script.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := replayStep(ctx, c, exec, st); err != nil {
			ms.Log.Warn.Printf("step %d (%s): %v", i, st.Action, err)
		}
	}
	if mode := c.Mode(); mode != interaction.ModeIdle {
		ms.Log.Warn.Printf("script ended while %s: cancelling", mode)
		c.Cancel(ctx)
	}

	for _, name := range exec.Names() {
		ms.Log.Debug.Printf("executed %s", name)
	}

	out := store.Scene()
	vp := c.Viewport()
	out.Viewport = &vp
	b, err = out.Marshal()
	if err != nil {
		return err
	}
	err = writeOutput(ms, outputPath, b)
	if err != nil {
		return err
	}
	if outputPath != "-" {
		ms.Log.Success.Printf("replayed %d steps (%d commands) to %s", len(script.Steps), len(exec.Done), ms.HumanPath(outputPath))
	}
	return nil
}

func replayStep(ctx context.Context, c *canvas.Canvas, exec *scene.Executor, st scene.Step) error {
	ev := canvas.PointerEvent{
		X:      st.X,
		Y:      st.Y,
		Button: canvas.ParseButton(st.Button),
		Shift:  st.Shift,
		Ctrl:   st.Ctrl,
		Meta:   st.Meta,
	}
	switch st.Action {
	case scene.ActionDown:
		return c.PointerDown(ctx, ev)
	case scene.ActionMove:
		c.PointerMove(ctx, ev)
	case scene.ActionUp:
		c.PointerUp(ctx, ev)
	case scene.ActionLeave:
		c.PointerLeave(ctx, ev)
	case scene.ActionWheel:
		c.Wheel(ctx, canvas.WheelEvent{X: st.X, Y: st.Y, DeltaY: st.DeltaY})
	case scene.ActionKey:
		ok := c.KeyDown(ctx, canvas.KeyEvent{Key: st.Key, Shift: st.Shift, Ctrl: st.Ctrl, Meta: st.Meta})
		if !ok {
			return fmt.Errorf("key %q did nothing", st.Key)
		}
	case scene.ActionUndo:
		ok, err := exec.Undo(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("nothing to undo")
		}
	case scene.ActionFit:
		c.Fit(fitPadding)
	}
	return nil
}

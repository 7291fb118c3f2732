package scene

import (
	"context"

	"oss.terrastruct.com/canvas/diagram"
)

// Executor runs commands and remembers the ones that succeeded.
type Executor struct {
	Done []diagram.Command
}

func (e *Executor) ExecuteCommand(ctx context.Context, cmd diagram.Command) error {
	err := cmd.Execute(ctx)
	if err != nil {
		return err
	}
	e.Done = append(e.Done, cmd)
	return nil
}

// Undo reverts the most recent command. It reports false when there is nothing to undo.
func (e *Executor) Undo(ctx context.Context) (bool, error) {
	if len(e.Done) == 0 {
		return false, nil
	}
	cmd := e.Done[len(e.Done)-1]
	err := cmd.Undo(ctx)
	if err != nil {
		return true, err
	}
	e.Done = e.Done[:len(e.Done)-1]
	return true, nil
}

func (e *Executor) Names() []string {
	names := make([]string, 0, len(e.Done))
	for _, cmd := range e.Done {
		names = append(names, cmd.Name())
	}
	return names
}

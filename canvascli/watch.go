package canvascli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"oss.terrastruct.com/util-go/xmain"
)

type watcher struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	ms  *xmain.State
	job *job

	runCh chan struct{}
	fw    *fsnotify.Watcher

	errMu sync.Mutex
	err   error
}

// watch runs j once and then again whenever one of its inputs changes, until ctx is done.
// A failing run is logged and does not stop the watch.
func watch(ctx context.Context, ms *xmain.State, j *job) error {
	w, err := newWatcher(ctx, ms, j)
	if err != nil {
		return err
	}
	err = w.run()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newWatcher(ctx context.Context, ms *xmain.State, j *job) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	return &watcher{
		ctx:    ctx,
		cancel: cancel,
		ms:     ms,
		job:    j,
		runCh:  make(chan struct{}, 1),
		fw:     fw,
	}, nil
}

func (w *watcher) run() error {
	w.goFunc(w.watchLoop)
	w.goFunc(w.runLoop)

	w.wg.Wait()
	w.setErr(w.fw.Close())
	return w.err
}

func (w *watcher) setErr(err error) {
	w.errMu.Lock()
	if w.err == nil {
		w.err = err
	}
	w.errMu.Unlock()
}

func (w *watcher) goFunc(fn func(context.Context) error) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.cancel()

		err := fn(w.ctx)
		w.setErr(err)
	}()
}

// watchLoop batches bursts of file system events into one run. Editors commonly emit a
// chmod, a write and another chmod for a single save.
func (w *watcher) watchLoop(ctx context.Context) error {
	lastModified := make(map[string]time.Time)

	for _, in := range w.job.inputs {
		mt, err := w.ensureAddWatch(ctx, in)
		if err != nil {
			return err
		}
		lastModified[in] = mt
	}
	w.ms.Log.Info.Printf("watching %s...", w.humanInputs(w.job.inputs))
	w.requestRun()

	eatBurstTimer := time.NewTimer(0)
	<-eatBurstTimer.C
	pollTicker := time.NewTicker(time.Second * 10)
	defer pollTicker.Stop()

	changed := make(map[string]struct{})

	for {
		select {
		case <-pollTicker.C:
			// Events can be missed, e.g. when a watched file is replaced.
			missedChanges := false
			for _, watched := range w.fw.WatchList() {
				mt, err := w.ensureAddWatch(ctx, watched)
				if err != nil {
					return err
				}
				if mt2, ok := lastModified[watched]; !ok || !mt.Equal(mt2) {
					missedChanges = true
					lastModified[watched] = mt
				}
			}
			if missedChanges {
				w.requestRun()
			}
		case ev, ok := <-w.fw.Events:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			w.ms.Log.Debug.Printf("received file system event %v", ev)
			mt, err := w.ensureAddWatch(ctx, ev.Name)
			if err != nil {
				return err
			}
			if ev.Op == fsnotify.Chmod {
				if mt.Equal(lastModified[ev.Name]) {
					continue
				}
				lastModified[ev.Name] = mt
			}
			changed[ev.Name] = struct{}{}
			eatBurstTimer.Reset(time.Millisecond * 16)
		case <-eatBurstTimer.C:
			var changedList []string
			for k := range changed {
				changedList = append(changedList, k)
				delete(changed, k)
			}
			sort.Strings(changedList)
			w.ms.Log.Info.Printf("detected change in %s: rerunning...", w.humanInputs(changedList))
			w.requestRun()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			w.ms.Log.Error.Printf("fsnotify error: %v", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *watcher) humanInputs(paths []string) string {
	s := ""
	for i, p := range paths {
		if i > 0 {
			s += ", "
		}
		s += w.ms.HumanPath(p)
	}
	return s
}

func (w *watcher) requestRun() {
	select {
	case w.runCh <- struct{}{}:
	default:
	}
}

// ensureAddWatch retries until path can be watched. A file being replaced by an editor
// briefly does not exist.
func (w *watcher) ensureAddWatch(ctx context.Context, path string) (time.Time, error) {
	interval := time.Millisecond * 16
	tc := time.NewTimer(0)
	<-tc.C
	for {
		mt, err := w.addWatch(path)
		if err == nil {
			return mt, nil
		}
		if interval >= time.Second {
			w.ms.Log.Error.Printf("failed to watch %q: %v (retrying in %v)", w.ms.HumanPath(path), err, interval)
		}

		tc.Reset(interval)
		select {
		case <-tc.C:
			if interval < time.Second {
				interval = time.Second
			}
			if interval < time.Second*16 {
				interval *= 2
			}
		case <-ctx.Done():
			return time.Time{}, ctx.Err()
		}
	}
}

func (w *watcher) addWatch(path string) (time.Time, error) {
	err := w.fw.Add(path)
	if err != nil {
		return time.Time{}, err
	}
	d, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return d.ModTime(), nil
}

func (w *watcher) runLoop(ctx context.Context) error {
	first := true
	for {
		select {
		case <-w.runCh:
		case <-ctx.Done():
			return ctx.Err()
		}

		prefix := ""
		if !first {
			prefix = "re"
		}
		first = false

		start := time.Now()
		err := w.job.run(ctx)
		if errors.Is(err, context.Canceled) {
			return err
		}
		if err != nil {
			w.ms.Log.Error.Print(fmt.Errorf("failed to %srun: %w", prefix, err))
			continue
		}
		w.ms.Log.Debug.Printf("%sran in %s", prefix, time.Since(start))
	}
}

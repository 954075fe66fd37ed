package main

import (
	"context"
	"errors"
	"os"
	"time"

	"cdr.dev/slog"
	"github.com/fsnotify/fsnotify"

	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/mmd/lib/log"
)

type watcher struct {
	ctx    context.Context
	cancel context.CancelFunc

	ms        *xmain.State
	inputPath string
	opts      parseOpts

	fw      *fsnotify.Watcher
	parseCh chan struct{}
}

func newWatcher(ctx context.Context, ms *xmain.State, inputPath string, opts parseOpts) (*watcher, error) {
	ctx = log.Stderr(ctx)
	ctx, cancel := context.WithCancel(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		cancel()
		return nil, err
	}

	return &watcher{
		ctx:    ctx,
		cancel: cancel,

		ms:        ms,
		inputPath: inputPath,
		opts:      opts,

		fw:      fw,
		parseCh: make(chan struct{}, 1),
	}, nil
}

func (w *watcher) run() error {
	defer w.cancel()
	defer w.fw.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.watchLoop(w.ctx)
	}()

	err := w.parseLoop(w.ctx)
	w.cancel()
	if err2 := <-errCh; err == nil || errors.Is(err, context.Canceled) {
		err = err2
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (w *watcher) watchLoop(ctx context.Context) error {
	lastModified, err := w.ensureAddWatch(ctx)
	if err != nil {
		return err
	}
	w.requestParse()

	// Editors fire bursts of events per save (write then chmod, or a rename
	// dance for atomic saves). Waiting 16ms after the last event batches a
	// burst into one parse and avoids reading half-written files.
	eatBurstTimer := time.NewTimer(0)
	<-eatBurstTimer.C
	pollTicker := time.NewTicker(time.Second * 10)
	defer pollTicker.Stop()

	for {
		select {
		case <-pollTicker.C:
			// File notification APIs miss events; a slow poll catches up.
			mt, err := w.ensureAddWatch(ctx)
			if err != nil {
				return err
			}
			if !mt.Equal(lastModified) {
				lastModified = mt
				w.requestParse()
			}
		case ev, ok := <-w.fw.Events:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			log.Debug(ctx, "received file system event", slog.F("event", ev))
			mt, err := w.ensureAddWatch(ctx)
			if err != nil {
				return err
			}
			if ev.Op == fsnotify.Chmod && mt.Equal(lastModified) {
				// Benign Chmod.
				// See https://github.com/fsnotify/fsnotify/issues/15
				continue
			}
			lastModified = mt
			eatBurstTimer.Reset(time.Millisecond * 16)
		case <-eatBurstTimer.C:
			w.ms.Log.Info.Printf("detected change in %s: reparsing...", w.ms.HumanPath(w.inputPath))
			w.requestParse()
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

func (w *watcher) parseLoop(ctx context.Context) error {
	for {
		select {
		case <-w.parseCh:
		case <-ctx.Done():
			return ctx.Err()
		}

		err := process(ctx, w.ms, w.inputPath, w.opts)
		if err != nil {
			w.ms.Log.Error.Printf("failed to parse %s", w.ms.HumanPath(w.inputPath))
		}
	}
}

func (w *watcher) requestParse() {
	select {
	case w.parseCh <- struct{}{}:
	default:
	}
}

// ensureAddWatch retries until the input path is watchable again. Editors
// that save atomically replace the file, dropping the existing watch.
func (w *watcher) ensureAddWatch(ctx context.Context) (time.Time, error) {
	interval := time.Millisecond * 16
	tc := time.NewTimer(0)
	<-tc.C
	for {
		mt, err := w.addWatch()
		if err == nil {
			return mt, nil
		}
		if interval >= time.Second {
			w.ms.Log.Error.Printf("failed to watch %q: %v (retrying in %v)", w.ms.HumanPath(w.inputPath), err, interval)
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

func (w *watcher) addWatch() (time.Time, error) {
	err := w.fw.Add(w.inputPath)
	if err != nil {
		return time.Time{}, err
	}
	d, err := os.Stat(w.inputPath)
	if err != nil {
		return time.Time{}, err
	}
	return d.ModTime(), nil
}

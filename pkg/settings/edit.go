package settings

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jlrickert/cli-toolkit/toolkit"
	"github.com/jlrickert/tonsave/pkg/internal"
)

type EditOptions struct {
	// Editor is the command line to run; the file path is appended. Empty
	// means VISUAL, then EDITOR, then toolkit.DefaultEditor.
	Editor []string

	// Streams default to the runtime stream.
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Edit opens the current settings in an editor. Every save with changed
// content is decoded, applied to the live record and exported, so the
// settings file tracks the editor buffer while the editor is open. A save
// that fails to decode is reported on the error stream and leaves the
// record as it was.
func (s *Store) Edit(ctx context.Context, opts EditOptions) error {
	dir := filepath.Join(s.rt.GetTempDir(), "tonsave-edit-"+strconv.Itoa(os.Getpid()))
	_ = s.rt.Remove(dir, true)
	if err := s.rt.Mkdir(dir, 0o700, true); err != nil {
		return fmt.Errorf("create edit directory: %w", err)
	}
	defer func() { _ = s.rt.Remove(dir, true) }()

	path := filepath.Join(dir, FileName)
	data, err := Encode(s.record)
	if err != nil {
		return err
	}
	if err := s.rt.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write edit file: %w", err)
	}

	return s.editWithLiveSaves(ctx, path, opts, func(raw []byte) error {
		rec, err := Decode(raw)
		if err != nil {
			return fmt.Errorf("invalid settings: %w", err)
		}
		s.Replace(*rec)
		return s.Export(ctx)
	})
}

const (
	editPollInterval = 100 * time.Millisecond
	editSettleDelay  = 120 * time.Millisecond
)

func (s *Store) editorCommand(opts EditOptions) []string {
	if len(opts.Editor) > 0 {
		return opts.Editor
	}
	editor := strings.TrimSpace(s.rt.Get("VISUAL"))
	if editor == "" {
		editor = strings.TrimSpace(s.rt.Get("EDITOR"))
	}
	if editor == "" {
		editor = toolkit.DefaultEditor
	}
	return strings.Fields(editor)
}

func (s *Store) editWithLiveSaves(ctx context.Context, path string, opts EditOptions, onSave func([]byte) error) error {
	parts := s.editorCommand(opts)
	if len(parts) == 0 {
		return fmt.Errorf("no editor configured")
	}
	editorPath, err := internal.HostPath(s.rt, path)
	if err != nil {
		return fmt.Errorf("resolve edit path: %w", err)
	}

	stream := toolkit.OrDefaultStream(s.rt.Stream())
	in, out, errOut := stream.In, stream.Out, stream.Err
	if opts.In != nil {
		in = opts.In
	}
	if opts.Out != nil {
		out = opts.Out
	}
	if opts.Err != nil {
		errOut = opts.Err
	}
	if errOut == nil {
		errOut = io.Discard
	}

	cmd := exec.CommandContext(ctx, parts[0], append(parts[1:], editorPath)...)
	cmd.Stdin = in
	cmd.Stdout = out
	cmd.Stderr = errOut
	cmd.Env = s.rt.Environ()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch edit file: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()
	if err := watcher.Add(filepath.Dir(editorPath)); err != nil {
		return fmt.Errorf("watch edit directory: %w", err)
	}

	var (
		lastHash     [sha256.Size]byte
		attempted    bool
		applied      bool
		lastApplyErr error
	)
	if initial, err := s.rt.ReadFile(path); err == nil {
		lastHash = sha256.Sum256(initial)
	} else {
		return fmt.Errorf("read edit file: %w", err)
	}

	process := func() {
		raw, err := s.rt.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return
			}
			attempted = true
			lastApplyErr = fmt.Errorf("unable to read edited file: %w", err)
			_, _ = fmt.Fprintf(errOut, "Warning: %v\n", lastApplyErr)
			return
		}

		sum := sha256.Sum256(raw)
		if sum == lastHash {
			return
		}
		lastHash = sum
		attempted = true

		if err := onSave(raw); err != nil {
			lastApplyErr = err
			_, _ = fmt.Fprintf(errOut, "Warning: %v\n", err)
			return
		}
		applied = true
		s.logger.Info("applied edited settings", "path", s.paths.Active())
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("running editor %q: %w", parts[0], err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var (
		pending     bool
		pendingFrom time.Time
	)
	ticker := time.NewTicker(editPollInterval)
	defer ticker.Stop()

	events, watchErrs := watcher.Events, watcher.Errors

	for {
		select {
		case <-ticker.C:
			if pending && time.Since(pendingFrom) >= editSettleDelay {
				process()
				pending = false
			}
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				pending = true
				pendingFrom = time.Now()
			}
		case watchErr, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			_, _ = fmt.Fprintf(errOut, "Warning: settings file watcher error: %v\n", watchErr)
		case err := <-done:
			process()
			if err != nil {
				return fmt.Errorf("running editor %q: %w", parts[0], err)
			}
			if attempted && !applied && lastApplyErr != nil {
				return lastApplyErr
			}
			return nil
		case <-ctx.Done():
			<-done
			return ctx.Err()
		}
	}
}

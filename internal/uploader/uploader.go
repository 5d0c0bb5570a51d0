// Package uploader pushes exports dropped into a local folder to the blob store
// under the import prefix, where the ingest trigger picks them up.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"github.com/fsnotify/fsnotify"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type BlobPutter interface {
	Put(ctx context.Context, name string, r io.Reader) error
}

type Uploader struct {
	Dir    string
	Prefix string
	Blobs  BlobPutter
	Log    *slog.Logger
	// Quiet is how long the folder must stay unchanged before Watch uploads.
	Quiet time.Duration
}

type Summary struct {
	Uploaded int `json:"uploaded"`
	Failed   int `json:"failed"`
}

// UploadAll uploads every *.csv in Dir and removes the local copy. A file that
// uploaded but could not be removed still counts as uploaded.
func (u *Uploader) UploadAll(ctx context.Context) (Summary, error) {
	const op = "uploader.UploadAll"

	log := u.Log.With(slog.String("op", op), slog.String("dir", u.Dir))

	files, err := u.csvFiles()
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("watch folder does not exist")
		return Summary{}, nil
	}
	if err != nil {
		return Summary{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("found csv files", slog.Int("count", len(files)))

	var sum Summary
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		name := u.Prefix + filepath.Base(file)
		if err := u.upload(ctx, file, name); err != nil {
			sum.Failed++
			log.Error("upload failed", slog.String("file", file), slog.String("error", err.Error()))
			continue
		}
		sum.Uploaded++
		log.Info("uploaded", slog.String("file", filepath.Base(file)), slog.String("blob", name))

		if err := os.Remove(file); err != nil {
			log.Warn("uploaded but local copy remains", slog.String("file", file), slog.String("error", err.Error()))
		}
	}

	log.Info("upload complete", slog.Int("uploaded", sum.Uploaded), slog.Int("failed", sum.Failed))
	return sum, nil
}

func (u *Uploader) csvFiles() ([]string, error) {
	entries, err := os.ReadDir(u.Dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(u.Dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func (u *Uploader) upload(ctx context.Context, file, name string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	return u.Blobs.Put(ctx, name, f)
}

// Watch uploads what is already in Dir, then uploads again each time the folder
// has been quiet for Quiet after a csv file appeared or changed. It returns when
// ctx ends.
func (u *Uploader) Watch(ctx context.Context) error {
	const op = "uploader.Watch"

	if _, err := u.UploadAll(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := os.Stat(u.Dir); err != nil {
		u.Log.Warn("watch folder unavailable, not watching", slog.String("dir", u.Dir), slog.String("error", err.Error()))
		<-ctx.Done()
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer w.Close()

	if err := w.Add(u.Dir); err != nil {
		return fmt.Errorf("%s: watch %s: %w", op, u.Dir, err)
	}

	quiet := u.Quiet
	if quiet <= 0 {
		quiet = time.Second
	}
	timer := time.NewTimer(quiet)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), ".csv") {
				continue
			}
			timer.Reset(quiet)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			u.Log.Error("watcher error", slog.String("op", op), slog.String("error", err.Error()))
		case <-timer.C:
			if _, err := u.UploadAll(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("%s: %w", op, err)
			}
		}
	}
}

// Package blob is a filesystem-backed object store with slash-separated object
// names, standing in for the cloud bucket exports are dropped into.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var ErrNotExist = errors.New("blob: object does not exist")

const tempPrefix = ".upload-"

type Object struct {
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	ModTime     time.Time `json:"mod_time"`
}

type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	const op = "blob.NewLocal"

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Local{root: root}, nil
}

func (l *Local) Root() string {
	return l.root
}

// cleanName keeps object names inside the root.
func cleanName(name string) (string, error) {
	cleaned := strings.TrimPrefix(path.Clean("/"+name), "/")
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("blob: invalid object name %q", name)
	}
	return cleaned, nil
}

func (l *Local) path(name string) (string, string, error) {
	cleaned, err := cleanName(name)
	if err != nil {
		return "", "", err
	}
	return cleaned, filepath.Join(l.root, filepath.FromSlash(cleaned)), nil
}

// Put writes the object through a hidden temp file and renames it into place, so
// watchers never see a half-written object.
func (l *Local) Put(ctx context.Context, name string, r io.Reader) error {
	const op = "blob.Local.Put"

	if err := ctx.Err(); err != nil {
		return err
	}

	_, full, err := l.path(name)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: write %s: %w", op, name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Rename(tmp.Name(), full); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (l *Local) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	const op = "blob.Local.Open"

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, full, err := l.path(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %s: %w", op, name, ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return f, nil
}

func (l *Local) Delete(ctx context.Context, name string) error {
	const op = "blob.Local.Delete"

	if err := ctx.Err(); err != nil {
		return err
	}

	_, full, err := l.path(name)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = os.Remove(full)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %s: %w", op, name, ErrNotExist)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (l *Local) Stat(ctx context.Context, name string) (Object, error) {
	const op = "blob.Local.Stat"

	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	cleaned, full, err := l.path(name)
	if err != nil {
		return Object{}, fmt.Errorf("%s: %w", op, err)
	}

	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return Object{}, fmt.Errorf("%s: %s: %w", op, name, ErrNotExist)
	}
	if err != nil {
		return Object{}, fmt.Errorf("%s: %w", op, err)
	}

	return objectFromInfo(cleaned, info), nil
}

// List returns the objects under prefix, sorted by name. Temp files are hidden.
func (l *Local) List(ctx context.Context, prefix string) ([]Object, error) {
	const op = "blob.Local.List"

	var objects []Object
	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), tempPrefix) {
			return nil
		}

		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if !strings.HasPrefix(name, prefix) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, objectFromInfo(name, info))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	return objects, nil
}

func objectFromInfo(name string, info fs.FileInfo) Object {
	return Object{
		Name:        name,
		Size:        info.Size(),
		ContentType: ContentType(name),
		ModTime:     info.ModTime(),
	}
}

// ContentType derives the stored content type from the object extension.
func ContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".xz":
		return "application/x-xz"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

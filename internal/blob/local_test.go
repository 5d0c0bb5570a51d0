package blob

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Local {
	t.Helper()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	return l
}

func TestLocal_PutOpenDelete(t *testing.T) {
	ctx := context.Background()
	l := newStore(t)

	require.NoError(t, l.Put(ctx, "shift_manager_imports/a.csv", strings.NewReader("Loc,All Net Sales\n")))

	rc, err := l.Open(ctx, "shift_manager_imports/a.csv")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "Loc,All Net Sales\n", string(body))

	obj, err := l.Stat(ctx, "shift_manager_imports/a.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), obj.Size)
	assert.Equal(t, "text/csv", obj.ContentType)

	require.NoError(t, l.Delete(ctx, "shift_manager_imports/a.csv"))

	_, err = l.Open(ctx, "shift_manager_imports/a.csv")
	assert.ErrorIs(t, err, ErrNotExist)
	assert.ErrorIs(t, l.Delete(ctx, "shift_manager_imports/a.csv"), ErrNotExist)
}

func TestLocal_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	l := newStore(t)

	require.NoError(t, l.Put(ctx, "x.csv", strings.NewReader("one")))
	require.NoError(t, l.Put(ctx, "x.csv", strings.NewReader("two")))

	rc, err := l.Open(ctx, "x.csv")
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "two", string(body))
}

func TestLocal_NamesStayInsideRoot(t *testing.T) {
	ctx := context.Background()
	l := newStore(t)

	require.NoError(t, l.Put(ctx, "../../escape.csv", strings.NewReader("x")))

	_, err := os.Stat(filepath.Join(l.Root(), "escape.csv"))
	assert.NoError(t, err)

	assert.Error(t, l.Put(ctx, "/", strings.NewReader("x")))
}

func TestLocal_List(t *testing.T) {
	ctx := context.Background()
	l := newStore(t)

	for _, name := range []string{"shift_manager_imports/b.csv", "shift_manager_imports/a.csv", "archive/a.csv.xz"} {
		require.NoError(t, l.Put(ctx, name, strings.NewReader("x")))
	}
	require.NoError(t, os.WriteFile(filepath.Join(l.Root(), "shift_manager_imports", tempPrefix+"123"), []byte("x"), 0o644))

	objs, err := l.List(ctx, "shift_manager_imports/")
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "shift_manager_imports/a.csv", objs[0].Name)
	assert.Equal(t, "shift_manager_imports/b.csv", objs[1].Name)

	all, err := l.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLocal_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := newStore(t)

	assert.ErrorIs(t, l.Put(ctx, "a.csv", strings.NewReader("x")), context.Canceled)
	_, err := l.Open(ctx, "a.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv", ContentType("a/b.CSV"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ContentType("b.xlsx"))
	assert.Equal(t, "application/octet-stream", ContentType("README"))
}

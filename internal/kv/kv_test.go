package kv

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	file, err := NewFile(t.TempDir())
	require.NoError(t, err)
	lite, err := NewSQLite(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = lite.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"file":   file,
		"sqlite": lite,
		"s3":     newS3(newFakeObjects(), "darew", "state/"),
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Get(ctx, "darew_users")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, st.Put(ctx, "darew_users", []byte(`[{"id":"1"}]`)))
			got, err := st.Get(ctx, "darew_users")
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":"1"}]`, string(got))

			require.NoError(t, st.Put(ctx, "darew_users", []byte(`[]`)))
			got, err = st.Get(ctx, "darew_users")
			require.NoError(t, err)
			assert.JSONEq(t, `[]`, string(got))

			require.NoError(t, st.Put(ctx, "darew_logs", []byte(`null`)))
			keys, err := st.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"darew_logs", "darew_users"}, keys)

			require.NoError(t, st.Delete(ctx, "darew_users"))
			require.NoError(t, st.Delete(ctx, "darew_users"), "deleting an absent key")
			_, err = st.Get(ctx, "darew_users")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, st.Ping(ctx))
			assert.Equal(t, Driver(name), st.Driver())
		})
	}
}

func TestStoreRejectsInvalidKeys(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "..", "../etc/passwd", "a/b", "sp ace", ".hidden"} {
				err := st.Put(ctx, key, []byte(`1`))
				assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
			}
		})
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	val := []byte(`"a"`)
	require.NoError(t, m.Put(ctx, "k", val))
	val[1] = 'b'
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"a"`, string(got))
	got[1] = 'c'
	again, _ := m.Get(ctx, "k")
	assert.Equal(t, `"a"`, string(again))
}

func TestFileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	first, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, "darew_stats", []byte(`[{"label":"x","value":"1"}]`)))

	second, err := NewFile(dir)
	require.NoError(t, err)
	got, err := second.Get(ctx, "darew_stats")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"label":"x","value":"1"}]`, string(got))

	matches, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	assert.Empty(t, matches, "temporary files must be renamed away")
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "darew.db")
	first, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, "darew_services", []byte(`[{"id":"trading"}]`)))
	require.NoError(t, first.Close())

	second, err := NewSQLite(path)
	require.NoError(t, err)
	defer second.Close()
	got, err := second.Get(ctx, "darew_services")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"trading"}]`, string(got))
	assert.Equal(t, path, second.Path())
}

func TestConcurrentPuts(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					assert.NoError(t, st.Put(ctx, "darew_inquiries", []byte(`[]`)))
				}()
			}
			wg.Wait()
			got, err := st.Get(ctx, "darew_inquiries")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))
		})
	}
}

func TestCopy(t *testing.T) {
	ctx := context.Background()
	src := NewMemory()
	require.NoError(t, src.Put(ctx, "darew_users", []byte(`[]`)))
	require.NoError(t, src.Put(ctx, "darew_logs", []byte(`[{"id":"a"}]`)))
	dst, err := NewFile(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, dst.Put(ctx, "darew_logs", []byte(`[]`)))

	n, err := Copy(ctx, src, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	got, err := dst.Get(ctx, "darew_logs")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(got))
}

type failingStore struct{ *Memory }

func (failingStore) Put(context.Context, string, []byte) error { return errors.New("disk full") }

func TestCopyReportsWriteFailure(t *testing.T) {
	ctx := context.Background()
	src := NewMemory()
	require.NoError(t, src.Put(ctx, "darew_users", []byte(`[]`)))
	n, err := Copy(ctx, src, failingStore{NewMemory()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Zero(t, n)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, Config{Driver: DriverMemory})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, st.Driver())

	st, err = Open(ctx, Config{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DriverFile, st.Driver(), "empty driver selects file")

	st, err = Open(ctx, Config{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, st.Driver())
	_ = st.Close()

	_, err = Open(ctx, Config{Driver: DriverPostgres})
	assert.Error(t, err, "postgres without dsn")
	_, err = Open(ctx, Config{Driver: DriverS3})
	assert.Error(t, err, "s3 without bucket")
	_, err = Open(ctx, Config{Driver: "redis"})
	assert.Error(t, err)
}

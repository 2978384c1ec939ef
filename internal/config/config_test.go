package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stewart/pkg/actor"
)

func TestLoad_missingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ptero.yaml")
	data := []byte(`
glog:
  level: debug
  printConsole: false
runtime:
  throughput: 32
  poolSize: 4
  generations: false
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Glog.Level)
	require.False(t, cfg.Glog.PrintConsole)
	require.Equal(t, 100, cfg.Glog.File.MaxSize, "unset keys keep their defaults")
	require.Equal(t, Runtime{Throughput: 32, PoolSize: 4, Generations: false}, cfg.Runtime)
}

func TestLoad_invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ptero.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runtime: [1, 2"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestMarshal_loadsBack(t *testing.T) {
	want := Default()
	want.Runtime.PoolSize = 2
	data, err := want.Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ptero.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestOptions(t *testing.T) {
	cfg := Default()
	opts, pool, err := cfg.Options(zap.NewNop())
	require.NoError(t, err)
	require.Nil(t, pool)
	require.Len(t, opts, 3)

	cfg.Runtime.PoolSize = 2
	opts, pool, err = cfg.Options(zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, pool)
	defer pool.Release()
	require.Len(t, opts, 4)

	r := actor.New(opts...)
	require.Equal(t, 1, r.Len())
}

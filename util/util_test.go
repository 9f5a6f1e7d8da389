package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsScorePath(t *testing.T) {
	assert := assert.New(t)

	assert.True(IsScorePath("a.mid"))
	assert.True(IsScorePath("dir/b.MIDI"))
	assert.True(IsScorePath("c.musicxml"))
	assert.True(IsScorePath("d.xml"))
	assert.False(IsScorePath("e.mxl"))
	assert.False(IsScorePath("mid"))
}

func TestGatherAllScorePaths(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	for _, name := range []string{"b.mid", "a.xml", "nested/c.midi", "readme.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	paths, err := GatherAllScorePaths(dir, 0)
	assert.NoError(err)
	assert.Equal([]string{
		filepath.Join(dir, "a.xml"),
		filepath.Join(dir, "b.mid"),
		filepath.Join(dir, "nested/c.midi"),
	}, paths)

	paths, err = GatherAllScorePaths(dir, 2)
	assert.NoError(err)
	assert.Len(paths, 2)

	_, err = GatherAllScorePaths(filepath.Join(dir, "missing"), 0)
	assert.Error(err)
}

func TestGenerics(t *testing.T) {
	assert := assert.New(t)

	m := map[uint32]string{3: "c", 1: "a", 2: "b"}
	assert.ElementsMatch([]uint32{1, 2, 3}, GetKeys(m))
	assert.Equal([]uint32{1, 2, 3}, GetSortedKeys(m))
	assert.Equal(uint8(3), Min(uint8(3), uint8(7)))
	assert.Equal(uint64(6), Sum([]int{1, 2, 3}))
}

package imagestore

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_SaveLoad(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := New()

	src := image.NewRGBA(image.Rect(0, 0, 8, 4))
	src.SetRGBA(1, 1, color.RGBA{R: 255, A: 255})

	testCases := []struct {
		name  string
		file  string
		exact bool
	}{
		{name: "png", file: "out.png", exact: true},
		{name: "jpeg", file: "out.jpg"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			location := filepath.Join(dir, tc.file)
			require.NoError(t, store.Save(ctx, location, src))
			loaded, err := store.Load(ctx, location)
			require.NoError(t, err)
			assert.Equal(t, src.Bounds(), loaded.Bounds())
			if tc.exact {
				r, g, b, a := loaded.At(1, 1).RGBA()
				assert.EqualValues(t, []uint32{0xffff, 0, 0, 0xffff}, []uint32{r, g, b, a})
			}
		})
	}
}

func TestService_LoadErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := New()

	_, err := store.Load(ctx, filepath.Join(dir, "missing.png"))
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = store.Load(ctx, "")
	assert.True(t, errors.Is(err, ErrNotFound))

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err = store.Load(ctx, garbage)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestService_SaveNil(t *testing.T) {
	assert.Error(t, New().Save(context.Background(), filepath.Join(t.TempDir(), "x.png"), nil))
}

package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolFromBufferViewLifecycle(t *testing.T) {
	buf := make([]byte, 64)
	pool := NewFromBuffer(1, buf)

	v, err := NewView(1, pool, FormatARGB8888, 0, 4, 4, 16)
	require.NoError(t, err)
	assert.Equal(t, 64, len(v.Bytes()))

	destroyedNow, err := pool.RequestDestroy()
	require.NoError(t, err)
	assert.False(t, destroyedNow, "pool still referenced by a view")

	destroyedNow, err = v.Destroy()
	require.NoError(t, err)
	assert.True(t, destroyedNow, "last view release should destroy the pool")
}

func TestPoolDestroyWithNoViewsIsImmediate(t *testing.T) {
	pool := NewFromBuffer(1, make([]byte, 16))
	destroyedNow, err := pool.RequestDestroy()
	require.NoError(t, err)
	assert.True(t, destroyedNow)
}

func TestNewViewRejectsOutOfBounds(t *testing.T) {
	pool := NewFromBuffer(1, make([]byte, 16))
	_, err := NewView(1, pool, FormatARGB8888, 0, 4, 4, 8) // needs 32 bytes
	require.Error(t, err)
}

func TestNewViewRejectsInvalidFormat(t *testing.T) {
	pool := NewFromBuffer(1, make([]byte, 64))
	_, err := NewView(1, pool, PixelFormat(99), 0, 4, 4, 16)
	require.Error(t, err)
}

func TestImportDmabufValidation(t *testing.T) {
	var attrs DmabufAttrs
	attrs.Width, attrs.Height = 4, 4
	attrs.Format = 0x34325241 // ARGB8888

	_, err := ImportDmabuf(1, attrs)
	require.Error(t, err, "expected incomplete planes error before any plane is set")

	require.NoError(t, attrs.SetPlane(0, -1, 0, 16))
	img, err := ImportDmabuf(1, attrs)
	require.NoError(t, err)
	assert.False(t, img.FromEGL)

	err = attrs.SetPlane(0, -1, 0, 16)
	require.Error(t, err, "expected plane-already-set error")

	err = attrs.SetPlane(maxPlanes, -1, 0, 16)
	require.Error(t, err, "expected plane-index-bounds error")
}

func TestImportDmabufRejectsInvalidFormatAndDimensions(t *testing.T) {
	var attrs DmabufAttrs
	attrs.Width, attrs.Height = 0, 4
	attrs.Format = 0x34325241
	_, err := ImportDmabuf(1, attrs)
	require.Error(t, err)

	attrs.Width = 4
	attrs.Format = 0
	_, err = ImportDmabuf(1, attrs)
	require.Error(t, err)
}

func TestNewEGLImageValidation(t *testing.T) {
	_, err := NewEGLImage(1, EGLAttrs{GEMName: 5, Width: 4, Height: 4, Format: 0x34325241})
	require.NoError(t, err)

	_, err = NewEGLImage(1, EGLAttrs{GEMName: 5, Width: 0, Height: 4, Format: 0x34325241})
	require.Error(t, err)
}

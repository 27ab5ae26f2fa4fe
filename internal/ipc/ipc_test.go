package ipc

import (
	"bufio"
	"image"
	"net"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlcore/compositor/event"
	"github.com/wlcore/compositor/exhibitor"
)

type fakeSnapshotter struct{ out []exhibitor.OutputSnapshot }

func (f fakeSnapshotter) Snapshot() []exhibitor.OutputSnapshot { return f.out }

type fakeScreenshotter struct {
	img image.Image
	ok  bool
}

func (f fakeScreenshotter) TakeScreenshotBuffer(event.DisplayID) (image.Image, bool) { return f.img, f.ok }
func (f fakeScreenshotter) RequestScreenshot(event.DisplayID)                        {}

func dial(t *testing.T, addr string) net.Conn {
	t.Helper()
	conn, err := net.Dial("unix", addr)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestInfoVerbDumpsOutputSnapshot(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "ipc.sock")
	snap := fakeSnapshotter{out: []exhibitor.OutputSnapshot{{ID: 1, Area: "(0,0)-(1920,1080)"}}}
	srv, err := Listen(sock, snap, fakeScreenshotter{}, zerolog.Nop())
	require.NoError(t, err)
	defer srv.Close()
	go srv.Serve()

	conn := dial(t, sock)
	_, err = conn.Write([]byte("info\n"))
	require.NoError(t, err)

	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, "OutputSnapshot")
}

func TestScreenshotVerbReportsMissingBuffer(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "ipc.sock")
	srv, err := Listen(sock, fakeSnapshotter{}, fakeScreenshotter{ok: false}, zerolog.Nop())
	require.NoError(t, err)
	defer srv.Close()
	go srv.Serve()

	conn := dial(t, sock)
	_, err = conn.Write([]byte("screenshot 1 /tmp/out.png\n"))
	require.NoError(t, err)

	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, "error")
}

func TestUnknownVerbReportsError(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "ipc.sock")
	srv, err := Listen(sock, fakeSnapshotter{}, fakeScreenshotter{}, zerolog.Nop())
	require.NoError(t, err)
	defer srv.Close()
	go srv.Serve()

	conn := dial(t, sock)
	_, err = conn.Write([]byte("bogus\n"))
	require.NoError(t, err)

	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, "unknown verb")
}

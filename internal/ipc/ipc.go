// Package ipc serves the introspection protocol spec §4.10 describes: a
// Unix domain socket, one connection per request, a single line of verb
// plus arguments in, a response written back before the connection
// closes. Two verbs are recognised: "info" and "screenshot".
//
// Grounded on original_source/perceptia/perceptiactl/info.rs (device/state
// dump, here the frame tree and output list) and screenshot.rs (grab the
// compositor's current framebuffer and save it to a path), reshaped from
// perceptiactl's own Wayland-client round trip into a same-process
// introspection call since this core already holds the state perceptiactl
// had to ask the server for. Dump formatting uses
// github.com/davecgh/go-spew, carried from the pack's go.mod.
package ipc

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"

	"github.com/wlcore/compositor/event"
	"github.com/wlcore/compositor/exhibitor"
)

// Snapshotter is the subset of *exhibitor.Exhibitor the "info" verb needs.
type Snapshotter interface {
	Snapshot() []exhibitor.OutputSnapshot
}

// Screenshotter is the subset of *coordinator.Coordinator the "screenshot"
// verb needs.
type Screenshotter interface {
	TakeScreenshotBuffer(display event.DisplayID) (image.Image, bool)
	RequestScreenshot(display event.DisplayID)
}

// Server listens on a Unix socket and answers "info"/"screenshot" requests.
type Server struct {
	ln   net.Listener
	snap Snapshotter
	shot Screenshotter
	log  zerolog.Logger
}

// Listen binds the introspection socket at path, removing any stale
// socket file left behind by an unclean shutdown.
func Listen(path string, snap Snapshotter, shot Screenshotter, log zerolog.Logger) (*Server, error) {
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("ipc: listen %s: %w", path, err)
	}
	return &Server{ln: ln, snap: snap, shot: shot, log: log.With().Str("component", "ipc").Logger()}, nil
}

// Addr returns the socket's filesystem path.
func (s *Server) Addr() string { return s.ln.Addr().String() }

// Close closes the listener.
func (s *Server) Close() error { return s.ln.Close() }

// Serve accepts connections until the listener is closed. Run it in its
// own goroutine.
func (s *Server) Serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		fmt.Fprintln(conn, "error: empty request")
		return
	}

	switch fields[0] {
	case "info":
		s.handleInfo(conn)
	case "screenshot":
		s.handleScreenshot(conn, fields[1:])
	default:
		fmt.Fprintf(conn, "error: unknown verb %q\n", fields[0])
	}
}

func (s *Server) handleInfo(conn net.Conn) {
	snapshot := s.snap.Snapshot()
	spew.Fdump(conn, snapshot)
}

func (s *Server) handleScreenshot(conn net.Conn, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(conn, "error: usage: screenshot <display-id> <path>")
		return
	}
	raw, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(conn, "error: bad display id %q: %v\n", args[0], err)
		return
	}
	display := event.DisplayID(raw)
	path := args[1]

	img, ok := s.shot.TakeScreenshotBuffer(display)
	if !ok {
		s.shot.RequestScreenshot(display)
		fmt.Fprintln(conn, "error: no screenshot buffer available yet, retry")
		return
	}

	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(conn, "error: create %s: %v\n", path, err)
		return
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		fmt.Fprintf(conn, "error: encode %s: %v\n", path, err)
		return
	}
	fmt.Fprintf(conn, "ok: wrote %s\n", path)
}

// compositorctl is the companion CLI for the introspection socket
// internal/ipc serves, grounded on
// original_source/perceptia/perceptiactl's two subcommands ("info",
// "screenshot") — reshaped from perceptiactl's own Wayland client round
// trip into a Unix-socket request, since this core already exposes the
// state directly rather than through a second protocol connection.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wlcore/compositor/internal/xdgdirs"
)

func main() {
	var sockPath string

	root := &cobra.Command{
		Use:   "compositorctl",
		Short: "introspect a running compositord",
	}
	root.PersistentFlags().StringVar(&sockPath, "socket", "", "path to compositord's introspection socket (default: resolved under the XDG runtime root)")

	root.AddCommand(newInfoCmd(&sockPath))
	root.AddCommand(newScreenshotCmd(&sockPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newInfoCmd(sockPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "dump the current output and frame-tree state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return roundTrip(resolveSocket(*sockPath), "info\n", os.Stdout)
		},
	}
}

func newScreenshotCmd(sockPath *string) *cobra.Command {
	var display uint64
	cmd := &cobra.Command{
		Use:   "screenshot <path>",
		Short: "save a PNG screenshot of one output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := fmt.Sprintf("screenshot %d %s\n", display, args[0])
			return roundTrip(resolveSocket(*sockPath), req, os.Stdout)
		},
	}
	cmd.Flags().Uint64Var(&display, "display", 1, "display id to capture")
	return cmd
}

// resolveSocket falls back to compositord's stable current-runtime-root
// symlink when --socket is not given. Recomputing RuntimeRoot from this
// process's own start time would not work: that path is stamped with
// compositord's start time, not compositorctl's, so the two processes
// would almost never agree on it.
func resolveSocket(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(xdgdirs.CurrentLink(), "ipc.sock")
}

func roundTrip(sockPath, request string, out *os.File) error {
	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		return fmt.Errorf("compositorctl: dial %s: %w", sockPath, err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(request)); err != nil {
		return fmt.Errorf("compositorctl: write request: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		fmt.Fprintln(out, scanner.Text())
	}
	return scanner.Err()
}

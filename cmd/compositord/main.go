package main

import (
	"fmt"
	"os"

	compositord "github.com/wlcore/compositor/cmd/compositord/internal/app"
)

func main() {
	if err := compositord.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

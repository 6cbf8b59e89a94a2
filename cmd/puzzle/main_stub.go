//go:build !ebiten

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "The GUI build of mad-puzzle requires the ebiten build tag.")
	fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./cmd/puzzle` or build with `-tags ebiten`.")
	fmt.Fprintln(os.Stderr, "For a headless board use ./cmd/puzzlectl or ./cmd/puzzled.")
	os.Exit(2)
}

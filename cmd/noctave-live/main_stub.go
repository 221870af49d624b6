//go:build !portaudio

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "noctave-live was built without an audio backend; rebuild with -tags portaudio")
	os.Exit(1)
}

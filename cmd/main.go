package main

import (
	"fmt"
	"os"

	"github.com/ostafen/giflet/cmd/cmd"
	"github.com/ostafen/giflet/internal/env"
)

func main() {
	PrintLogo()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func PrintLogo() {
	fmt.Println("        _  __ _      _   ")
	fmt.Println("   __ _(_)/ _| | ___| |_ ")
	fmt.Println("  / _` | | |_| |/ _ \\ __|")
	fmt.Println(" | (_| | |  _| |  __/ |_ ")
	fmt.Println("  \\__, |_|_| |_|\\___|\\__|")
	fmt.Println("  |___/                  ")
	fmt.Println()
	fmt.Println("GIF decoding and playback tool")
	fmt.Println()
	fmt.Printf("Version:   %s\n", env.Version)
	fmt.Printf("Commit:    %s\n", env.CommitHash)
	fmt.Printf("Build Time: %s\n", env.BuildTime)
	fmt.Println(" ")
}

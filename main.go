// Package main is the entry point for the puckstats CLI tool, which loads
// raw hockey play-by-play payloads and reconciles them into per-player
// game and season statistics.
package main

import "github.com/pcaron/go-puck-stats/cmd"

func main() {
	cmd.Execute()
}

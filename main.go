package main

import (
	"github.com/dyike/CoinPulse/internal/cli"
)

func main() {
	cli.Run()
}

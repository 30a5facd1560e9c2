package main

import (
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/cmd"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/logging"
)

func main() {
	// Initialize logging
	logging.Init()
	cmd.Execute()
}

package main

import (
	"github.com/DoyleJ11/arena-probe/internal/config"
	"github.com/DoyleJ11/arena-probe/internal/probe"
	"github.com/DoyleJ11/arena-probe/pkg/types"
)

// Dockerized backend on :5000, timed events, 5s silence ends the run.
func main() {
	probe.Main(config.VariantDocker, types.DockerRoster(), "WebSocket connection test - Docker backend")
}

package main

import (
	"github.com/DoyleJ11/arena-probe/internal/config"
	"github.com/DoyleJ11/arena-probe/internal/probe"
	"github.com/DoyleJ11/arena-probe/pkg/types"
)

// Plain connection check: prints every line until the server closes.
func main() {
	probe.Main(config.VariantBasic, types.BasicRoster(), "RPG-Arena WebSocket client test")
}

package main

import (
	"github.com/DoyleJ11/arena-probe/internal/config"
	"github.com/DoyleJ11/arena-probe/internal/probe"
	"github.com/DoyleJ11/arena-probe/pkg/types"
)

// Full combat flow: stops on the end-of-combat line or after 30s of silence.
func main() {
	probe.Main(config.VariantFlow, types.FlowRoster(), "RPG ARENA - combat flow test")
}

package main

import (
	"fmt"

	"github.com/named-data/certbundle/config"
	"github.com/named-data/certbundle/engine"
	"github.com/named-data/certbundle/face"
)

// dialEngine opens the face named by cfg.Face and wraps it in a running
// Engine, matching the teacher's pattern of a single long-lived face per
// daemon process (std/engine/basic.Engine construction in each
// tools/*.go entry point).
func dialEngine(cfg *config.Config) (*engine.Engine, error) {
	var f face.Face
	switch cfg.Face.Network {
	case "unix", "tcp":
		f = face.NewStreamFace(cfg.Face.Network, cfg.Face.Addr, cfg.Face.Network == "unix")
	default:
		return nil, fmt.Errorf("unsupported face network: %q", cfg.Face.Network)
	}

	eng := engine.NewEngine(f, engine.RealTimer{})
	if err := eng.Start(); err != nil {
		return nil, fmt.Errorf("failed to open face: %w", err)
	}
	return eng, nil
}

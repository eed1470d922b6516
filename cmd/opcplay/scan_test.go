package main

import (
	"testing"
	"time"

	"github.com/muurk/opcplay/internal/config"
	"github.com/muurk/opcplay/internal/discovery"
)

func TestSaveServers(t *testing.T) {
	seen := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	registry := config.NewRegistry()
	registry.SetTarget("porch", &config.Target{
		Server:       "10.0.0.1",
		Port:         7890,
		Transport:    "tcp",
		PixelOrder:   "RGB",
		StrandLength: 30,
	})

	saveServers(registry, []*discovery.Server{
		{Instance: "porch", IP: "10.0.0.5", Port: 7891, DiscoveredAt: seen},
		{Instance: "tree", IP: "10.0.0.6", Port: 7890, DiscoveredAt: seen},
	})

	porch := registry.GetTarget("porch")
	if porch.Server != "10.0.0.5" || porch.Port != 7891 {
		t.Errorf("porch address = %s:%d, want 10.0.0.5:7891", porch.Server, porch.Port)
	}
	if porch.PixelOrder != "RGB" || porch.StrandLength != 30 {
		t.Errorf("porch lost its strand settings: %+v", porch)
	}

	tree := registry.GetTarget("tree")
	if tree == nil {
		t.Fatal("tree was not saved")
	}
	if tree.Transport != "tcp" || !tree.LastSeen.Equal(seen) {
		t.Errorf("tree = %+v", tree)
	}
	if registry.DefaultTarget != "porch" {
		t.Errorf("default target = %q, want porch", registry.DefaultTarget)
	}
}

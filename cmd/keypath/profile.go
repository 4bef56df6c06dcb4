package main

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/pkg/profile"
)

var profileMode = map[string]func(*profile.Profile){
	"block":     profile.BlockProfile,
	"cpu":       profile.CPUProfile,
	"clock":     profile.ClockProfile,
	"goroutine": profile.GoroutineProfile,
	"mem":       profile.MemProfile,
	"allocs":    profile.MemProfileAllocs,
	"heap":      profile.MemProfileHeap,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

func profileModes() []string {
	return slices.Sorted(maps.Keys(profileMode))
}

type stopper interface{ Stop() }

type noProfile struct{}

func (noProfile) Stop() {}

// startProfile starts the named profile writing into dir.
// An empty mode starts nothing.
func startProfile(ctx context.Context, logger *slog.Logger, mode, dir string) stopper {
	fn, ok := profileMode[mode]
	if !ok {
		return noProfile{}
	}
	logger.DebugContext(ctx, "profile start",
		slog.String("mode", mode),
		slog.String("dir", dir),
	)
	return profile.Start(fn, profile.ProfilePath(dir), profile.Quiet, profile.NoShutdownHook)
}

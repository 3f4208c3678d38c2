// Package frame runs one art refresh: wake the TV, check it can show art, pick an
// image and put it on screen.
package frame

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/cgddrd/samsung-frame-art/config"
	"github.com/cgddrd/samsung-frame-art/pkg/artwork"
	"github.com/cgddrd/samsung-frame-art/pkg/pool"
	"github.com/cgddrd/samsung-frame-art/pkg/registry"
	"github.com/cgddrd/samsung-frame-art/pkg/tv"
	"github.com/cgddrd/samsung-frame-art/util/log"
)

// PoolSource yields the directory a run draws candidates from.
type PoolSource interface {
	Acquire(ctx context.Context) (string, pool.Strategy)
}

// Report describes what a run did.
type Report struct {
	Outcome  Outcome
	Strategy pool.Strategy
	PoolDir  string
	Image    string
	Dark     bool
	Matte    string
	RemoteID string
	Uploaded bool
	Shown    bool

	// Diagnostic holds the reachability failure of a debug run.
	Diagnostic error
}

// Runner sequences a single refresh against one TV.
type Runner struct {
	cfg   config.Config
	tv    tv.ArtTV
	pool  PoolSource
	rand  pool.Rand
	mac   net.HardwareAddr
	wake  func(ctx context.Context, mac net.HardwareAddr) error
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a Runner. cfg must already be validated.
func NewRunner(cfg config.Config, t tv.ArtTV, src PoolSource, rng pool.Rand) (*Runner, error) {
	mac, err := cfg.HardwareAddr()
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:  cfg,
		tv:   t,
		pool: src,
		rand: rng,
		mac:  mac,
		wake: func(ctx context.Context, mac net.HardwareAddr) error {
			return tv.WakeOnLAN(ctx, mac, tv.DefaultBroadcast)
		},
		sleep: sleepContext,
	}, nil
}

// Run performs the refresh. Informational exits (debug check, unsupported TV,
// empty pool) come back as an Outcome with a nil error; everything else that
// stops the run is returned as an error.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	var rep Report

	if !r.cfg.Debug {
		rep.PoolDir, rep.Strategy = r.pool.Acquire(ctx)
		log.Debugf("Candidate pool: %s (%s)", rep.PoolDir, rep.Strategy)
	}

	log.Println("Waking up TV.")
	if err := r.wake(ctx, r.mac); err != nil {
		log.Printf("Failed to send wake-on-LAN packet: %v", err)
	}

	log.Printf("Waiting %s...", r.cfg.SettleDelay)
	if err := r.sleep(ctx, r.cfg.SettleDelay); err != nil {
		return rep, err
	}

	if r.cfg.Debug {
		return r.checkReachable(ctx), nil
	}

	info, err := r.tv.DeviceInfo(ctx)
	if err != nil {
		return rep, err
	}
	log.Printf("Connected to %s (%s)", info.Name, info.ModelName)
	log.Debugf("Device info: %v", info.Raw)
	r.logCapabilities(ctx)

	supported, err := r.tv.ArtModeSupported(ctx)
	if err != nil {
		return rep, err
	}
	if !supported {
		log.Println("Your TV does not support art mode.")
		rep.Outcome = OutcomeArtModeUnsupported
		return rep, nil
	}

	return r.display(ctx, rep)
}

// checkReachable is the whole of a debug run.
func (r *Runner) checkReachable(ctx context.Context) Report {
	log.Println("Checking if the TV can be reached.")
	info, err := r.tv.DeviceInfo(ctx)
	if err != nil {
		log.Printf("Could not reach the TV: %v", err)
		return Report{Outcome: OutcomeDebugUnreachable, Diagnostic: err}
	}
	log.Printf("TV %s (%s) could be reached.", info.Name, info.ModelName)
	return Report{Outcome: OutcomeDebugReachable}
}

// logCapabilities prints the matte and filter lists. They are informational only.
func (r *Runner) logCapabilities(ctx context.Context) {
	if mattes, err := r.tv.MatteList(ctx); err != nil {
		log.Debugf("Matte list unavailable: %v", err)
	} else {
		log.Printf("Matte styles: %v", mattes)
	}
	if filters, err := r.tv.FilterList(ctx); err != nil {
		log.Debugf("Photo filter list unavailable: %v", err)
	} else {
		log.Printf("Photo filters: %v", filters)
	}
}

func (r *Runner) display(ctx context.Context, rep Report) (Report, error) {
	if current, err := r.tv.CurrentArtwork(ctx); err != nil {
		log.Debugf("Current artwork unavailable: %v", err)
	} else {
		log.Printf("Current artwork: %v", current)
	}

	reg, err := registry.Load(r.cfg.UploadListPath)
	if err != nil {
		return rep, err
	}

	candidates, err := pool.ScanCandidates(rep.PoolDir)
	if err != nil {
		return rep, fmt.Errorf("scanning %s: %w", rep.PoolDir, err)
	}

	log.Println("Choosing random image.")
	path, ok := pool.Pick(candidates, r.rand)
	if !ok {
		log.Printf("No images found in %s, nothing to display.", rep.PoolDir)
		rep.Outcome = OutcomeNoCandidates
		return rep, nil
	}
	rep.Image = path

	class, err := artwork.Classify(path)
	if err != nil {
		return rep, err
	}
	rep.Dark = class.Dark
	rep.Matte = artwork.SelectMatte(class.Dark)
	log.Printf("Image %s is %s (mean %.1f). Setting matte to %s.", path, class, class.Mean, rep.Matte)

	tracker := registry.NewTracker(reg, r.tv)
	rep.RemoteID, rep.Uploaded, err = tracker.Resolve(ctx, path, rep.Matte)
	if err != nil {
		return rep, err
	}

	rep.Shown, err = r.displayPossible(ctx)
	if err != nil {
		return rep, err
	}

	if err := r.tv.Select(ctx, rep.RemoteID, rep.Shown); err != nil {
		return rep, fmt.Errorf("selecting %s: %w", rep.RemoteID, err)
	}
	if rep.Shown {
		log.Printf("Showing %s on the TV.", rep.RemoteID)
	} else {
		log.Printf("Selected %s; it will show next time art mode is on.", rep.RemoteID)
	}

	rep.Outcome = OutcomeDisplayed
	return rep, nil
}

// displayPossible asks the TV, right now, whether it is on and in art mode.
func (r *Runner) displayPossible(ctx context.Context) (bool, error) {
	if !r.tv.IsOn(ctx) {
		return false, nil
	}
	active, err := r.tv.ArtModeActive(ctx)
	if err != nil {
		return false, fmt.Errorf("querying art mode status: %w", err)
	}
	return active, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

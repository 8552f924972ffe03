package chromedp_collector

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/repository"
)

const kbps = 1024.0 / 8 // bytes per second

// NetworkProfile describes an emulated connection.
type NetworkProfile struct {
	LatencyMillis float64
	Download      float64 // bytes per second
	Upload        float64 // bytes per second
}

var throttlingProfiles = map[string]NetworkProfile{
	entity.ThrottleSlow3G:    {LatencyMillis: 400, Download: 500 * kbps, Upload: 500 * kbps},
	entity.ThrottleFast3G:    {LatencyMillis: 150, Download: 1.5 * 1024 * kbps, Upload: 750 * kbps},
	entity.ThrottleRegular4G: {LatencyMillis: 100, Download: 4 * 1024 * kbps, Upload: 2 * 1024 * kbps},
}

// Profile returns the emulated connection of a preset. ok is false for
// "none" and the empty string, which disable throttling.
func Profile(preset string) (NetworkProfile, bool, error) {
	if preset == "" || preset == entity.ThrottleNone {
		return NetworkProfile{}, false, nil
	}
	p, found := throttlingProfiles[preset]
	if !found {
		return NetworkProfile{}, false, fmt.Errorf("%w: %q", repository.ErrUnknownThrottling, preset)
	}
	return p, true, nil
}

func throttleAction(preset string) (chromedp.Action, error) {
	p, enabled, err := Profile(preset)
	if err != nil {
		return nil, err
	}
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if !enabled {
			return nil
		}
		return network.EmulateNetworkConditions(false, p.LatencyMillis, p.Download, p.Upload).Do(ctx)
	}), nil
}

package redis

import (
	"fmt"

	"github.com/user/perf-insights/pkg/utils"
)

const (
	keyPrefix     = "perf:"
	settingsKey   = keyPrefix + "settings"
	collectQueue  = keyPrefix + "collect:queue"
	snapshotSpace = keyPrefix + "snapshot:"
	reportSpace   = keyPrefix + "report:"
	pendingSpace  = keyPrefix + "pending:"
	attemptsSpace = keyPrefix + "attempts:"
)

// sessionKey hashes caller-supplied session keys so arbitrary input, URLs
// included, maps onto a bounded key space.
func sessionKey(space, session string) string {
	return fmt.Sprintf("%s%s", space, utils.HashURL(session))
}

package chromedp_collector

import (
	"math/rand/v2"
	"sync"
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36",
}

// userAgents hands out a random desktop user agent per collection.
type userAgents struct {
	mu   sync.Mutex
	list []string
	rng  *rand.Rand
}

func newUserAgents(list []string, seed uint64) *userAgents {
	if len(list) == 0 {
		list = defaultUserAgents
	}
	return &userAgents{list: list, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (u *userAgents) next() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.list[u.rng.IntN(len(u.list))]
}

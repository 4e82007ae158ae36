package snapshot

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// UserFetcher is the one REST call the cache needs:
// fetch the full profile of a user by id. *discordgo.Session satisfies it
type UserFetcher interface {
	User(userId string, options ...discordgo.RequestOption) (*discordgo.User, error)
}

// BannerCache memoizes banner urls per user id. The banner is not part of
// the state the gateway keeps updated, so obtaining it costs one profile
// fetch against a rate limited endpoint; the cache turns an O(members)
// per poll cost into one fetch per user ever observed.
// Entries never expire, so a banner changed after first observation
// stays stale until the process restarts
type BannerCache struct {
	fetcher UserFetcher
	mu      sync.Mutex
	banners map[string]string
}

func NewBannerCache(fetcher UserFetcher) *BannerCache {
	return &BannerCache{fetcher: fetcher, banners: map[string]string{}}
}

// BannerUrl returns the banner url for the user, or the empty string if
// the user has no banner. Any fetch failure is cached as "no banner":
// a permanently failing user costs exactly one fetch per process lifetime
func (cache *BannerCache) BannerUrl(userId string) string {

	cache.mu.Lock()
	if banner, ok := cache.banners[userId]; ok {
		cache.mu.Unlock()
		return banner
	}
	cache.mu.Unlock()

	// The fetch runs outside the lock: two concurrent builds may both
	// miss and both fetch, but they resolve the same value, so the
	// double write is harmless
	banner := ""
	user, err := cache.fetcher.User(userId)
	if err != nil {
		log.Debug().Msg(fmt.Sprintf("Could not fetch profile of user %s: %s", userId, err))
	} else if user != nil {
		banner = user.BannerURL("")
	}

	cache.mu.Lock()
	cache.banners[userId] = banner
	cache.mu.Unlock()
	return banner
}

// Len reports the number of users ever resolved, for housekeeping stats
func (cache *BannerCache) Len() int {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return len(cache.banners)
}

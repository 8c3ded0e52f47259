package memory

import (
	"time"

	"careercoach-be/internal/dto"

	"github.com/patrickmn/go-cache"
)

// DashboardCache keeps per-user home dashboards hot for a short window so
// repeated app-open calls do not hit Postgres.
type DashboardCache struct {
	cache *cache.Cache
}

func NewDashboardCache(ttl time.Duration) *DashboardCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &DashboardCache{
		cache: cache.New(ttl, 5*time.Minute),
	}
}

func (r *DashboardCache) Save(userId string, dashboard *dto.HomeDashboardResponse) {
	r.cache.Set(userId, dashboard, cache.DefaultExpiration)
}

func (r *DashboardCache) Get(userId string) (*dto.HomeDashboardResponse, bool) {
	if x, found := r.cache.Get(userId); found {
		return x.(*dto.HomeDashboardResponse), true
	}
	return nil, false
}

func (r *DashboardCache) Invalidate(userId string) {
	r.cache.Delete(userId)
}

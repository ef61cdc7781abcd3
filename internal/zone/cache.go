package zone

import (
	"sync"

	"github.com/testforus12-cyber/backend-2-sub000/internal/models"
)

// Cache memoizes zone resolutions for the duration of ONE aggregation
// call. It is allocated per call, passed explicitly into every vendor
// computation, and discarded when the call returns. Never share one
// across requests: vendors are priced concurrently, so the map is guarded
// by a mutex.
type Cache struct {
	mu      sync.Mutex
	entries map[string]models.ZoneResult
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]models.ZoneResult)}
}

func (c *Cache) get(vendorID, pincode string) (models.ZoneResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.entries[vendorID+"|"+pincode]
	return res, ok
}

func (c *Cache) put(vendorID, pincode string, res models.ZoneResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[vendorID+"|"+pincode] = res
}

// Len reports how many distinct (vendorId, pincode) pairs were touched.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

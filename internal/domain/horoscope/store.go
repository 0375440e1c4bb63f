package horoscope

import (
	"context"
	"encoding/json"
	"time"

	"github.com/soulsync/soulsync/internal/domain/zodiac"
)

// Store caches scraped horoscopes. Pages change at most once per day, so a
// cache hit saves a full scrape of the upstream site.
type Store interface {
	Get(ctx context.Context, sign zodiac.Sign, variant Variant, day string) (json.RawMessage, bool, error)
	Save(ctx context.Context, sign zodiac.Sign, variant Variant, day string, payload json.RawMessage, ttl time.Duration) error
}

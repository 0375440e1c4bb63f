package horoscopestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/soulsync/soulsync/internal/domain/horoscope"
	"github.com/soulsync/soulsync/internal/domain/zodiac"
)

// ValkeyStore caches scraped horoscopes in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "horoscope"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, sign zodiac.Sign, variant horoscope.Variant, day string) (json.RawMessage, bool, error) {
	cmd := s.client.B().Get().Key(s.key(sign, variant, day)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return json.RawMessage(payload), true, nil
}

func (s *ValkeyStore) Save(ctx context.Context, sign zodiac.Sign, variant horoscope.Variant, day string, payload json.RawMessage, ttl time.Duration) error {
	builder := s.client.B().Set().Key(s.key(sign, variant, day)).Value(string(payload))
	if ttl > 0 {
		return s.client.Do(ctx, builder.Ex(ttl).Build()).Error()
	}
	return s.client.Do(ctx, builder.Build()).Error()
}

func (s *ValkeyStore) key(sign zodiac.Sign, variant horoscope.Variant, day string) string {
	return fmt.Sprintf("%s:%s:%s:%s", s.prefix, sign, variant, day)
}

var _ horoscope.Store = (*ValkeyStore)(nil)

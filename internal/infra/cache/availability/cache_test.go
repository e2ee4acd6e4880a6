package availability

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

func TestCache_Key(t *testing.T) {
	c := New(nil, "", 0)
	from := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 6)

	assert.Equal(t, "availability:v3:5:all:2025-01-13:2025-01-19",
		c.Key(3, domain.AvailabilityQuery{AppointmentTypeID: 5, DateFrom: from, DateTo: to}))
	assert.Equal(t, "availability:v0:5:7:2025-01-13:2025-01-13",
		c.Key(0, domain.AvailabilityQuery{AppointmentTypeID: 5, StaffID: ptr.Ptr(int64(7)), DateFrom: from, DateTo: from}))
}

func TestCache_Defaults(t *testing.T) {
	c := New(nil, "", 0)
	assert.Equal(t, defaultTTL, c.ttl)
	assert.Equal(t, "availability:version", c.versionKey())
}

func TestCache_UnreachableRedis(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	c := New(rdb, "test", time.Second)
	ctx := context.Background()

	_, err := c.Version(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCache)

	err = c.Invalidate(ctx)
	assert.ErrorIs(t, err, ErrCache)
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	prev := client
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(prev) })

	return mr
}

func TestGetJSON_NilClient(t *testing.T) {
	prev := client
	SetClient(nil)
	defer SetClient(prev)

	var dest map[string]string
	found, err := GetJSON(context.Background(), "anything", &dest)
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(context.Background(), "anything", map[string]string{"a": "b"}, time.Minute))
}

func TestSetGetJSON_RoundTrip(t *testing.T) {
	setupTestRedis(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	in := payload{Name: "laptop", Count: 3}
	require.NoError(t, SetJSON(context.Background(), "test:key", in, time.Minute))

	var out payload
	found, err := GetJSON(context.Background(), "test:key", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestAside_FetchOnMissThenHit(t *testing.T) {
	setupTestRedis(t)

	calls := 0
	fetch := func(dest *string) func() error {
		return func() error {
			calls++
			*dest = "from-db"
			return nil
		}
	}

	var v string
	require.NoError(t, Aside(context.Background(), "donor:42", &v, time.Minute, fetch(&v)))
	assert.Equal(t, "from-db", v)
	assert.Equal(t, 1, calls)

	var v2 string
	require.NoError(t, Aside(context.Background(), "donor:42", &v2, time.Minute, fetch(&v2)))
	assert.Equal(t, "from-db", v2)
	assert.Equal(t, 1, calls, "second call should be served from cache")
}

func TestInvalidateDonor(t *testing.T) {
	mr := setupTestRedis(t)

	require.NoError(t, SetJSON(context.Background(), DonorKey(7), "cached", time.Minute))
	require.NoError(t, SetJSON(context.Background(), DonorPhoneKey("0900000000"), "cached", time.Minute))

	InvalidateDonor(context.Background(), 7, "0900000000")

	assert.False(t, mr.Exists(DonorKey(7)))
	assert.False(t, mr.Exists(DonorPhoneKey("0900000000")))
}

func TestInvalidateStudent_DropsPublicList(t *testing.T) {
	mr := setupTestRedis(t)

	require.NoError(t, SetJSON(context.Background(), StudentKey(3), "cached", time.Minute))
	require.NoError(t, SetJSON(context.Background(), PublicStudentsKey, "cached", time.Minute))

	InvalidateStudent(context.Background(), 3)

	assert.False(t, mr.Exists(StudentKey(3)))
	assert.False(t, mr.Exists(PublicStudentsKey))
}

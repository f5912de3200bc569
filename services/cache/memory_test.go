package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryServiceSetGet(t *testing.T) {
	svc := NewMemoryService()

	_, err := svc.Get("missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, svc.Set("cosmeau_blocked", []byte("300"), time.Minute))

	value, err := svc.Get("cosmeau_blocked")
	assert.NoError(t, err)
	assert.Equal(t, []byte("300"), value)
}

func TestMemoryServiceExpiry(t *testing.T) {
	svc := NewMemoryService()

	assert.NoError(t, svc.Set("k", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := svc.Get("k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryServiceDelete(t *testing.T) {
	svc := NewMemoryService()

	assert.NoError(t, svc.Set("k", []byte("v"), 0))
	assert.NoError(t, svc.Delete("k"))

	_, err := svc.Get("k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

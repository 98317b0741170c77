package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIPRateLimitKey(t *testing.T) {
	assert.Equal(t, "rl:ip:203.0.113.7:auth", NewIPRateLimitKey("203.0.113.7", ClassAuth))
	assert.Equal(t, "rl:ip:2001_db8__1:general", NewIPRateLimitKey("2001:db8::1", ClassGeneral))
	assert.NotEqual(t,
		NewIPRateLimitKey("1.2.3.4:auth", ClassGeneral),
		NewIPRateLimitKey("1.2.3.4", ClassAuth),
	)
}

func TestEndpointClassIsValid(t *testing.T) {
	for _, c := range []EndpointClass{ClassRecommendation, ClassAuth, ClassGeneral} {
		assert.True(t, c.IsValid(), c)
	}
	assert.False(t, EndpointClass("sensitive").IsValid())
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddAudienceIsIdempotent(t *testing.T) {
	d := Debate{}

	assert.True(t, d.AddAudience(1))
	assert.True(t, d.AddAudience(2))
	assert.False(t, d.AddAudience(1), "re-registering is a no-op")
	assert.Equal(t, []uint{1, 2}, d.AudienceIDs)
}

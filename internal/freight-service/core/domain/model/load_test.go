package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadTransitions(t *testing.T) {
	for status, open := range map[LoadStatus]bool{
		LoadPosted:      true,
		LoadOpenForBids: true,
		LoadBooked:      false,
		LoadCancelled:   false,
	} {
		l := Load{Status: status}
		assert.Equal(t, open, l.Biddable(), "status %s", status)
		assert.Equal(t, open, l.Cancellable(), "status %s", status)
	}
}

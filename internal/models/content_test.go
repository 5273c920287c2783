package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVisibilityAfterReport(t *testing.T) {
	var tests = []struct {
		from      Visibility
		count     int
		threshold int
		want      Visibility
		hides     bool
	}{
		{Visible, 1, 5, Visible, false},
		{Visible, 4, 5, Visible, false},
		{Visible, 5, 5, Hidden, true},
		{Visible, 9, 5, Hidden, true},
		{Hidden, 6, 5, Hidden, false},
		{Hidden, 1, 5, Hidden, false},
		{Visible, 1, 1, Hidden, true},
	}

	for _, tc := range tests {
		got, hides := tc.from.AfterReport(tc.count, tc.threshold)
		assert.Equal(t, tc.want, got, "%s at %d/%d", tc.from, tc.count, tc.threshold)
		assert.Equal(t, tc.hides, hides, "%s at %d/%d", tc.from, tc.count, tc.threshold)
	}
}

func TestVisibilityRestore(t *testing.T) {
	assert.Equal(t, Visible, Hidden.Restore())
	assert.Equal(t, Visible, Visible.Restore())
}

func TestTemporarilyBannedAt(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	assert := assert.New(t)
	assert.False((&Account{}).TemporarilyBannedAt(now))
	assert.True((&Account{BanExpiresAt: &future}).TemporarilyBannedAt(now))
	assert.False((&Account{BanExpiresAt: &past}).TemporarilyBannedAt(now))
	assert.False((&Account{BanExpiresAt: &now}).TemporarilyBannedAt(now))
}

func TestReactionTypeValid(t *testing.T) {
	for _, rt := range ReactionTypes {
		assert.True(t, rt.Valid())
	}
	assert.False(t, ReactionType("love").Valid())
	assert.False(t, ReactionType("").Valid())
}

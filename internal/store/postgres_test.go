package store

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestMapErr(t *testing.T) {
	other := errors.New("connection reset")

	var tests = []struct {
		name string
		in   error
		want error
	}{
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"unique violation", &pq.Error{Code: "23505"}, ErrConflict},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), ErrConflict},
		{"foreign key violation", &pq.Error{Code: "23503"}, ErrNotFound},
		{"check violation", &pq.Error{Code: "23514"}, nil},
		{"other", other, other},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mapErr(tc.in)
			switch {
			case tc.want == nil:
				assert.NotErrorIs(t, got, ErrNotFound)
				assert.NotErrorIs(t, got, ErrConflict)
			default:
				assert.ErrorIs(t, got, tc.want)
			}
		})
	}
	assert.NoError(t, mapErr(nil))
}

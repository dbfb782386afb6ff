package bookingRepo

import (
	"testing"
	"time"

	"caretrust/models"

	"github.com/stretchr/testify/assert"
)

func TestStampUpdatedAt(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

	transition := now.AddDate(0, 0, -3)
	b := models.Booking{ID: "bk-1", UpdatedAt: transition}
	stampUpdatedAt(&b, now)
	assert.Equal(t, transition, b.UpdatedAt)

	fresh := models.Booking{ID: "bk-2"}
	stampUpdatedAt(&fresh, now)
	assert.Equal(t, now, fresh.UpdatedAt)
}

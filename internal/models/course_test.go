package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayPricePriorityChain(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	course := Course{
		Price:          f(1000),
		PricePerLesson: f(500),
		PricePerMonth:  f(4000),
		PriceOneTime:   f(20000),
	}

	kind, value := course.DisplayPrice()
	assert.Equal(t, PriceKindPerMonth, kind)
	assert.Equal(t, 4000.0, value)

	course.PricePerMonth = nil
	kind, value = course.DisplayPrice()
	assert.Equal(t, PriceKindPerLesson, kind)
	assert.Equal(t, 500.0, value)

	course.PricePerLesson = nil
	kind, value = course.DisplayPrice()
	assert.Equal(t, PriceKindOneTime, kind)
	assert.Equal(t, 20000.0, value)

	course.PriceOneTime = nil
	kind, value = course.DisplayPrice()
	assert.Equal(t, PriceKindLegacy, kind)
	assert.Equal(t, 1000.0, value)

	course.Price = nil
	kind, value = course.DisplayPrice()
	assert.Equal(t, PriceKindUnset, kind)
	assert.Equal(t, 0.0, value)
}

func TestModerationStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusApproved.Valid())
	assert.True(t, StatusRejected.Valid())
	assert.False(t, ModerationStatus("DRAFT").Valid())
}

func TestPriceTypeValid(t *testing.T) {
	assert.True(t, PricePerMonth.Valid())
	assert.False(t, PriceType("WEEKLY").Valid())
}

package nlu

import (
	"testing"
	"time"

	"bakery-assistant-api/models"

	"github.com/stretchr/testify/assert"
)

func pinnedExtractor() *Extractor {
	return &Extractor{Now: func() time.Time {
		return time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	}}
}

func TestDetectFulfillment(t *testing.T) {
	cases := []struct {
		text string
		want models.FulfillmentType
	}{
		{"I'll pick it up", models.FulfillmentPickup},
		{"pickup please", models.FulfillmentPickup},
		{"pic up", models.FulfillmentPickup},
		{"picup", models.FulfillmentPickup},
		{"PICK-UP", models.FulfillmentPickup},
		{"can you deliver it", models.FulfillmentDelivery},
		{"delivery to my place", models.FulfillmentDelivery},
		{"drop off at the office", models.FulfillmentDelivery},
		{"two croissants please", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectFulfillment(tc.text), "text: %q", tc.text)
	}
}

func TestExtractPaymentMethod(t *testing.T) {
	e := pinnedExtractor()
	assert.Equal(t, "card", e.Extract("I'll pay by credit card").PaymentMethod)
	assert.Equal(t, "cash", e.Extract("cash please").PaymentMethod)
	assert.Equal(t, "upi", e.Extract("gpay works").PaymentMethod)
	assert.Empty(t, e.Extract("two croissants").PaymentMethod)
}

func TestExtractPhone(t *testing.T) {
	e := pinnedExtractor()
	assert.Equal(t, "5551234567", e.Extract("my number is 555-123-4567").PhoneNumber)
	assert.Equal(t, "+15551234567", e.Extract("+1 555 123 4567").PhoneNumber)
	assert.Empty(t, e.Extract("call me").PhoneNumber)
}

func TestExtractName(t *testing.T) {
	e := pinnedExtractor()

	ent := e.Extract("my name is dana reed")
	assert.Equal(t, "Dana Reed", ent.Name)
	assert.True(t, ent.NameExplicit)

	ent = e.Extract("I'm dana")
	assert.Equal(t, "Dana", ent.Name)
	assert.True(t, ent.NameExplicit)

	// a short plain-text turn with no other signal is treated as a name,
	// but only as a fallback, never as an explicit statement
	ent = e.Extract("Dana Reed")
	assert.Equal(t, "Dana Reed", ent.Name)
	assert.False(t, ent.NameExplicit)

	// turns that carry another signal, or command words, are not names
	assert.Empty(t, e.Extract("pic up").Name)
	assert.Empty(t, e.Extract("yes").Name)
	assert.Empty(t, e.Extract("card").Name)
	assert.Empty(t, e.Extract("downtown").Name)
	assert.Empty(t, e.Extract("2 pm").Name)
}

func TestExtractAddress(t *testing.T) {
	e := pinnedExtractor()
	ent := e.Extract("deliver to 12 Baker Street please")
	assert.Equal(t, models.FulfillmentDelivery, ent.Fulfillment)
	assert.Contains(t, ent.Address, "12 Baker Street")
	assert.Empty(t, ent.Name)
}

func TestExtractBranch(t *testing.T) {
	e := pinnedExtractor()
	assert.Equal(t, "downtown", e.Extract("the downtown one").Branch)
	assert.Equal(t, "westside", e.Extract("west side please").Branch)
	assert.Empty(t, e.Extract("anywhere").Branch)
}

func TestExtractTime(t *testing.T) {
	e := pinnedExtractor() // anchored at 2026-08-29 09:00

	ent := e.Extract("at 2 pm")
	assert.True(t, ent.TimeSet)
	assert.Equal(t, time.Date(2026, 8, 29, 14, 0, 0, 0, time.UTC), ent.Time)

	ent = e.Extract("9:30 am works")
	assert.True(t, ent.TimeSet)
	assert.Equal(t, time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC), ent.Time)

	// already past today: rolls to tomorrow
	ent = e.Extract("at 8 am")
	assert.True(t, ent.TimeSet)
	assert.Equal(t, time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC), ent.Time)

	ent = e.Extract("tomorrow at 10 am")
	assert.True(t, ent.TimeSet)
	assert.Equal(t, time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC), ent.Time)

	// 24h clock
	ent = e.Extract("at 14:30")
	assert.True(t, ent.TimeSet)
	assert.Equal(t, time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC), ent.Time)
}

func TestExtractTimeInvalid(t *testing.T) {
	e := pinnedExtractor()

	ent := e.Extract("at 0 pm")
	assert.False(t, ent.TimeSet)
	assert.True(t, ent.TimeInvalid)

	ent = e.Extract("at 25:00")
	assert.False(t, ent.TimeSet)
	assert.True(t, ent.TimeInvalid)

	ent = e.Extract("sometime soonish")
	assert.False(t, ent.TimeSet)
	assert.False(t, ent.TimeInvalid)
}

func TestExtractQuantity(t *testing.T) {
	e := pinnedExtractor()

	ent := e.Extract("2 croissants")
	assert.True(t, ent.QuantitySet)
	assert.Equal(t, 2, ent.Quantity)

	ent = e.Extract("croissants")
	assert.False(t, ent.QuantitySet)
}

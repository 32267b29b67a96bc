package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStrongConfirmation(t *testing.T) {
	yes := []string{
		"yes", "confirm", "yes please", "place my order",
		"sounds good", "go ahead", "Yes, that's correct",
	}
	for _, s := range yes {
		assert.True(t, IsStrongConfirmation(s), "expected confirmation: %q", s)
	}

	no := []string{
		"not yet, don't place the order",
		"wait, confirm later",
		"no",
		"yes but change the time first",
		"hold on",
		"stop",
		"maybe",
	}
	for _, s := range no {
		assert.False(t, IsStrongConfirmation(s), "expected non-confirmation: %q", s)
	}
}

func TestNegationWordBoundaries(t *testing.T) {
	// "no" must not hide inside "now"
	assert.False(t, ContainsNegation("right now please"))
	assert.True(t, ContainsNegation("no thanks"))
	assert.True(t, ContainsNegation("wait a second"))
	assert.True(t, ContainsNegation("hold on"))
}

func TestClassifyCommands(t *testing.T) {
	tc := TurnContext{}

	assert.Equal(t, TurnClearCart, Classify("clear my cart", tc))
	assert.Equal(t, TurnReceipt, Classify("show me my receipt", tc))
	assert.Equal(t, TurnSummary, Classify("what's in my cart", tc))
	assert.Equal(t, TurnCancel, Classify("cancel my order", tc))
	assert.Equal(t, TurnCancel, Classify("cancel", tc))
	assert.Equal(t, TurnCancel, Classify("please cancel it", tc))
	assert.Equal(t, TurnCancel, Classify("just cancel the whole thing", tc))
	assert.Equal(t, TurnCheckout, Classify("checkout", tc))
}

func TestCancelWinsOverConfirmationContext(t *testing.T) {
	// an explicit cancel while the preview is up abandons the order
	// instead of reading as a change request
	tc := TurnContext{AwaitingConfirmation: true}
	assert.Equal(t, TurnCancel, Classify("please cancel it", tc))
	assert.Equal(t, TurnCancel, Classify("actually, cancel my order", tc))
}

func TestClassifyBareCancelOnly(t *testing.T) {
	// "cancel" alone cancels; words merely containing it do not
	assert.NotEqual(t, TurnCancel, Classify("what is your cancellation policy", TurnContext{}))
}

func TestClassifyAwaitingConfirmation(t *testing.T) {
	tc := TurnContext{AwaitingConfirmation: true}

	assert.Equal(t, TurnConfirm, Classify("yes, confirm", tc))
	assert.Equal(t, TurnConfirm, Classify("place the order", tc))

	// a negated turn is never a confirmation, even with affirming words
	assert.Equal(t, TurnModify, Classify("not yet, don't place the order", tc))
	assert.Equal(t, TurnModify, Classify("wait, change the time", tc))
	assert.Equal(t, TurnModify, Classify("make it 3 pm instead", tc))

	// new items can still be added while the preview is up
	tc.MentionsProduct = true
	assert.Equal(t, TurnAddItem, Classify("add a cheesecake too", tc))
}

func TestClassifyOutsideConfirmation(t *testing.T) {
	assert.Equal(t, TurnAddItem, Classify("I'd like 2 croissants", TurnContext{MentionsProduct: true}))
	assert.Equal(t, TurnSlotFill, Classify("my name is dana", TurnContext{}))

	// confirming with nothing pending still classifies as confirm; the
	// dialogue answers that there is nothing to confirm
	assert.Equal(t, TurnConfirm, Classify("confirm my order", TurnContext{}))
}

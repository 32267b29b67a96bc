package nlu

import (
	"regexp"
	"strings"
)

// TurnKind is the closed classification of a user turn. The dialogue
// state machine branches on this enum instead of scattering substring
// checks through its control flow.
type TurnKind int

const (
	TurnSlotFill TurnKind = iota // default: absorb entities into outstanding slots
	TurnAddItem                  // the turn names at least one catalog product
	TurnConfirm                  // strong confirmation, negation-guarded
	TurnCancel                   // explicit cancel intent
	TurnModify                   // change request while awaiting confirmation
	TurnCheckout                 // start/resume the checkout flow
	TurnSummary                  // read-only cart summary
	TurnClearCart                // reset everything
	TurnReceipt                  // recall the last finalized receipt
)

func (k TurnKind) String() string {
	switch k {
	case TurnAddItem:
		return "add_item"
	case TurnConfirm:
		return "confirm"
	case TurnCancel:
		return "cancel"
	case TurnModify:
		return "modify"
	case TurnCheckout:
		return "checkout"
	case TurnSummary:
		return "summary"
	case TurnClearCart:
		return "clear_cart"
	case TurnReceipt:
		return "receipt"
	default:
		return "slot_fill"
	}
}

// TurnContext is what the classifier needs to know about the session
// before deciding; the caller computes MentionsProduct via the catalog.
type TurnContext struct {
	AwaitingConfirmation bool
	MentionsProduct      bool
}

// strongConfirmations is the fixed affirming vocabulary.
var strongConfirmations = []string{
	"yes", "confirm", "place order", "place the order", "place my order",
	"that's correct", "that is correct", "sounds good", "looks good",
	"proceed", "go ahead", "finalize", "complete order", "submit order",
	"yes please", "yes that's right", "yes that is right", "yes place it",
	"place it", "order it", "buy it", "purchase", "checkout", "finalize order",
}

// negationWords veto confirmation no matter what else the turn says.
// Single words match on word boundaries so "no" does not hide in "now".
var negationWords = []string{"not", "no", "wait", "change", "cancel", "stop"}
var negationPhrases = []string{"hold on", "add more"}

var negationRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(negationWords))
	for _, w := range negationWords {
		res = append(res, regexp.MustCompile(`\b`+w+`\b`))
	}
	return res
}()

var checkoutKeywords = []string{"checkout", "place order", "final order", "finalize order"}

var clearCartPhrases = []string{"clear cart", "clear my cart", "clear the cart", "remove everything", "empty my cart", "empty the cart"}

var summaryPhrases = []string{"review my cart", "show cart", "view cart", "cart summary", "what's in my cart", "whats in my cart"}

var receiptWords = []string{"receipt", "reciept", "recipt"}

// "cancel" anywhere as a whole word is a cancel intent; the boundary
// keeps "cancellation policy" from clearing a cart.
var cancelRe = regexp.MustCompile(`\bcancel\b`)

// ContainsNegation reports whether the turn carries a negation token.
func ContainsNegation(text string) bool {
	ql := strings.ToLower(text)
	for _, re := range negationRes {
		if re.MatchString(ql) {
			return true
		}
	}
	for _, p := range negationPhrases {
		if strings.Contains(ql, p) {
			return true
		}
	}
	return false
}

// IsStrongConfirmation matches the affirming vocabulary, with the
// negation guard applied first: a turn containing any negation token is
// never a confirmation, even if it also contains an affirming phrase.
func IsStrongConfirmation(text string) bool {
	ql := strings.ToLower(strings.TrimSpace(text))
	if ContainsNegation(ql) {
		return false
	}
	for _, phrase := range strongConfirmations {
		if strings.Contains(ql, phrase) {
			return true
		}
	}
	return false
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// Classify maps one turn to its TurnKind given the session context.
func Classify(text string, tc TurnContext) TurnKind {
	ql := strings.ToLower(strings.TrimSpace(text))

	switch {
	case containsAny(ql, clearCartPhrases):
		return TurnClearCart
	case containsAny(ql, receiptWords):
		return TurnReceipt
	case containsAny(ql, summaryPhrases):
		return TurnSummary
	case isCancel(ql):
		return TurnCancel
	}

	if tc.AwaitingConfirmation {
		switch {
		case IsStrongConfirmation(ql):
			return TurnConfirm
		case tc.MentionsProduct:
			return TurnAddItem
		default:
			return TurnModify
		}
	}

	switch {
	case containsAny(ql, checkoutKeywords):
		return TurnCheckout
	case tc.MentionsProduct:
		return TurnAddItem
	case IsStrongConfirmation(ql):
		// nothing is awaiting confirmation; the controller answers that
		return TurnConfirm
	default:
		return TurnSlotFill
	}
}

func isCancel(ql string) bool {
	return cancelRe.MatchString(ql)
}

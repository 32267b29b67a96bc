// Package nlu is the small rule-based language layer for the bakery
// domain: best-effort entity extraction from a single turn, and a
// closed classification of what kind of turn it was. Absence of an
// entity means "not detected this turn", never "explicitly empty".
package nlu

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"bakery-assistant-api/models"
)

// Entities is the flat candidate-slot map extracted from one turn.
type Entities struct {
	Quantity    int
	QuantitySet bool

	Fulfillment   models.FulfillmentType // empty when not detected
	PaymentMethod string
	Name          string
	NameExplicit  bool // "my name is X", as opposed to the bare-name fallback
	PhoneNumber   string
	Address       string
	Branch        string // raw location keyword, resolved by the caller

	Time        time.Time
	TimeSet     bool
	TimeInvalid bool // something time-shaped that could not be parsed
}

type Extractor struct {
	// Now anchors relative time resolution; tests pin it.
	Now func() time.Time
}

func NewExtractor() *Extractor {
	return &Extractor{Now: time.Now}
}

var (
	quantityRe = regexp.MustCompile(`(?:^|\s)(\d{1,3})(?:\s|$)`)
	phoneRe    = regexp.MustCompile(`(\+?\d[\d\-\s]{5,}\d)`)
	nameRe     = regexp.MustCompile(`(?:i am|i'm|my name is)\s+([a-z][a-z\s]{1,30})`)
	bareNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z\s]{0,30}$`)
	addressRe  = regexp.MustCompile(`(?i)(\d{1,5}\s+[A-Za-z0-9\.,\-\s]+\s+(Street|St\.?|Avenue|Ave\.?|Road|Rd\.?|Lane|Ln\.?|Boulevard|Blvd\.?|Drive|Dr\.?))`)
	clockRe    = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	clock24Re  = regexp.MustCompile(`\bat\s+(\d{1,2}):(\d{2})\b`)
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]`)
	spacesRe   = regexp.MustCompile(`\s+`)
)

// pickup/delivery variants, misspellings included
var (
	pickupPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bpick\s*up\b`),
		regexp.MustCompile(`\bpickup\b`),
		regexp.MustCompile(`\bpic\s*up\b`),
		regexp.MustCompile(`\bpicup\b`),
		regexp.MustCompile(`\bpik\s*up\b`),
		regexp.MustCompile(`\bpick\s*it\s*up\b`),
		regexp.MustCompile(`\bcome\s*(get|pick)\s*(it)?\b`),
		regexp.MustCompile(`\bcollection\b`),
	}
	deliveryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bdeliver(y)?\b`),
		regexp.MustCompile(`\bdeliver\s*it\b`),
		regexp.MustCompile(`\bsend\b`),
		regexp.MustCompile(`\bsend\s*to\b`),
		regexp.MustCompile(`\bship\s*to\b`),
		regexp.MustCompile(`\bdrop\s*off\b`),
		regexp.MustCompile(`\baddress\b`),
	}
)

var paymentKeywords = []struct {
	method   string
	keywords []string
}{
	{"cash", []string{"cash", "pay cash", "cash on delivery", "money"}},
	{"card", []string{"card", "credit", "debit", "visa", "mastercard", "american express", "amex", "apple pay", "paypal"}},
	{"upi", []string{"upi", "paytm", "gpay", "google pay", "phonepe", "digital payment", "mobile payment"}},
}

var locationKeywords = []string{"downtown", "westside", "west side", "mall", "uptown", "midtown", "central"}

// bareNameStoplist keeps short command words and slot values from being
// mistaken for a customer name.
var bareNameStoplist = map[string]bool{
	"yes": true, "no": true, "ok": true, "okay": true, "and": true,
	"card": true, "cash": true, "upi": true,
	"pickup": true, "deliver": true, "delivery": true,
	"downtown": true, "westside": true, "mall": true,
	"confirm": true, "checkout": true, "cancel": true,
}

// DetectFulfillment returns the fulfillment type named in the text,
// tolerating the common misspellings, or empty when none is named.
// Pickup patterns win over delivery patterns.
func DetectFulfillment(text string) models.FulfillmentType {
	ql := nonAlnumRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), " ")
	ql = spacesRe.ReplaceAllString(ql, " ")
	for _, re := range pickupPatterns {
		if re.MatchString(ql) {
			return models.FulfillmentPickup
		}
	}
	for _, re := range deliveryPatterns {
		if re.MatchString(ql) {
			return models.FulfillmentDelivery
		}
	}
	return ""
}

// Extract pulls every candidate slot value out of one turn.
func (e *Extractor) Extract(text string) Entities {
	t := strings.ToLower(text)
	var ent Entities

	if g := quantityRe.FindStringSubmatch(t); g != nil {
		if n, err := strconv.Atoi(g[1]); err == nil {
			ent.Quantity = n
			ent.QuantitySet = true
		}
	}

	ent.Fulfillment = DetectFulfillment(text)

	hasPayment := false
	for _, pm := range paymentKeywords {
		for _, kw := range pm.keywords {
			if strings.Contains(t, kw) {
				ent.PaymentMethod = pm.method
				hasPayment = true
				break
			}
		}
		if hasPayment {
			break
		}
	}

	if g := nameRe.FindStringSubmatch(t); g != nil && !hasPayment {
		ent.Name = titleWords(strings.TrimSpace(g[1]))
		ent.NameExplicit = true
	}
	if g := phoneRe.FindStringSubmatch(t); g != nil {
		ent.PhoneNumber = normalizePhone(g[1])
	}

	if g := addressRe.FindStringSubmatch(text); g != nil {
		ent.Address = strings.TrimSpace(g[1])
	}

	e.extractTime(t, &ent)

	for _, loc := range locationKeywords {
		if strings.Contains(t, loc) {
			ent.Branch = strings.ReplaceAll(loc, " ", "")
			break
		}
	}

	// Bare-name fallback: a short all-alphabetic turn that carried no
	// other signal is most likely the customer answering "what's the
	// name for the order?".
	if ent.Name == "" && !ent.hasOtherSignal() {
		raw := strings.TrimSpace(text)
		words := strings.Fields(raw)
		if len(words) >= 1 && len(words) <= 3 && bareNameRe.MatchString(raw) && !anyStopword(words) {
			ent.Name = titleWords(raw)
		}
	}

	return ent
}

func (e Entities) hasOtherSignal() bool {
	return e.QuantitySet || e.Fulfillment != "" || e.PaymentMethod != "" ||
		e.PhoneNumber != "" || e.Address != "" || e.Branch != "" ||
		e.TimeSet || e.TimeInvalid
}

func anyStopword(words []string) bool {
	for _, w := range words {
		if bareNameStoplist[strings.ToLower(w)] {
			return true
		}
	}
	return false
}

// extractTime resolves clock strings to an absolute timestamp: today at
// that time, rolled to tomorrow when already past (or when the turn
// says "tomorrow").
func (e *Extractor) extractTime(t string, ent *Entities) {
	now := e.Now()
	tomorrow := strings.Contains(t, "tomorrow")

	if g := clockRe.FindStringSubmatch(t); g != nil {
		hour, _ := strconv.Atoi(g[1])
		minute := 0
		if g[2] != "" {
			minute, _ = strconv.Atoi(g[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			ent.TimeInvalid = true
			return
		}
		hour = hour % 12
		if g[3] == "pm" {
			hour += 12
		}
		ent.Time = resolveClock(now, hour, minute, tomorrow)
		ent.TimeSet = true
		return
	}

	if g := clock24Re.FindStringSubmatch(t); g != nil {
		hour, _ := strconv.Atoi(g[1])
		minute, _ := strconv.Atoi(g[2])
		if hour > 23 || minute > 59 {
			ent.TimeInvalid = true
			return
		}
		ent.Time = resolveClock(now, hour, minute, tomorrow)
		ent.TimeSet = true
	}
}

func resolveClock(now time.Time, hour, minute int, tomorrow bool) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if tomorrow {
		return t.AddDate(0, 0, 1)
	}
	if t.Before(now) {
		return t.AddDate(0, 0, 1)
	}
	return t
}

func normalizePhone(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= '0' && r <= '9' || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func titleWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Package catalog answers product questions for the dialogue: which
// catalog items a free-text turn mentions, what a misspelled name most
// likely refers to, and how much stock is left right now.
package catalog

import (
	"regexp"
	"sort"
	"strings"

	"bakery-assistant-api/models"

	"gorm.io/gorm"
)

// fuzzyCutoff is the minimum similarity (0..1) for a fuzzy name match.
const fuzzyCutoff = 0.6

type Catalog struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// Mention is one product recognized in a turn, with the quantity stated
// next to it. Explicit marks a literal number in the text; Invalid marks
// an explicit quantity that cannot be honored (zero).
type Mention struct {
	Product  models.Product
	Quantity int
	Explicit bool
	Invalid  bool
}

// Scan finds every catalog product named in the text, longest name
// first so "chocolate fudge cake" is not also counted as "cake". A
// quantity immediately preceding the product name is captured; with no
// quantity stated the mention defaults to one.
func (c *Catalog) Scan(text string) ([]Mention, error) {
	products, err := c.All()
	if err != nil {
		return nil, err
	}
	sort.Slice(products, func(i, j int) bool {
		return len(products[i].Name) > len(products[j].Name)
	})

	lower := strings.ToLower(text)
	masked := []byte(lower)
	var mentions []Mention
	for _, p := range products {
		name := strings.ToLower(p.Name)
		idx := strings.Index(string(masked), name)
		if idx < 0 {
			continue
		}
		for i := idx; i < idx+len(name); i++ {
			masked[i] = '#'
		}

		// A quantity counts only when it sits within a couple of words
		// of the name, so "2 cakes and a cheesecake" does not make the
		// cheesecake a pair.
		m := Mention{Product: p, Quantity: 1}
		re := regexp.MustCompile(`(\d{1,3})\s+(?:[a-z]+\s+){0,2}` + regexp.QuoteMeta(name))
		if g := re.FindStringSubmatch(lower); g != nil {
			m.Explicit = true
			m.Quantity = atoiSafe(g[1])
			if m.Quantity <= 0 {
				m.Invalid = true
			}
		}
		mentions = append(mentions, m)
	}
	return mentions, nil
}

// Find resolves a product by name: exact match, then substring, then
// Levenshtein similarity against every catalog name. Returns nil when
// nothing clears the cutoff.
func (c *Catalog) Find(name string) (*models.Product, error) {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return nil, nil
	}

	var p models.Product
	err := c.db.Where("LOWER(name) = ?", q).First(&p).Error
	if err == nil {
		return &p, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	err = c.db.Where("name LIKE ?", "%"+q+"%").Order("LENGTH(name)").First(&p).Error
	if err == nil {
		return &p, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	products, err := c.All()
	if err != nil {
		return nil, err
	}
	var best *models.Product
	bestScore := 0.0
	for i := range products {
		score := similarity(q, strings.ToLower(products[i].Name))
		if score > bestScore {
			bestScore = score
			best = &products[i]
		}
	}
	if best != nil && bestScore >= fuzzyCutoff {
		return best, nil
	}
	return nil, nil
}

// All returns the full catalog.
func (c *Catalog) All() ([]models.Product, error) {
	var products []models.Product
	if err := c.db.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Stock reads the current stock counter for a product.
func (c *Catalog) Stock(productID uint) (int, error) {
	var p models.Product
	if err := c.db.First(&p, productID).Error; err != nil {
		return 0, err
	}
	return p.QuantityInStock, nil
}

// Alternatives suggests in-stock products from the same category.
func (c *Catalog) Alternatives(category string, limit int) ([]models.Product, error) {
	var products []models.Product
	err := c.db.Where("quantity_in_stock > 0 AND category = ?", category).
		Limit(limit).Find(&products).Error
	return products, err
}

// Upsells suggests in-stock products not already in the cart.
func (c *Catalog) Upsells(excludeIDs []uint, limit int) ([]string, error) {
	query := c.db.Where("quantity_in_stock > 0")
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	var products []models.Product
	if err := query.Limit(limit).Find(&products).Error; err != nil {
		return nil, err
	}
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names, nil
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// similarity is 1 - normalized Levenshtein distance.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein computes the edit distance between two strings using the
// two-row dynamic programming formulation.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// internal/domain/catalog/resolver.go
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// MaxSimilarProducts caps the suggestion list returned for fuzzy lookups.
const MaxSimilarProducts = 5

// Resolver maps loosely-typed references (numeric id, exact name, fuzzy
// text) to canonical catalog rows. A nil entity with a nil error means the
// reference did not resolve.
type Resolver struct {
	db *gorm.DB
}

// NewResolver creates a new entity resolver
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// ResolveProduct resolves a product reference. Numeric references are primary
// key lookups with no fuzzy fallback. Text references try a case-insensitive
// exact name match first, then a substring match (lowest id wins ties).
func (r *Resolver) ResolveProduct(ctx context.Context, ref string) (*Product, error) {
	var product Product
	found, err := r.resolveByName(ctx, &product, ref, false)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product %q: %w", ref, err)
	}
	if !found {
		return nil, nil
	}
	return &product, nil
}

// ResolveProductStrict resolves a product by numeric id or exact name only.
// Order creation uses this variant so a substring match can never silently
// select the wrong product.
func (r *Resolver) ResolveProductStrict(ctx context.Context, ref string) (*Product, error) {
	var product Product
	found, err := r.resolveByName(ctx, &product, ref, true)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product %q: %w", ref, err)
	}
	if !found {
		return nil, nil
	}
	return &product, nil
}

// ResolveWarehouse resolves a warehouse reference
func (r *Resolver) ResolveWarehouse(ctx context.Context, ref string) (*Warehouse, error) {
	var warehouse Warehouse
	found, err := r.resolveByName(ctx, &warehouse, ref, false)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve warehouse %q: %w", ref, err)
	}
	if !found {
		return nil, nil
	}
	return &warehouse, nil
}

// ResolveSupplier resolves a supplier reference
func (r *Resolver) ResolveSupplier(ctx context.Context, ref string) (*Supplier, error) {
	var supplier Supplier
	found, err := r.resolveByName(ctx, &supplier, ref, false)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve supplier %q: %w", ref, err)
	}
	if !found {
		return nil, nil
	}
	return &supplier, nil
}

// resolveByName runs the shared id / exact / substring resolution sequence
// against any entity with a name column.
func (r *Resolver) resolveByName(ctx context.Context, dest interface{}, ref string, strict bool) (bool, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false, nil
	}

	// Numeric references are primary key lookups; absence is final.
	if id, err := strconv.ParseUint(ref, 10, 32); err == nil {
		err := r.db.WithContext(ctx).First(dest, uint(id)).Error
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	}

	lowered := strings.ToLower(ref)

	// Case-insensitive exact name match.
	err := r.db.WithContext(ctx).Where("LOWER(name) = ?", lowered).Order("id ASC").First(dest).Error
	if err == nil {
		return true, nil
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}

	if strict {
		return false, nil
	}

	// Substring fallback; lowest id wins when multiple names contain the text.
	err = r.db.WithContext(ctx).Where("LOWER(name) LIKE ?", "%"+lowered+"%").Order("id ASC").First(dest).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SimilarProducts returns up to MaxSimilarProducts products ranked for a
// fuzzy query. A product matches when any query word (longer than two
// characters) is a substring of its name, or when the first word of its name
// is a substring of a query word. Results are ordered by match score
// descending, then id ascending, so suggestions are reproducible. The list
// is used for user-facing disambiguation only, never for auto-selection.
func (r *Resolver) SimilarProducts(ctx context.Context, query string) ([]Product, error) {
	words := queryWords(query)
	if len(words) == 0 {
		return nil, nil
	}

	var products []Product
	if err := r.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products for similarity match: %w", err)
	}

	type scored struct {
		product Product
		score   int
	}

	var matches []scored
	for _, p := range products {
		name := strings.ToLower(p.Name)
		nameWords := strings.Fields(name)
		firstWord := ""
		if len(nameWords) > 0 {
			firstWord = nameWords[0]
		}

		score := 0
		for _, w := range words {
			if strings.Contains(name, w) {
				score++
			} else if firstWord != "" && strings.Contains(w, firstWord) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{product: p, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].product.ID < matches[j].product.ID
	})

	if len(matches) > MaxSimilarProducts {
		matches = matches[:MaxSimilarProducts]
	}

	result := make([]Product, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.product)
	}
	return result, nil
}

func queryWords(query string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) > 2 {
			words = append(words, w)
		}
	}
	return words
}

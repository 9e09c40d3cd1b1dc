// Package shopping runs the single-shot price comparison: three
// retailer lookups in a fixed order, tolerant of individual failures.
// A failing retailer shrinks the result set and is reported inline; it
// never aborts the request.
package shopping

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// PriceSource looks a product up on one named retailer and returns a
// display price like "$1,299.99".
type PriceSource interface {
	LookupPrice(ctx context.Context, retailer, product string) (string, error)
}

// Retailers is the fixed lookup order.
var Retailers = []struct {
	Name string
	Site string
}{
	{"Amazon", "amazon"},
	{"Best Buy", "bestbuy"},
	{"Walmart", "walmart"},
}

type Result struct {
	Retailer string
	Price    string
	Err      error
}

// Compare queries every retailer in order, continuing past failures.
func Compare(ctx context.Context, src PriceSource, product string) []Result {
	results := make([]Result, 0, len(Retailers))
	for _, r := range Retailers {
		price, err := src.LookupPrice(ctx, r.Site, product)
		if err != nil {
			slog.Warn("retailer lookup failed", "retailer", r.Name, "err", err)
		}
		results = append(results, Result{Retailer: r.Name, Price: price, Err: err})
	}
	return results
}

// Report renders the aggregate as a user-facing string, naming failed
// retailers explicitly and the best deal when one can be parsed.
func Report(product string, results []Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Price comparison for %s:\n", product)

	var (
		bestRetailer string
		bestPrice    string
		bestValue    float64
		found        int
	)
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(&b, "%s: lookup failed\n", r.Retailer)
			continue
		}
		if r.Price == "" {
			fmt.Fprintf(&b, "%s: no price found\n", r.Retailer)
			continue
		}
		found++
		fmt.Fprintf(&b, "%s: %s\n", r.Retailer, r.Price)
		if v, ok := parsePrice(r.Price); ok && (bestRetailer == "" || v < bestValue) {
			bestRetailer, bestPrice, bestValue = r.Retailer, r.Price, v
		}
	}
	if found == 0 {
		return fmt.Sprintf("Could not find prices for %s. Please try a more specific search.", product)
	}
	if bestRetailer != "" {
		fmt.Fprintf(&b, "Best deal: %s at %s", bestRetailer, bestPrice)
	}
	return strings.TrimRight(b.String(), "\n")
}

func parsePrice(display string) (float64, bool) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(display))
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

package store

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Price documents were entered over years through different admin tools,
// so two shapes exist side by side:
//
//	nested: {"N1": {"N2": 12.5}}
//	flat:   {"N1-N2": 12.5} (also seen with "_" as separator)
//
// NormalizePriceDoc converts either into the canonical zone->zone->price
// map at the store boundary, so the tariff calculator never special-cases
// storage representation.
func NormalizePriceDoc(doc []byte) (map[string]map[string]float64, error) {
	if len(doc) == 0 {
		return nil, fmt.Errorf("empty price document")
	}

	var nested map[string]map[string]float64
	if err := json.Unmarshal(doc, &nested); err == nil {
		return nested, nil
	}

	var flat map[string]float64
	if err := json.Unmarshal(doc, &flat); err != nil {
		return nil, fmt.Errorf("price document is neither nested nor flat: %w", err)
	}

	out := make(map[string]map[string]float64, len(flat))
	for key, price := range flat {
		from, to, ok := splitZonePair(key)
		if !ok {
			// Skip the malformed key rather than poisoning the card;
			// the pair just won't price.
			continue
		}
		if out[from] == nil {
			out[from] = make(map[string]float64)
		}
		out[from][to] = price
	}
	return out, nil
}

func splitZonePair(key string) (from, to string, ok bool) {
	for _, sep := range []string{"-", "_"} {
		parts := strings.SplitN(key, sep, 2)
		if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
			return parts[0], parts[1], true
		}
	}
	return "", "", false
}

package scanner

import (
	"strings"
)

// SelectSymbols keeps the symbols quoted in quoteAsset, in order and without
// duplicates, capped at maxSymbols. A symbol equal to the quote asset is dropped.
func SelectSymbols(symbols []string, quoteAsset string, maxSymbols int) []string {
	quoteAsset = strings.ToUpper(strings.TrimSpace(quoteAsset))
	seen := make(map[string]struct{}, len(symbols))
	selected := make([]string, 0, len(symbols))

	for _, raw := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(raw))
		if symbol == "" || symbol == quoteAsset || !strings.HasSuffix(symbol, quoteAsset) {
			continue
		}

		if _, dup := seen[symbol]; dup {
			continue
		}

		seen[symbol] = struct{}{}
		selected = append(selected, symbol)

		if maxSymbols > 0 && len(selected) == maxSymbols {
			break
		}
	}

	return selected
}

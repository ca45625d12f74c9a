package merge

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// DefaultTokenEncoding is the BPE encoding used by CountTokens when none is given.
const DefaultTokenEncoding = "cl100k_base"

// CountTokens estimates how many model tokens text occupies. The encoding's
// rank file is fetched (and cached by tiktoken-go) on first use.
func CountTokens(text, encoding string) (int, error) {
	if encoding == "" {
		encoding = DefaultTokenEncoding
	}
	tk, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return 0, fmt.Errorf("load tiktoken encoding %q: %w", encoding, err)
	}
	return len(tk.EncodeOrdinary(text)), nil
}

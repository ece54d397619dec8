package corpus

import "github.com/xrash/smetrics"

// Ratio computes a symmetric string-similarity ratio in [0, 1] using
// Wagner-Fischer edit distance with unit insert/delete costs and a
// substitution cost of 2: ratio = 1 - D/(len(a)+len(b)).
//
// Cutoff rule: a candidate clears a cutoff iff Ratio >= cutoff, compared
// as float64 with no rounding. At a 0.92 cutoff a 0.920 ratio fires and
// a 0.919 ratio does not.
func Ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	d := smetrics.WagnerFischer(a, b, 1, 1, 2)
	r := 1 - float64(d)/float64(total)
	if r < 0 {
		return 0
	}
	return r
}

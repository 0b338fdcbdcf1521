package search

import (
	"sort"
	"testing"

	"github.com/jaskij/vampire/internal/numeric"
	"github.com/jaskij/vampire/internal/signature"
)

// recordingSink collects every reported pair without any deduplication,
// so tests can check the raw fang pairs the kernel finds.
type recordingSink struct {
	products []numeric.Vamp
	pairs    map[numeric.Vamp][][2]numeric.Fang
}

func newRecordingSink() *recordingSink {
	return &recordingSink{pairs: make(map[numeric.Vamp][][2]numeric.Fang)}
}

func (r *recordingSink) Report(product numeric.Vamp, multiplier, multiplicand numeric.Fang) {
	r.products = append(r.products, product)
	r.pairs[product] = append(r.pairs[product], [2]numeric.Fang{multiplier, multiplicand})
}

func (r *recordingSink) Drain(numeric.Vamp) {}

func distinct(products []numeric.Vamp) []numeric.Vamp {
	seen := map[numeric.Vamp]bool{}
	var out []numeric.Vamp
	for _, p := range products {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TestScanFindsFourDigitVampires checks the well known 4-digit vampire
// numbers (1260, 1395, 1435, 1530, 1827, 2187, 6880) against the textbook
// list for [1000, 9999].
func TestScanFindsFourDigitVampires(t *testing.T) {
	lmin, lmax := numeric.Vamp(1000), numeric.Vamp(9999)
	cache := signature.Build(lmax)
	fmax := numeric.Fang(99)

	sink := newRecordingSink()
	Scan(lmin, lmax, fmax, cache, sink)

	want := []numeric.Vamp{1260, 1395, 1435, 1530, 1827, 2187, 6880}
	got := distinct(sink.products)

	gotSet := map[numeric.Vamp]bool{}
	for _, v := range got {
		gotSet[v] = true
	}
	for _, w := range want {
		if !gotSet[w] {
			t.Errorf("expected %d to be found as a vampire number, wasn't", w)
		}
	}
}

// TestScanRejectsTrailingZeroPair checks the classic anti-trivial example:
// 126000 = 600 * 210 must NOT be reported as a vampire number, because both
// fangs end in zero.
func TestScanRejectsTrailingZeroPair(t *testing.T) {
	lmin, lmax := numeric.Vamp(100000), numeric.Vamp(999999)
	cache := signature.Build(lmax)
	fmax := numeric.Fang(999)

	sink := newRecordingSink()
	Scan(lmin, lmax, fmax, cache, sink)

	for _, pair := range sink.pairs[126000] {
		if numeric.NoTrailingZero(pair[0]) == false && numeric.NoTrailingZero(pair[1]) == false {
			t.Fatalf("126000 reported with both-trailing-zero fangs %v, violates anti-trivial rule", pair)
		}
	}
}

// TestScanSmallerFmaxStillFindsInRangeVampires checks that restricting fmax
// below the band's natural maximum only changes the multiplier ceiling, not
// correctness: every vampire number whose larger fang fits under the
// restricted ceiling is still found.
func TestScanSmallerFmaxStillFindsInRangeVampires(t *testing.T) {
	lmin, lmax := numeric.Vamp(1000), numeric.Vamp(9999)
	cache := signature.Build(lmax)

	sink := newRecordingSink()
	Scan(lmin, lmax, 60, cache, sink)

	got := distinct(sink.products)
	gotSet := map[numeric.Vamp]bool{}
	for _, v := range got {
		gotSet[v] = true
	}
	// 1260 = 21*60, both fangs <= 60, must still be found.
	if !gotSet[1260] {
		t.Fatalf("expected 1260 to be found with fmax=60")
	}
}

// TestScanFindsBothFangPairsOf125460 checks a vampire with two distinct fang
// pairs: 125460 = 204*615 = 246*510.
func TestScanFindsBothFangPairsOf125460(t *testing.T) {
	lmin, lmax := numeric.Vamp(100000), numeric.Vamp(999999)
	cache := signature.Build(lmax)
	fmax := numeric.Fang(999)

	sink := newRecordingSink()
	Scan(lmin, lmax, fmax, cache, sink)

	pairs := sink.pairs[125460]
	if len(pairs) != 2 {
		t.Fatalf("expected 2 fang pairs for 125460, got %d: %v", len(pairs), pairs)
	}
	want := map[[2]numeric.Fang]bool{{615, 204}: true, {510, 246}: true}
	for _, p := range pairs {
		if !want[p] {
			t.Fatalf("unexpected fang pair %v for 125460", p)
		}
	}
}

// TestScanEmptyBandReportsNothing exercises a band with no vampire numbers
// at all (the smallest possible band, [10, 99], has none: a single-digit
// fang pair can never reproduce its own concatenation's digit multiset
// since con9 and the length split rule out all of it in practice).
func TestScanEmptyBandReportsNothing(t *testing.T) {
	lmin, lmax := numeric.Vamp(10), numeric.Vamp(99)
	cache := signature.Build(lmax)
	fmax := numeric.Fang(9)

	sink := newRecordingSink()
	Scan(lmin, lmax, fmax, cache, sink)

	if len(sink.products) != 0 {
		t.Fatalf("expected no 2-digit vampire numbers, got %v", sink.products)
	}
}

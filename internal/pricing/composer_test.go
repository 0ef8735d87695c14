package pricing

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/seat-storefront/internal/catalog"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seatRegistry(t *testing.T) *catalog.Registry {
	t.Helper()
	r := catalog.NewRegistry()
	catalog.RegisterStatic(r)
	r.Expect(catalog.CategoryColor, catalog.MultiSelect)
	require.NoError(t, r.Resolve(catalog.CategoryColor, catalog.DefaultColors))
	return r
}

func TestComputeTotal_BucketRedDiamond(t *testing.T) {
	r := seatRegistry(t)
	sel := SelectionSet{
		catalog.CategorySeatType:  {"bucket"},
		catalog.CategoryColor:     {"red"},
		catalog.CategoryStitching: {"diamond"},
	}

	total := ComputeTotal(dec("500.00"), sel, r)
	assert.Equal(t, "625.00", total.StringFixed(2))
}

func TestComputeTotal_OrderIndependent(t *testing.T) {
	r := seatRegistry(t)
	ids := []string{"bucket", "bench", "captain", "racing", "standard"}
	want := ComputeTotal(dec("99.99"), SelectionSet{catalog.CategorySeatType: ids}, r)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]string(nil), ids...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := ComputeTotal(dec("99.99"), SelectionSet{catalog.CategorySeatType: shuffled}, r)
		assert.True(t, want.Equal(got), "shuffle %v: want %s got %s", shuffled, want, got)
	}
	assert.Equal(t, "484.99", want.StringFixed(2))
}

func TestComputeTotal_UnresolvedContributesZero(t *testing.T) {
	r := seatRegistry(t)
	sel := SelectionSet{catalog.CategoryMaterial: {"nonexistent-id"}}

	q := Compose(dec("500.00"), sel, r)
	assert.Equal(t, "500.00", q.Total.StringFixed(2))
	assert.Empty(t, q.Lines)
	assert.Equal(t, []Unresolved{{Category: catalog.CategoryMaterial, ID: "nonexistent-id"}}, q.Unresolved)

	unknownCategory := SelectionSet{"wings": {"gold"}}
	assert.Equal(t, "500.00", ComputeTotal(dec("500"), unknownCategory, r).StringFixed(2))
}

func TestComputeTotal_NoneEqualsNothing(t *testing.T) {
	r := seatRegistry(t)
	base := SelectionSet{catalog.CategorySeatType: {"bucket"}}
	withNone := base.Clone()
	withNone.Select(catalog.CategoryHeating, catalog.NoneID)

	a := ComputeTotal(dec("500"), base, r)
	b := ComputeTotal(dec("500"), withNone, r)
	assert.True(t, a.Equal(b))

	q := Compose(dec("500"), withNone, r)
	assert.Empty(t, q.Unresolved, "none resolves to the sentinel, it is not absent")
}

func TestComputeTotal_CatalogNotLoadedPricesAtZero(t *testing.T) {
	r := catalog.NewRegistry()
	r.Expect(catalog.CategoryColor, catalog.MultiSelect)

	total := ComputeTotal(dec("500"), SelectionSet{catalog.CategoryColor: {"red"}}, r)
	assert.Equal(t, "500.00", total.StringFixed(2))
}

func TestComputeTotal_SumsMultipleInSingleSelect(t *testing.T) {
	r := seatRegistry(t)
	sel := SelectionSet{catalog.CategoryStitching: {"double", "diamond"}}

	total := ComputeTotal(dec("100"), sel, r)
	assert.Equal(t, "205.00", total.StringFixed(2))
}

func TestCompose_NoFloatDrift(t *testing.T) {
	r := catalog.NewRegistry()
	opts := make([]catalog.Option, 0, 100)
	ids := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		id := string(rune('a'+i%26)) + decimal.NewFromInt(int64(i)).String()
		opts = append(opts, catalog.Option{ID: id, Name: id, Price: dec("0.10")})
		ids = append(ids, id)
	}
	r.Register(catalog.MustNew("extras", catalog.MultiSelect, opts...))

	total := ComputeTotal(dec("0.20"), SelectionSet{"extras": ids}, r)
	assert.Equal(t, "10.20", total.StringFixed(2))
}

func TestNormalize_EnforcesSingleSelect(t *testing.T) {
	r := seatRegistry(t)
	raw := SelectionSet{
		catalog.CategoryStitching: {"double", " ", "diamond"},
		catalog.CategoryColor:     {"red", "black", "red"},
	}

	got := Normalize(raw, r)
	assert.Equal(t, []string{"diamond"}, got[catalog.CategoryStitching])
	assert.Equal(t, []string{"red", "black"}, got[catalog.CategoryColor])
}

func TestSelectionSet_Mutations(t *testing.T) {
	s := SelectionSet{}
	s.Add(catalog.CategoryColor, "red")
	s.Add(catalog.CategoryColor, "tan")
	s.Add(catalog.CategoryColor, "red")
	assert.Equal(t, []string{"red", "tan"}, s[catalog.CategoryColor])

	s.Remove(catalog.CategoryColor, "red")
	assert.Equal(t, []string{"tan"}, s[catalog.CategoryColor])
	s.Remove(catalog.CategoryColor, "tan")
	_, ok := s[catalog.CategoryColor]
	assert.False(t, ok)

	s.Select(catalog.CategoryMaterial, "vinyl")
	s.Select(catalog.CategoryMaterial, "leather")
	assert.Equal(t, []string{"leather"}, s[catalog.CategoryMaterial])
}

func TestSignature_Canonical(t *testing.T) {
	a := SelectionSet{
		catalog.CategoryColor:    {"red", "black"},
		catalog.CategorySeatType: {"bucket"},
		catalog.CategoryHeating:  {catalog.NoneID},
	}
	b := SelectionSet{
		catalog.CategorySeatType: {"bucket"},
		catalog.CategoryColor:    {"black", "red"},
	}
	assert.Equal(t, a.Signature(), b.Signature())
	assert.Equal(t, "color=black,red;seat_type=bucket", a.Signature())
	assert.Empty(t, SelectionSet{}.Signature())

	c := SelectionSet{catalog.CategorySeatType: {"bench"}}
	assert.NotEqual(t, b.Signature(), c.Signature())
}

func TestDescribe(t *testing.T) {
	r := seatRegistry(t)
	sel := SelectionSet{
		catalog.CategoryStitching: {"diamond"},
		catalog.CategorySeatType:  {"bucket"},
		catalog.CategoryColor:     {"red"},
		catalog.CategoryHeating:   {catalog.NoneID},
		catalog.CategoryMaterial:  {"unobtainium"},
	}
	assert.Equal(t, "Bucket / Red / Diamond", Describe(sel, r, catalog.DescribeOrder))
	assert.Empty(t, Describe(SelectionSet{}, r, catalog.DescribeOrder))
}

package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamato-research/kessan-cli/internal/model"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBundleSetLastWriteWins(t *testing.T) {
	b := Bundle{}
	d := date("2023-03-31")
	b.Set("sales", d, 100)
	b.Set("sales", d, 200)

	v, ok := b.Get("sales", d)
	require.True(t, ok)
	assert.Equal(t, 200.0, v)
}

func TestDatesSortedUnion(t *testing.T) {
	b := Bundle{}
	b.Set("sales", date("2023-03-31"), 1)
	b.Set("assets", date("2022-03-31"), 2)
	b.Set("equity", date("2023-03-31"), 3)

	dates := b.Dates()
	require.Len(t, dates, 2)
	assert.Equal(t, date("2022-03-31"), dates[0])
	assert.Equal(t, date("2023-03-31"), dates[1])
}

func TestSelectPeriods(t *testing.T) {
	b := Bundle{}
	b.Set("sales", date("2023-03-31"), 1000)
	b.Set("sales", date("2022-03-31"), 900)
	b.Set("assets", date("2023-03-31"), 5000)

	keys := []string{"sales", "assets", "equity"}
	cur, prev, curDate, prevDate, err := SelectPeriods(b, keys)
	require.NoError(t, err)

	require.NotNil(t, curDate)
	assert.Equal(t, date("2023-03-31"), *curDate)
	require.NotNil(t, prevDate)
	assert.Equal(t, date("2022-03-31"), *prevDate)

	require.NotNil(t, cur.Get("sales"))
	assert.Equal(t, 1000.0, *cur.Get("sales"))
	require.NotNil(t, prev.Get("sales"))
	assert.Equal(t, 900.0, *prev.Get("sales"))

	// current has assets, previous does not; both snapshots carry every key
	assert.True(t, cur.Has("assets"))
	assert.False(t, prev.Has("assets"))
	for _, k := range keys {
		_, present := cur[k]
		assert.True(t, present, "current missing key %s", k)
		_, present = prev[k]
		assert.True(t, present, "previous missing key %s", k)
	}
}

func TestSelectPeriodsSingleDate(t *testing.T) {
	b := Bundle{}
	b.Set("sales", date("2023-03-31"), 1000)

	cur, prev, curDate, prevDate, err := SelectPeriods(b, []string{"sales"})
	require.NoError(t, err)
	assert.NotNil(t, curDate)
	assert.Nil(t, prevDate)
	assert.True(t, cur.Has("sales"))
	assert.False(t, prev.Has("sales"))
}

func TestSelectPeriodsEmpty(t *testing.T) {
	_, _, _, _, err := SelectPeriods(Bundle{}, []string{"sales"})
	assert.ErrorIs(t, err, ErrNoObservations)
}

func TestSynthesizeDebt(t *testing.T) {
	d := date("2023-03-31")
	b := Bundle{}
	b.Set("debt_short", d, 100)
	b.Set("debt_long", d, 200)
	b.Set("bonds", d, 50)

	Synthesize(b)

	v, ok := b.Get(model.KeyDebt, d)
	require.True(t, ok)
	assert.Equal(t, 350.0, v)
}

func TestSynthesizeDebtZeroGuard(t *testing.T) {
	d := date("2023-03-31")
	b := Bundle{}
	b.Set("debt_short", d, 0)
	b.Set("debt_long", d, 0)
	b.Set("bonds", d, 0)

	Synthesize(b)

	_, ok := b.Get(model.KeyDebt, d)
	assert.False(t, ok, "zero debt must stay unobserved")
}

func TestSynthesizeFCFAndEBITDA(t *testing.T) {
	d := date("2023-03-31")
	b := Bundle{}
	b.Set("ocf", d, 500)
	b.Set("capex", d, -200) // reported as an outflow
	b.Set("op", d, 300)
	b.Set("dep_amort", d, 80)

	Synthesize(b)

	fcf, ok := b.Get(model.KeyFCF, d)
	require.True(t, ok)
	assert.Equal(t, 300.0, fcf)

	ebitda, ok := b.Get(model.KeyEBITDA, d)
	require.True(t, ok)
	assert.Equal(t, 380.0, ebitda)
}

func TestSynthesizeRequiresBothInputs(t *testing.T) {
	d := date("2023-03-31")
	b := Bundle{}
	b.Set("ocf", d, 500) // no capex
	b.Set("op", d, 300)  // no dep_amort

	Synthesize(b)

	_, ok := b.Get(model.KeyFCF, d)
	assert.False(t, ok)
	_, ok = b.Get(model.KeyEBITDA, d)
	assert.False(t, ok)
}

func TestSynthesizePerDate(t *testing.T) {
	d1, d2 := date("2022-03-31"), date("2023-03-31")
	b := Bundle{}
	b.Set("ocf", d1, 100)
	b.Set("capex", d1, 40)
	b.Set("ocf", d2, 200) // capex missing in d2

	Synthesize(b)

	_, ok := b.Get(model.KeyFCF, d1)
	assert.True(t, ok)
	_, ok = b.Get(model.KeyFCF, d2)
	assert.False(t, ok)
}

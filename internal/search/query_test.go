package search

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

func TestEncode_OmitsEmptyDimensions(t *testing.T) {
	q := Query{
		Term:     "sushi",
		Cuisines: []string{"japanese"},
		Cities:   []string{"Tokyo"},
	}
	assert.Equal(t, "query=sushi&cuisines=japanese&city=Tokyo", q.Encode())
}

func TestEncode_WhitespaceTermIsAbsent(t *testing.T) {
	q := Query{Term: "   ", Prices: []string{"$", "$$"}}
	assert.Equal(t, "prices=%24%2C%24%24", q.Encode())
	assert.False(t, q.HasTerm())
}

func TestEncode_TrimsAndEscapesTerm(t *testing.T) {
	q := Query{Term: "  quiet spot & views ", Cities: []string{"San Francisco", "New York"}}
	assert.Equal(t, "query=quiet+spot+%26+views&city=San+Francisco%2CNew+York", q.Encode())
}

func TestEncode_Empty(t *testing.T) {
	assert.Equal(t, "", Query{}.Encode())
}

func TestRoundTrip(t *testing.T) {
	cases := []Query{
		{Term: "sushi"},
		{Term: "team dinner, vegetarian", Cuisines: []string{"indian", "italian"}},
		{Term: "lunch", Prices: []string{"$$$$", "$"}, Cities: []string{"Chicago"}},
		{Term: "late night", Cuisines: []string{"mexican"}, Prices: []string{"$$"}, Cities: []string{"San Francisco", "Kyoto"}},
	}
	for _, want := range cases {
		got := Parse(want.Encode())
		if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("round trip mismatch for %q (-want +got):\n%s", want.Encode(), diff)
		}
	}
}

func TestParse_Tolerant(t *testing.T) {
	q := Parse("?query=%20pho%20&cuisines=,,&city=Tokyo,%20,Chicago&junk=%zz")
	assert.Equal(t, "pho", q.Term)
	assert.Nil(t, q.Cuisines)
	assert.Equal(t, []string{"Tokyo", "Chicago"}, q.Cities)
	assert.Equal(t, "Tokyo,Chicago", q.CityParam())
}

func TestParse_DropsRepeatedValues(t *testing.T) {
	q := Parse("cuisines=japanese,japanese&prices=%24,%24,%24,%24&city=Tokyo,Kyoto,%20Tokyo")
	assert.Equal(t, []string{"japanese"}, q.Cuisines)
	assert.Equal(t, []string{"$"}, q.Prices)
	assert.Equal(t, []string{"Tokyo", "Kyoto"}, q.Cities)
	assert.Equal(t, "cuisines=japanese&prices=%24&city=Tokyo%2CKyoto", q.Encode())
}

func TestParse_BlankValuesAreAbsent(t *testing.T) {
	q := Parse("query=%20&city=%20")
	assert.False(t, q.HasTerm())
	assert.False(t, q.HasCity())
}

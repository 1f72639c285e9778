package reference

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadDealers(t *testing.T) {
	table := `dealerId,name,state,website
4136,Longo Toyota,CA,https://longotoyota.com
 04137 ,Toyota of Dallas,TX,
4136,Longo Duplicate,NV,
`
	dealers, err := ReadDealers(strings.NewReader(table))
	if err != nil {
		t.Fatal(err)
	}

	require.Equal(t, 2, dealers.Len())
	require.Equal(t, 1, dealers.Duplicates)

	dealer, ok := dealers.Lookup(4136)
	require.True(t, ok)
	require.Equal(t, Dealer{Code: 4136, State: "CA"}, dealer)

	dealer, ok = dealers.Lookup(4137)
	require.True(t, ok)
	require.Equal(t, "TX", dealer.State)

	_, ok = dealers.Lookup(1)
	require.False(t, ok)
}

func TestReadDealersInvalid(t *testing.T) {
	cases := []string{
		"",
		"dealerId,name\n1,foo\n",
		"dealerId,state\nabc,CA\n",
		"name,dealerId,state\nfoo,1\n",
	}
	for _, table := range cases {
		_, err := ReadDealers(strings.NewReader(table))
		require.Error(t, err, table)
	}
}

func TestLoadDealers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dealers.csv")
	err := os.WriteFile(path, []byte("dealerId,state\n100,WA\n"), 0600)
	if err != nil {
		t.Fatal(err)
	}

	dealers, err := LoadDealers(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 1, dealers.Len())

	_, err = LoadDealers(filepath.Join(t.TempDir(), "nope.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestModelTitle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.json")
	err := os.WriteFile(path, []byte(`[
		{"modelCode": "4runner", "title": "4Runner"},
		{"modelCode": "tacoma", "title": "Tacoma"},
		{"modelCode": "rav4hybrid", "title": "RAV4 Hybrid"}
	]`), 0600)
	if err != nil {
		t.Fatal(err)
	}

	models, err := LoadModels(path)
	if err != nil {
		t.Fatal(err)
	}

	title, err := models.Title("4runner")
	require.NoError(t, err)
	require.Equal(t, "4Runner", title)

	_, err = models.Title("tacomaa")
	var unknown UnknownModelError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "tacoma", unknown.Suggestion)
	require.Contains(t, err.Error(), `did you mean "tacoma"`)

	_, err = models.Title("zzzzzz")
	require.True(t, errors.As(err, &unknown))
	require.Empty(t, unknown.Suggestion)
}

package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
	"yotagrabber/internal/inventory"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	path := Path(filepath.Join(t.TempDir(), "output"), "4runner")
	require.Equal(t, "4runner_raw.db", filepath.Base(path))

	white := "Super White"
	msrp := 55000.0
	first := []inventory.RawVehicle{
		{
			VIN:        "ZZZ",
			Year:       2026,
			DealerCode: "04136",
			IsPreSold:  json.RawMessage("true"),
			ExtColor:   inventory.Color{MarketingName: &white},
			Price:      inventory.Price{BaseMsrp: &msrp},
			Options:    []inventory.Option{{MarketingName: "A"}},
		},
		{VIN: "AAA", Year: 2025, DealerCode: "100", IsPreSold: json.RawMessage("null")},
	}

	err := Save(ctx, path, first)
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, loaded); diff != "" {
		t.Fatalf("unexpected snapshot (-want +got):\n%s", diff)
	}

	// a second save replaces the first one
	second := []inventory.RawVehicle{{VIN: "BBB", Year: 2026}}
	err = Save(ctx, path, second)
	if err != nil {
		t.Fatal(err)
	}
	loaded, err = Load(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, loaded, 1)
	require.Equal(t, "BBB", loaded[0].VIN)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope_raw.db"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

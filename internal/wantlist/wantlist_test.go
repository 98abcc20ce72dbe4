package wantlist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func writeWantlist(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wantlist.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing wantlist: %v", err)
	}
	return path
}

func TestFile_Wants(t *testing.T) {
	path := writeWantlist(t, `[
		{
			"id": 1250468,
			"release_name": "Darkside",
			"artist_name": "Nicolas Jaar",
			"min_media_condition": "VG+",
			"accept_generic_sleeve": true,
			"price_threshold": 60
		},
		{
			"id": 741,
			"release_name": "Bare Minimum"
		}
	]`)

	wants, err := NewFile(path).Wants(context.Background())
	if err != nil {
		t.Fatalf("Wants returned error: %v", err)
	}
	if len(wants) != 2 {
		t.Fatalf("got %d wants, want 2", len(wants))
	}

	first := wants[0]
	if first.ReleaseID != 1250468 {
		t.Errorf("ReleaseID = %d, want 1250468", first.ReleaseID)
	}
	if first.DisplayName != "Darkside - Nicolas Jaar" {
		t.Errorf("DisplayName = %q", first.DisplayName)
	}
	if first.MinMediaCondition == nil || *first.MinMediaCondition != "VG+" {
		t.Errorf("MinMediaCondition = %v, want VG+", first.MinMediaCondition)
	}
	if first.AcceptGenericSleeve == nil || !*first.AcceptGenericSleeve {
		t.Error("AcceptGenericSleeve should be set")
	}
	if first.PriceThreshold == nil || !first.PriceThreshold.Equal(decimal.NewFromInt(60)) {
		t.Errorf("PriceThreshold = %v, want 60", first.PriceThreshold)
	}

	second := wants[1]
	if second.DisplayName != "Bare Minimum" {
		t.Errorf("DisplayName = %q, artist-less entries keep the bare name", second.DisplayName)
	}
	if second.MinMediaCondition != nil || second.PriceThreshold != nil {
		t.Error("absent overrides should stay nil so the globals apply")
	}
}

func TestFile_RejectsUnknownGradeOverride(t *testing.T) {
	path := writeWantlist(t, `[{"id": 1, "release_name": "X", "min_media_condition": "Mintish"}]`)

	if _, err := NewFile(path).Wants(context.Background()); err == nil {
		t.Error("a stale grade code should fail at load time")
	}
}

func TestFile_RejectsMissingID(t *testing.T) {
	path := writeWantlist(t, `[{"release_name": "X"}]`)

	if _, err := NewFile(path).Wants(context.Background()); err == nil {
		t.Error("an entry without a release id should fail")
	}
}

func TestFile_MissingFile(t *testing.T) {
	if _, err := NewFile("/nonexistent/wantlist.json").Wants(context.Background()); err == nil {
		t.Error("a missing wantlist file should fail")
	}
}

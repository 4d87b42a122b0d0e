package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/submission-digest-api/internal/models"
)

func TestInsertDigest_SQL(t *testing.T) {
	d := &models.Digest{
		ID:          "d-1",
		WindowStart: time.Date(2024, 5, 6, 0, 0, 0, 0, time.FixedZone("X", 2*3600)),
		WindowEnd:   time.Date(2024, 5, 12, 0, 0, 0, 0, time.FixedZone("X", 2*3600)),
		Locale:      "en-US",
		RecordCount: 2,
		Names:       []string{"B", "A"},
		HTML:        "<html></html>",
		CreatedAt:   time.Now(),
	}

	query, args, err := insertDigest(d).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	if !strings.HasPrefix(query, "INSERT INTO digests") {
		t.Errorf("unexpected query: %s", query)
	}
	if !strings.Contains(query, "$10") {
		t.Errorf("expected dollar placeholders, got %s", query)
	}
	if len(args) != 10 {
		t.Fatalf("expected 10 args, got %d", len(args))
	}
	// Window bounds are stored as calendar days in the window's own zone
	if args[1] != "2024-05-06" || args[2] != "2024-05-12" {
		t.Errorf("window args = %v, %v", args[1], args[2])
	}
	names, ok := args[6].(pq.StringArray)
	if !ok || len(names) != 2 || names[0] != "B" {
		t.Errorf("names arg = %#v", args[6])
	}
}

func TestSelectDigest_SQL(t *testing.T) {
	query, args, err := selectDigest("d-1").ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	if !strings.Contains(query, "html FROM digests WHERE id = $1") {
		t.Errorf("unexpected query: %s", query)
	}
	if len(args) != 1 || args[0] != "d-1" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestListDigests_SQL(t *testing.T) {
	query, _, err := listDigests(20, 40).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	if strings.Contains(query, "html") {
		t.Errorf("list query should not load html: %s", query)
	}
	if !strings.Contains(query, "ORDER BY created_at DESC, id LIMIT 20 OFFSET 40") {
		t.Errorf("unexpected query: %s", query)
	}
}

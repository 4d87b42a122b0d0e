package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/submission-digest-api/internal/models"
)

func TestResolve(t *testing.T) {
	c := Build([]models.GenreOption{
		{ID: 1, Value: "fiction", Label: "Fiction"},
		{ID: 2, Value: "poetry", Label: "Poetry"},
	})

	tests := []struct {
		name string
		ids  []int
		want string
	}{
		{"two known ids", []int{1, 2}, "Fiction, Poetry"},
		{"input order kept", []int{2, 1}, "Poetry, Fiction"},
		{"single id", []int{1}, "Fiction"},
		{"no ids", nil, ""},
		{"unknown id in the middle", []int{1, 99, 2}, "Fiction, , Poetry"},
		{"repeated id", []int{2, 2}, "Poetry, Poetry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Resolve(tt.ids))
		})
	}
}

func TestResolve_SegmentCountMatchesInput(t *testing.T) {
	c := Build([]models.GenreOption{{ID: 1, Label: "Fiction"}, {ID: 3, Label: "Art"}})

	inputs := [][]int{{1}, {1, 3}, {7, 8, 9}, {1, 42, 3, 0}}
	for _, ids := range inputs {
		got := c.Resolve(ids)
		assert.Len(t, strings.Split(got, Separator), len(ids), "ids %v resolved to %q", ids, got)
	}
}

func TestResolveReport_Unknown(t *testing.T) {
	c := Build([]models.GenreOption{{ID: 1, Label: "Fiction"}})

	joined, unknown := c.ResolveReport([]int{5, 1, 6})
	assert.Equal(t, ", Fiction, ", joined)
	assert.Equal(t, []int{5, 6}, unknown)
}

func TestBuild_LaterDuplicateWins(t *testing.T) {
	c := Build([]models.GenreOption{
		{ID: 1, Label: "Fiction"},
		{ID: 1, Label: "Short Fiction"},
	})

	label, ok := c.Label(1)
	require.True(t, ok)
	assert.Equal(t, "Short Fiction", label)
	assert.Equal(t, 1, c.Len())
	assert.Len(t, c.Options(), 2)
}

func TestBuild_CopiesInput(t *testing.T) {
	opts := []models.GenreOption{{ID: 1, Label: "Fiction"}}
	c := Build(opts)
	opts[0].Label = "Changed"

	assert.Equal(t, "Fiction", c.Options()[0].Label)
	assert.Equal(t, "Fiction", c.Resolve([]int{1}))
}

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Fiction, Poetry", c.Resolve([]int{1, 2}))
	assert.Greater(t, c.Len(), 10)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "genres.yaml")
	require.NoError(t, os.WriteFile(valid, []byte("genres:\n  - id: 4\n    value: zines\n    label: Zines\n"), 0o644))

	c, err := Load(valid)
	require.NoError(t, err)
	assert.Equal(t, "Zines", c.Resolve([]int{4}))

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("genres: []\n"), 0o644))
	_, err = Load(empty)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	c, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "Poetry", c.Resolve([]int{2}))
}

package hg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merc/internal/domain"
)

func TestParseStatus(t *testing.T) {
	out := "M src/main.go\nA new file.txt\nR old.txt\n! missing.txt\n? untracked.txt\n"

	statuses, err := ParseStatus(out)

	require.NoError(t, err)
	assert.Equal(t, []domain.FileStatus{
		{Code: domain.StatusModified, Path: "src/main.go"},
		{Code: domain.StatusAdded, Path: "new file.txt"},
		{Code: domain.StatusRemoved, Path: "old.txt"},
		{Code: domain.StatusMissing, Path: "missing.txt"},
	}, statuses)
	assert.True(t, statuses[2].IsDeletion())
	assert.True(t, statuses[3].IsDeletion())
	assert.False(t, statuses[0].IsDeletion())
}

func TestParseStatus_Empty(t *testing.T) {
	statuses, err := ParseStatus("")

	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestParseStatus_Malformed(t *testing.T) {
	_, err := ParseStatus("Mfile\n")

	assert.Error(t, err)
}

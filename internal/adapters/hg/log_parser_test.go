package hg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merc/internal/domain"
)

// logEntry builds the sectioned log text hg prints for one commit
type logEntry struct {
	adds    []string
	copies  [][2]string
	current bool
	dels    []string
	hash    string
	mods    []string
	parent  string
	phase   string
}

func (e logEntry) String() string {
	var b strings.Builder
	b.WriteString("----node\n" + e.hash + "\n")
	b.WriteString("----p1node\n" + e.parent + "\n")
	b.WriteString("----current\n")
	if e.current {
		b.WriteString("1\n")
	}
	b.WriteString("----phase\n" + e.phase + "\n")
	b.WriteString("----file_adds\n")
	for _, f := range e.adds {
		b.WriteString(f + "\n")
	}
	b.WriteString("----file_copies\n")
	for _, c := range e.copies {
		b.WriteString(c[0] + "\n" + c[1] + "\n")
	}
	b.WriteString("----file_dels\n")
	for _, f := range e.dels {
		b.WriteString(f + "\n")
	}
	b.WriteString("----file_mods\n")
	for _, f := range e.mods {
		b.WriteString(f + "\n")
	}
	return b.String()
}

func buildLog(entries ...logEntry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.String())
	}
	return b.String()
}

func recordsByHash(records []domain.CommitRecord) map[string]domain.CommitRecord {
	out := make(map[string]domain.CommitRecord, len(records))
	for _, r := range records {
		out[r.Hash] = r
	}
	return out
}

func TestParseSubtreeLog_Scenario(t *testing.T) {
	text := buildLog(
		logEntry{hash: "a1", parent: "0000000000000000000000000000000000000000", phase: "public"},
		logEntry{hash: "b1", parent: "a1", phase: "draft", current: true, adds: []string{"x.txt"}},
	)

	records, err := ParseSubtreeLog(text)

	require.NoError(t, err)
	require.Len(t, records, 2)

	byHash := recordsByHash(records)
	a := byHash["a1"]
	assert.Equal(t, "", a.ParentHash)
	assert.Equal(t, domain.PhasePublic, a.Phase)
	assert.False(t, a.IsCurrentRevision)

	b := byHash["b1"]
	assert.Equal(t, "a1", b.ParentHash)
	assert.Equal(t, domain.PhaseDraft, b.Phase)
	assert.True(t, b.IsCurrentRevision)
	assert.Equal(t, domain.NewFileSet("x.txt"), b.AddedFiles)
	assert.Empty(t, b.ModifiedFiles)
	assert.Empty(t, b.DeletedFiles)
	assert.Empty(t, b.CopiedFiles)
}

func TestParseSubtreeLog_FieldsMatchSections(t *testing.T) {
	entry := logEntry{
		hash:   "c3",
		parent: "b2",
		phase:  "draft",
		adds:   []string{"new/a.go", "new/b.go"},
		copies: [][2]string{{"old/x.go", "new/x.go"}, {"lib/y.go", "lib/z.go"}},
		dels:   []string{"gone.txt"},
		mods:   []string{"README.md", "dir with space/file.txt"},
	}

	records, err := ParseSubtreeLog(buildLog(logEntry{hash: "b2", phase: "public"}, entry))

	require.NoError(t, err)
	c := recordsByHash(records)["c3"]
	assert.ElementsMatch(t, []string{"new/a.go", "new/b.go"}, c.AddedFiles.Sorted())
	assert.ElementsMatch(t, []string{"gone.txt"}, c.DeletedFiles.Sorted())
	assert.ElementsMatch(t, []string{"README.md", "dir with space/file.txt"}, c.ModifiedFiles.Sorted())
	assert.Len(t, c.CopiedFiles, 2)
	assert.Contains(t, c.CopiedFiles, domain.CopiedFile{Source: "old/x.go", Dest: "new/x.go"})
	assert.Contains(t, c.CopiedFiles, domain.CopiedFile{Source: "lib/y.go", Dest: "lib/z.go"})
}

func TestParseSubtreeLog_NRecordsUniqueHashes(t *testing.T) {
	entries := []logEntry{{hash: "h0", phase: "public"}}
	for i := 1; i < 25; i++ {
		entries = append(entries, logEntry{
			hash:   "h" + strings.Repeat("x", i),
			parent: "h0",
			phase:  "draft",
		})
	}

	records, err := ParseSubtreeLog(buildLog(entries...))

	require.NoError(t, err)
	assert.Len(t, records, len(entries))
	assert.Len(t, recordsByHash(records), len(entries))
}

func TestParseSubtreeLog_CopyLinesThatLookLikeMarkers(t *testing.T) {
	// "----file_mods" is not the expected next marker while reading copies
	entry := logEntry{hash: "c1", phase: "draft", copies: [][2]string{{"----file_mods", "----node"}}}

	records, err := ParseSubtreeLog(buildLog(entry))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0].CopiedFiles, domain.CopiedFile{Source: "----file_mods", Dest: "----node"})
}

func TestParseSubtreeLog_DuplicateCurrentRevision(t *testing.T) {
	text := buildLog(
		logEntry{hash: "a1", phase: "public", current: true},
		logEntry{hash: "b1", parent: "a1", phase: "draft", current: true},
	)

	_, err := ParseSubtreeLog(text)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateCurrentRevision)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestParseSubtreeLog_SecondCurrentLineInSameRecord(t *testing.T) {
	text := "----node\na1\n----p1node\n\n----current\n1\n1\n----phase\npublic\n"

	_, err := ParseSubtreeLog(text)

	assert.ErrorIs(t, err, domain.ErrDuplicateCurrentRevision)
}

func TestParseSubtreeLog_InvalidPhase(t *testing.T) {
	_, err := ParseSubtreeLog(buildLog(logEntry{hash: "a1", phase: "secret"}))

	assert.ErrorIs(t, err, domain.ErrInvalidPhase)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestParseSubtreeLog_CopyWithoutDestination(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"at end of input", "----node\na1\n----p1node\n\n----current\n----phase\ndraft\n----file_adds\n----file_copies\nsrc.txt"},
		{"before next marker", "----node\na1\n----p1node\n\n----current\n----phase\ndraft\n----file_adds\n----file_copies\nsrc.txt\n----file_dels\n----file_mods\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSubtreeLog(tt.text)
			assert.ErrorIs(t, err, domain.ErrMalformedCopy)
		})
	}
}

func TestParseSubtreeLog_DuplicateHash(t *testing.T) {
	text := buildLog(logEntry{hash: "a1", phase: "public"}, logEntry{hash: "a1", phase: "draft"})

	_, err := ParseSubtreeLog(text)

	assert.ErrorIs(t, err, domain.ErrDuplicateHash)
}

func TestParseSubtreeLog_LinesBeforeFirstNodeAreDiscarded(t *testing.T) {
	text := "garbage\n1\n----phase\nnot-a-phase\n" + buildLog(logEntry{hash: "a1", phase: "public"})

	records, err := ParseSubtreeLog(text)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a1", records[0].Hash)
	assert.False(t, records[0].IsCurrentRevision)
}

func TestParseSubtreeLog_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "\n", "\r\n"} {
		records, err := ParseSubtreeLog(text)
		require.NoError(t, err)
		assert.Empty(t, records)
	}
}

func TestParseSubtreeLog_WindowsLineEndings(t *testing.T) {
	text := strings.ReplaceAll(buildLog(
		logEntry{hash: "a1", phase: "public"},
		logEntry{hash: "b1", parent: "a1", phase: "draft", mods: []string{"m.txt"}},
	), "\n", "\r\n")

	records, err := ParseSubtreeLog(text)

	require.NoError(t, err)
	b := recordsByHash(records)["b1"]
	assert.Equal(t, "a1", b.ParentHash)
	assert.True(t, b.ModifiedFiles.Has("m.txt"))
}

func TestParseSubtreeLog_RecordWithoutHash(t *testing.T) {
	_, err := ParseSubtreeLog("----node\n----p1node\n\n")

	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestIsNullHash(t *testing.T) {
	assert.True(t, isNullHash("0000000000000000000000000000000000000000"))
	assert.False(t, isNullHash(""))
	assert.False(t, isNullHash("a1"))
}

func TestSubtreeRevset(t *testing.T) {
	assert.Equal(t,
		"descendants(not public() and children(last(public() and ancestors(.)))) or last(public() and ancestors(.))",
		subtreeRevset("."))
}

package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ReassignmentFileName)

	doc := NewAssignmentDoc(
		[]PartitionAssignment{
			{Topic: "orders", Partition: 0, Replicas: []int{2, 1, 3}},
		},
	)

	require.NoError(t, WriteFile(path, doc))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	parsed, err := UnmarshalAssignmentDoc(contents)
	require.NoError(t, err)
	assert.Equal(t, doc, parsed)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ElectionFileName)

	first := ElectionDoc{Partitions: []TopicPartition{{Topic: "a", Partition: 0}}}
	second := ElectionDoc{Partitions: []TopicPartition{{Topic: "b", Partition: 1}}}

	require.NoError(t, WriteFile(path, first))
	require.NoError(t, WriteFile(path, second))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	parsed, err := UnmarshalElectionDoc(contents)
	require.NoError(t, err)
	assert.Equal(t, second, parsed)
}

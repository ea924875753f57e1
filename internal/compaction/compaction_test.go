package compaction

import (
	"testing"

	"github.com/cmsd2/kvs/internal/command"
	"github.com/cmsd2/kvs/internal/index"
	"github.com/cmsd2/kvs/internal/segment"
	"github.com/cmsd2/kvs/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestRunKeepsOnlyLiveRecordsAndRemovesOldSegments(t *testing.T) {
	dir := segment.NewDirectory(t.TempDir(), "kvs")

	id1, seg1, err := dir.Create()
	require.NoError(t, err)
	off1, err := seg1.Append(mustEncode(t, command.Set("a", "1")))
	require.NoError(t, err)
	_, err = seg1.Append(mustEncode(t, command.Set("a", "2")))
	require.NoError(t, err)

	id2, seg2, err := dir.Create()
	require.NoError(t, err)
	off2, err := seg2.Append(mustEncode(t, command.Set("b", "3")))
	require.NoError(t, err)
	_, err = seg2.Append(mustEncode(t, command.Remove("c")))
	require.NoError(t, err)

	_ = off1

	snapshot := map[string]index.Pointer{
		"a": {SegmentID: id1, Offset: mustLastOffset(t, seg1, command.Set("a", "2"))},
		"b": {SegmentID: id2, Offset: off2},
	}

	open := map[uint64]*segment.Segment{id1: seg1, id2: seg2}

	c := New(logger.Nop())
	result, err := c.Run(dir, snapshot, []uint64{id1, id2}, open)
	require.NoError(t, err)
	defer result.Segment.Close()

	require.Len(t, result.Index, 2)
	require.Contains(t, result.Index, "a")
	require.Contains(t, result.Index, "b")

	ids, err := dir.List()
	require.NoError(t, err)
	require.Equal(t, []uint64{result.SegmentID}, ids)

	var seen int
	err = result.Segment.Scan(func(text string, offset int64) (bool, error) {
		seen++
		return true, nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, seen)
}

func mustEncode(t *testing.T, cmd command.Command) string {
	t.Helper()
	line, err := command.Encode(cmd)
	require.NoError(t, err)
	return line
}

// mustLastOffset re-appends nothing; it scans seg and returns the offset
// of the last record whose key and value match cmd, since the test above
// did not keep the offset Append returned for seg1's second record.
func mustLastOffset(t *testing.T, seg *segment.Segment, cmd command.Command) int64 {
	t.Helper()
	var last int64
	err := seg.Scan(func(text string, offset int64) (bool, error) {
		decoded, err := command.Decode(text)
		require.NoError(t, err)
		if decoded.Key == cmd.Key && decoded.Value == cmd.Value {
			last = offset
		}
		return true, nil
	})
	require.NoError(t, err)
	return last
}

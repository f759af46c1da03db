package allotment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinVisitsEachCandidateOnce(t *testing.T) {
	policy := NewRoundRobin()
	ids := []int64{11, 22, 33, 44}

	seen := make(map[int64]int)
	for range ids {
		pick, ok := policy.Allot(ids)
		require.True(t, ok)
		seen[pick]++
	}

	// 候选人不变的情况下，N 次选择每个人恰好轮到一次
	for _, id := range ids {
		assert.Equal(t, 1, seen[id])
	}
}

func TestRoundRobinWrapsAround(t *testing.T) {
	policy := NewRoundRobin()
	ids := []int64{1, 2}

	first, _ := policy.Allot(ids)
	second, _ := policy.Allot(ids)
	third, _ := policy.Allot(ids)

	assert.NotEqual(t, first, second)
	assert.Equal(t, first, third)
}

func TestRoundRobinCursorSurvivesListChanges(t *testing.T) {
	policy := NewRoundRobin()

	pick, ok := policy.Allot([]int64{1, 2, 3})
	require.True(t, ok)
	assert.EqualValues(t, 1, pick)

	// 游标不会因为候选人列表变化而重置
	pick, ok = policy.Allot([]int64{7, 8})
	require.True(t, ok)
	assert.EqualValues(t, 8, pick)
}

func TestRoundRobinEmptyList(t *testing.T) {
	policy := NewRoundRobin()

	_, ok := policy.Allot(nil)
	assert.False(t, ok)
}

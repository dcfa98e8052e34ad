package seat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectAdjoining(t *testing.T) {
	tests := []struct {
		name        string
		available   []int
		count       int
		expected    []int
		expectedErr error
	}{
		{
			name:      "先頭の並びが短く後方の並びが条件を満たす",
			available: []int{3, 4, 5, 8, 9, 10, 11},
			count:     4,
			expected:  []int{8, 9, 10, 11},
		},
		{
			name:      "最初に条件を満たす並びが選ばれる",
			available: []int{1, 2, 3, 10, 11, 12},
			count:     3,
			expected:  []int{1, 2, 3},
		},
		{
			name:      "並び全体より少ない席数は先頭から取る",
			available: []int{5, 6, 7, 8},
			count:     2,
			expected:  []int{5, 6},
		},
		{
			name:      "1席なら最小のIDが選ばれる",
			available: []int{7, 9, 13},
			count:     1,
			expected:  []int{7},
		},
		{
			name:        "十分な長さの並びがない",
			available:   []int{1, 3, 5, 7, 9},
			count:       2,
			expectedErr: ErrNoAdjoiningBlock,
		},
		{
			name:        "空席数自体が不足している",
			available:   []int{1, 2},
			count:       3,
			expectedErr: ErrNoAdjoiningBlock,
		},
		{
			name:        "空席なし",
			available:   []int{},
			count:       1,
			expectedErr: ErrNoAdjoiningBlock,
		},
		{
			name:      "0席の要求は空の結果",
			available: []int{1, 2, 3},
			count:     0,
			expected:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectAdjoining(tt.available, tt.count)
			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestSelectAdjoining_LastRunQualifies(t *testing.T) {
	// 条件を満たす並びが列の末尾で終わる場合も選択できる
	got, err := SelectAdjoining([]int{1, 5, 6, 7}, 3)

	require.NoError(t, err)
	assert.Equal(t, []int{5, 6, 7}, got)
}

func TestSelectFirst(t *testing.T) {
	tests := []struct {
		name        string
		available   []int
		count       int
		expected    []int
		expectedErr error
	}{
		{
			name:      "先頭から昇順に選ばれる",
			available: []int{2, 5, 9, 14},
			count:     3,
			expected:  []int{2, 5, 9},
		},
		{
			name:      "全席を選べる",
			available: []int{1, 2, 3},
			count:     3,
			expected:  []int{1, 2, 3},
		},
		{
			name:        "空席数が不足している",
			available:   []int{1, 2},
			count:       5,
			expectedErr: ErrInsufficientSeats,
		},
		{
			name:      "0席の要求は空の結果",
			available: []int{1, 2, 3},
			count:     0,
			expected:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectFirst(tt.available, tt.count)
			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestPartitionByCategory(t *testing.T) {
	t.Run("カテゴリ0が最小の区間を受け取る", func(t *testing.T) {
		parts := PartitionByCategory([]int{8, 9, 10, 11, 12}, []int{2, 3})

		require.Len(t, parts, 2)
		assert.Equal(t, []int{8, 9}, parts[0])
		assert.Equal(t, []int{10, 11, 12}, parts[1])
	})

	t.Run("枚数0のカテゴリは空の区間を受け取る", func(t *testing.T) {
		parts := PartitionByCategory([]int{4, 5, 6}, []int{0, 3, 0})

		require.Len(t, parts, 3)
		assert.Empty(t, parts[0])
		assert.Equal(t, []int{4, 5, 6}, parts[1])
		assert.Empty(t, parts[2])
	})

	t.Run("全カテゴリに分配される", func(t *testing.T) {
		parts := PartitionByCategory([]int{1, 2, 3, 4}, []int{1, 1, 1, 1})

		require.Len(t, parts, 4)
		for i, p := range parts {
			assert.Equal(t, []int{i + 1}, p)
		}
	})
}

package seat

// SelectAdjoining は昇順・重複なしの空席ID列から、連続するcount席のブロックを1つ選ぶ
// ID列を連続整数の極大な並びの集まりとみなし、1回の走査で長さcount以上に達した
// 最初（開始IDが最小）の並びの先頭count席を返す
// 条件を満たす並びがなければErrNoAdjoiningBlockを返し、部分的な選択は行わない
func SelectAdjoining(available []int, count int) ([]int, error) {
	if count <= 0 {
		return nil, nil
	}
	runStart := 0
	for i := range available {
		if i > 0 && available[i] != available[i-1]+1 {
			runStart = i
		}
		if i-runStart+1 == count {
			return available[runStart : i+1 : i+1], nil
		}
	}
	return nil, ErrNoAdjoiningBlock
}

// SelectFirst は昇順の空席ID列から先頭count席を選ぶ
// 空席数が不足する場合はErrInsufficientSeatsを返す
func SelectFirst(available []int, count int) ([]int, error) {
	if count <= 0 {
		return nil, nil
	}
	if count > len(available) {
		return nil, ErrInsufficientSeats
	}
	return available[:count:count], nil
}

// PartitionByCategory は昇順の座席ID列をカテゴリ順に分配する
// カテゴリ0が最小のIDから順にcounts[0]席を受け取り、以降のカテゴリが続く
// len(ids) == sum(counts) であることは呼び出し側が保証する
func PartitionByCategory(ids []int, counts []int) [][]int {
	parts := make([][]int, len(counts))
	pos := 0
	for i, n := range counts {
		parts[i] = ids[pos : pos+n : pos+n]
		pos += n
	}
	return parts
}

package types

// Difficulty 难度索引，持久化为整数
type Difficulty int

const (
	DifficultyEasy   Difficulty = 0
	DifficultyNormal Difficulty = 1
	DifficultyHard   Difficulty = 2
)

// DefaultDifficulty 未设置偏好时使用普通难度
const DefaultDifficulty = DifficultyNormal

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyHard:
		return "hard"
	case DifficultyNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// Valid 是否为已知难度
func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

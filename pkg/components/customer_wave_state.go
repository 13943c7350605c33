package components

// CustomerWaveStateComponent 顾客波次状态组件
//
// 用于标记顾客属于哪一波，以及在本波中的序号
type CustomerWaveStateComponent struct {
	// WaveIndex 所属波次索引（0-based）
	WaveIndex int

	// IndexInWave 在本波中的索引（0, 1, 2...）
	IndexInWave int
}

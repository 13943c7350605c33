package systems

import (
	"github.com/gonewx/zombiewash/pkg/config"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/game"
	"github.com/gonewx/zombiewash/pkg/scheduler"
	"github.com/gonewx/zombiewash/pkg/utils"
	log "github.com/sirupsen/logrus"
)

// CustomerSpawner 创建和丢弃顾客（由 CustomerSystem 实现）
type CustomerSpawner interface {
	SpawnCustomer(at utils.Vec3, wave config.WaveConfig, waveIndex, indexInWave int) ecs.EntityID
	Destroy(customer ecs.EntityID)
}

// CustomerEnqueuer 接收新顾客的队伍（由 game.QueueManager 实现）
type CustomerEnqueuer interface {
	Enqueue(customer ecs.EntityID)
}

// WaveSpawnSystem 波次生成系统
//
// 职责：
//   - 按顺序执行波次：波次前延迟 → 按间隔生成 zombiesCount 位顾客 → 等待本波顾客全部离场
//   - 最后一波结束后循环或宣布胜利（只宣布一次）
//   - 维护活跃顾客集合，顾客销毁时移除（幂等）
//
// 架构说明：
//   - 整个波次流程是 scheduler 上的延续链（After / WaitUntil），不占用独立的每帧逻辑
//   - 生成失败、没有生成点、入队异常都只记录日志并跳过，不会中断后续生成
type WaveSpawnSystem struct {
	scheduler   *scheduler.Scheduler
	gameState   *game.GameState
	spawner     CustomerSpawner
	queue       CustomerEnqueuer
	waves       []config.WaveConfig
	spawnPoints []utils.Vec3
	loop        bool

	active         map[ecs.EntityID]struct{}
	nextSpawnPoint int
	pending        scheduler.Handle
	started        bool
	stopped        bool
	victoryFired   bool

	// OnWaveStarted 波次开始回调（number 从 1 开始）
	OnWaveStarted func(number, total int)
	// OnVictory 所有波次完成回调
	OnVictory func()
}

// NewWaveSpawnSystem 创建波次生成系统
//
// 参数：
//
//	sched - 任务调度器
//	gs - 游戏状态（波次计数、胜利标记）
//	spawner - 顾客创建者
//	queue - 新顾客加入的队伍
//	waves - 本局难度对应的波次列表
//	spawnPoints - 顾客生成点（轮流使用）
//	loop - 最后一波后是否循环
//	maxWaves - 最多执行的波次数
func NewWaveSpawnSystem(sched *scheduler.Scheduler, gs *game.GameState, spawner CustomerSpawner, queue CustomerEnqueuer,
	waves []config.WaveConfig, spawnPoints []utils.Vec3, loop bool, maxWaves int) *WaveSpawnSystem {

	total := len(waves)
	if maxWaves < 1 {
		maxWaves = 1
	}
	if total > maxWaves {
		total = maxWaves
	}

	return &WaveSpawnSystem{
		scheduler:   sched,
		gameState:   gs,
		spawner:     spawner,
		queue:       queue,
		waves:       waves[:total],
		spawnPoints: spawnPoints,
		loop:        loop,
		active:      make(map[ecs.EntityID]struct{}),
	}
}

// TotalWaves 本局总波次
func (s *WaveSpawnSystem) TotalWaves() int {
	return len(s.waves)
}

// ActiveCount 活跃顾客数
func (s *WaveSpawnSystem) ActiveCount() int {
	return len(s.active)
}

// Start 开始第一波，重复调用为空操作
func (s *WaveSpawnSystem) Start() {
	if s.started {
		return
	}
	s.started = true
	if len(s.waves) == 0 {
		log.Warnf("[WaveSpawnSystem] No waves configured, nothing to spawn")
		return
	}
	if len(s.spawnPoints) == 0 {
		log.Warnf("[WaveSpawnSystem] No spawn points configured, every spawn will be skipped")
	}
	s.startWave(0)
}

// Stop 停止波次流程（场景销毁）
func (s *WaveSpawnSystem) Stop() {
	s.stopped = true
	s.scheduler.Cancel(s.pending)
}

// OnCustomerRemoved 顾客销毁通知（实现 CustomerRemovalListener）
// 重复通知不会使计数变为负数
func (s *WaveSpawnSystem) OnCustomerRemoved(customer ecs.EntityID) {
	delete(s.active, customer)
}

func (s *WaveSpawnSystem) startWave(index int) {
	if s.stopped {
		return
	}
	wave := s.waves[index]
	number, total := index+1, len(s.waves)
	s.gameState.CurrentWave = number
	s.gameState.TotalWaves = total

	log.Printf("[WaveSpawnSystem] Wave %d/%d %q: %d customers every %.1fs, patience %.0fs (starts in %.1fs)",
		number, total, wave.Name, wave.ZombiesCount, wave.TimeBetweenZombies, wave.ZombieWaitTime, wave.WaveStartDelay)
	if s.OnWaveStarted != nil {
		s.OnWaveStarted(number, total)
	}

	s.pending = s.scheduler.After(wave.WaveStartDelay, func() { s.spawnNext(index, 0) })
}

// spawnNext 生成本波第 k 位顾客，然后等待间隔
// 全部生成后等待活跃顾客清空
func (s *WaveSpawnSystem) spawnNext(index, k int) {
	if s.stopped {
		return
	}
	wave := s.waves[index]
	if k >= wave.ZombiesCount {
		s.pending = s.scheduler.WaitUntil(
			func() bool { return len(s.active) == 0 },
			func() { s.finishWave(index) },
		)
		return
	}

	s.spawnOne(index, k)
	s.pending = s.scheduler.After(wave.TimeBetweenZombies, func() { s.spawnNext(index, k+1) })
}

func (s *WaveSpawnSystem) spawnOne(index, k int) {
	if len(s.spawnPoints) == 0 {
		log.Warnf("[WaveSpawnSystem] Skipping customer %d of wave %d: no spawn points", k, index+1)
		return
	}
	at := s.spawnPoints[s.nextSpawnPoint%len(s.spawnPoints)]
	s.nextSpawnPoint++

	id := s.spawner.SpawnCustomer(at, s.waves[index], index, k)
	if id == ecs.InvalidEntity {
		log.Warnf("[WaveSpawnSystem] Skipping customer %d of wave %d: spawn failed", k, index+1)
		return
	}
	s.active[id] = struct{}{}

	if !s.enqueue(id) {
		s.spawner.Destroy(id)
	}
}

// enqueue 加入队伍，队伍异常不能中断生成循环
func (s *WaveSpawnSystem) enqueue(id ecs.EntityID) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("[WaveSpawnSystem] Enqueue of customer %d failed: %v", id, r)
			ok = false
		}
	}()
	s.queue.Enqueue(id)
	return true
}

func (s *WaveSpawnSystem) finishWave(index int) {
	if s.stopped {
		return
	}
	log.Printf("[WaveSpawnSystem] Wave %d/%d cleared", index+1, len(s.waves))

	next := index + 1
	if next < len(s.waves) {
		s.startWave(next)
		return
	}
	if s.loop {
		s.startWave(0)
		return
	}
	s.declareVictory()
}

func (s *WaveSpawnSystem) declareVictory() {
	if s.victoryFired {
		return
	}
	s.victoryFired = true
	s.gameState.Victory = true
	log.Printf("[WaveSpawnSystem] All %d waves cleared, victory", len(s.waves))
	if s.OnVictory != nil {
		s.OnVictory()
	}
}

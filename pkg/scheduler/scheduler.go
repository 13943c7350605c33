// Package scheduler 提供单线程协作式定时任务
//
// 模拟中所有"等待"都通过这里表达：
//   - After(delay, fn)：延迟 delay 秒后执行 fn（出场延迟、取货停顿、波次前延迟）
//   - WaitUntil(pred, fn)：每帧检查 pred，成立后执行 fn（等待波次清空）
//
// 任务只在 Update 中执行，与其他系统在同一帧循环中交替运行，不需要加锁。
// 在回调中新建的任务最早在下一次 Update 才会被检查，保证单帧内不会无限展开。
package scheduler

import "sort"

// Handle 任务句柄，用于取消任务；0 为无效句柄
type Handle uint64

type taskKind int

const (
	kindDelay taskKind = iota
	kindWaitUntil
)

type task struct {
	id     Handle
	kind   taskKind
	due    float64     // kindDelay 的到期时间
	pred   func() bool // kindWaitUntil 的条件
	fn     func()
	cancel bool
}

// Scheduler 任务调度器
type Scheduler struct {
	now    float64
	nextID Handle
	tasks  []*task
	byID   map[Handle]*task
}

// New 创建调度器
func New() *Scheduler {
	return &Scheduler{
		nextID: 1,
		byID:   make(map[Handle]*task),
	}
}

// Now 当前模拟时间（秒）
func (s *Scheduler) Now() float64 {
	return s.now
}

// Pending 未执行的任务数量
func (s *Scheduler) Pending() int {
	return len(s.byID)
}

// After 在 delay 秒后执行 fn
// delay <= 0 时在下一次 Update 执行
func (s *Scheduler) After(delay float64, fn func()) Handle {
	if delay < 0 {
		delay = 0
	}
	return s.add(&task{kind: kindDelay, due: s.now + delay, fn: fn})
}

// WaitUntil 每次 Update 检查 pred，首次成立时执行 fn
func (s *Scheduler) WaitUntil(pred func() bool, fn func()) Handle {
	return s.add(&task{kind: kindWaitUntil, pred: pred, fn: fn})
}

// Cancel 取消任务
// 返回 false 表示任务不存在（已执行或已取消）
func (s *Scheduler) Cancel(h Handle) bool {
	t, ok := s.byID[h]
	if !ok {
		return false
	}
	t.cancel = true
	delete(s.byID, h)
	return true
}

// IsPending 任务是否仍在等待
func (s *Scheduler) IsPending(h Handle) bool {
	_, ok := s.byID[h]
	return ok
}

// Update 推进时间并执行到期的任务
//
// 执行顺序：到期的延迟任务按 (到期时间, 创建顺序)，随后是条件已满足的等待任务（按创建顺序）
func (s *Scheduler) Update(dt float64) {
	if dt > 0 {
		s.now += dt
	}

	// 只处理本帧开始时已存在的任务，回调中新增的任务追加在切片尾部，不在 current 范围内
	current := s.tasks

	ready := make([]*task, 0)
	for _, t := range current {
		if t.kind == kindDelay && !t.cancel && t.due <= s.now+1e-9 {
			ready = append(ready, t)
		}
	}
	sort.SliceStable(ready, func(i, j int) bool {
		if ready[i].due != ready[j].due {
			return ready[i].due < ready[j].due
		}
		return ready[i].id < ready[j].id
	})
	for _, t := range ready {
		s.fire(t)
	}

	for _, t := range current {
		if t.kind != kindWaitUntil || t.cancel {
			continue
		}
		if t.pred == nil || t.pred() {
			s.fire(t)
		}
	}

	s.compact()
}

// Clear 取消所有任务（场景销毁）
func (s *Scheduler) Clear() {
	for _, t := range s.tasks {
		t.cancel = true
	}
	s.tasks = nil
	s.byID = make(map[Handle]*task)
}

func (s *Scheduler) add(t *task) Handle {
	t.id = s.nextID
	s.nextID++
	s.tasks = append(s.tasks, t)
	s.byID[t.id] = t
	return t.id
}

func (s *Scheduler) fire(t *task) {
	// 回调中可能取消了同一帧内尚未执行的任务
	if t.cancel {
		return
	}
	t.cancel = true
	delete(s.byID, t.id)
	if t.fn != nil {
		t.fn()
	}
}

func (s *Scheduler) compact() {
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.cancel {
			kept = append(kept, t)
		}
	}
	// 清掉尾部引用
	for i := len(kept); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = kept
}

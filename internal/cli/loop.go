package cli

import (
	"context"
	"time"

	"github.com/gonewx/zombiewash/pkg/simulation"
)

// loopOptions 无界面循环参数
type loopOptions struct {
	tps      int
	duration float64 // 模拟时长上限（秒），<=0 表示不限
	realtime bool    // 按墙钟节奏推进
	holder   *simulation.SnapshotHolder
}

// runLoop 以固定步长推进模拟，直到胜负已分、达到时长上限或 ctx 结束
// 返回最后的快照
func runLoop(ctx context.Context, shop *simulation.Shop, opts loopOptions) simulation.Snapshot {
	dt := 1.0 / float64(opts.tps)

	var ticker *time.Ticker
	if opts.realtime {
		ticker = time.NewTicker(time.Second / time.Duration(opts.tps))
		defer ticker.Stop()
	}

	shop.Start()
	for {
		if opts.holder != nil {
			opts.holder.Store(shop.Snapshot())
		}
		if shop.State().IsFinished() {
			break
		}
		if opts.duration > 0 && shop.Now() >= opts.duration {
			break
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return shop.Snapshot()
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			break
		}
		shop.Update(dt)
	}
	return shop.Snapshot()
}

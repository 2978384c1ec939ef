// Package timex
// @Description: 基于时间轮的延迟投递，内核本身没有定时器，超时由调用方用消息竞速实现

package timex

import (
	"time"

	"github.com/RussellLuo/timingwheel"

	"stewart/pkg/actor"
)

type Wheel struct {
	tw *timingwheel.TimingWheel
}

// NewWheel 创建并启动时间轮
func NewWheel(tick time.Duration, size int64) *Wheel {
	w := &Wheel{tw: timingwheel.NewTimingWheel(tick, size)}
	w.tw.Start()
	return w
}

func (w *Wheel) Stop() {
	w.tw.Stop()
}

func (w *Wheel) AfterFunc(d time.Duration, f func()) *timingwheel.Timer {
	return w.tw.AfterFunc(d, f)
}

// SendAfter 在 d 之后把 msg 发送给 to，返回的 Timer 可用于取消
func SendAfter[M any](w *Wheel, d time.Duration, to actor.Sender[M], msg M) *timingwheel.Timer {
	return w.AfterFunc(d, func() {
		to.Send(msg)
	})
}

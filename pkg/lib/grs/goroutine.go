package grs

import (
	"sync/atomic"
)

var panicCount atomic.Uint64

// Try 执行 f，捕获 panic 并交给 reFun 处理
func Try(f func(), reFun func(r any)) {
	defer func() {
		// 捕获panic，避免单个调用崩溃影响整体
		if r := recover(); r != nil {
			panicCount.Add(1)
			if reFun != nil {
				reFun(r)
			}
		}
	}()
	f()
}

// PanicCount 进程内累计捕获的 panic 次数
func PanicCount() uint64 {
	return panicCount.Load()
}

package actor

import (
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"stewart/pkg/glog"
)

const defaultThroughput = 256

type Option func(*Options)

type Options struct {
	Logger  *zap.Logger
	Metrics Metrics
	// Pool 非空时投递消息会把排空任务提交到协程池
	Pool *ants.Pool
	// Throughput 协程池模式下单次任务最多处理的消息数，之后让出并重新调度
	Throughput int
	// Generations 为 true 时 id 携带代数，旧地址不会投递到复用槽位的新 actor
	Generations bool
}

func loadOptions(options ...Option) *Options {
	opts := &Options{
		Throughput:  defaultThroughput,
		Generations: true,
	}
	for _, option := range options {
		option(opts)
	}
	if opts.Logger == nil {
		opts.Logger = glog.Logger()
	}
	if opts.Metrics == nil {
		opts.Metrics = NopMetrics()
	}
	if opts.Throughput <= 0 {
		opts.Throughput = defaultThroughput
	}
	return opts
}

func WithLogger(logger *zap.Logger) Option {
	return func(op *Options) {
		op.Logger = logger
	}
}

func WithMetrics(m Metrics) Option {
	return func(op *Options) {
		op.Metrics = m
	}
}

func WithPool(pool *ants.Pool) Option {
	return func(op *Options) {
		op.Pool = pool
	}
}

func WithThroughput(n int) Option {
	return func(op *Options) {
		op.Throughput = n
	}
}

func WithGenerations(enabled bool) Option {
	return func(op *Options) {
		op.Generations = enabled
	}
}

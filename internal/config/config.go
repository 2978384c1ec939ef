package config

import (
	"os"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"stewart/internal/errs"
	"stewart/pkg/actor"
	"stewart/pkg/glog"
)

// Config 命令行工具配置
type Config struct {
	// Glog 配置
	Glog glog.Config `json:"glog" yaml:"glog"`
	// Runtime 配置
	Runtime Runtime `json:"runtime" yaml:"runtime"`
}

// Runtime actor 运行时配置
type Runtime struct {
	// Throughput 协程池模式下单次任务最多处理的消息数
	Throughput int `json:"throughput" yaml:"throughput"`
	// PoolSize 大于 0 时使用 ants 协程池调度排空任务
	PoolSize int `json:"poolSize" yaml:"poolSize"`
	// Generations 是否在 id 中携带代数
	Generations bool `json:"generations" yaml:"generations"`
}

// Load 读取 yaml 配置，文件不存在时返回默认配置
func Load(path string) (*Config, error) {
	var config = Default()
	if path == "" {
		return config, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	if err := vp.ReadInConfig(); err != nil {
		return nil, errs.ErrReadConfigFileFailed(err)
	}
	if err := vp.Unmarshal(config); err != nil {
		return nil, errs.ErrUnmarshalConfigFailed(err)
	}
	return config, nil
}

// Default 生成默认配置
func Default() *Config {
	return &Config{
		Glog: glog.Config{
			Path:         "",
			Level:        "warn",
			PrintConsole: true,
			File: glog.FileConfig{
				MaxSize:    100,
				MaxBackups: 10,
				MaxAge:     30,
				Compress:   false,
				LocalTime:  true,
			},
		},
		Runtime: Runtime{
			Throughput:  256,
			PoolSize:    0,
			Generations: true,
		},
	}
}

// Marshal 输出 yaml 格式配置
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Options 转换为运行时选项，PoolSize 大于 0 时同时返回创建的协程池
func (c *Config) Options(logger *zap.Logger) ([]actor.Option, *ants.Pool, error) {
	opts := []actor.Option{
		actor.WithLogger(logger),
		actor.WithThroughput(c.Runtime.Throughput),
		actor.WithGenerations(c.Runtime.Generations),
	}
	if c.Runtime.PoolSize <= 0 {
		return opts, nil, nil
	}
	pool, err := ants.NewPool(c.Runtime.PoolSize)
	if err != nil {
		return nil, nil, err
	}
	return append(opts, actor.WithPool(pool)), pool, nil
}

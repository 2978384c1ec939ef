package errs

import (
	"github.com/pkg/errors"
)

// ========== Config 相关错误 ==========

func ErrReadConfigFileFailed(err error) error {
	return errors.Wrap(err, "read config file failed")
}

func ErrUnmarshalConfigFailed(err error) error {
	return errors.Wrap(err, "unmarshal config failed")
}

// ========== Command 相关错误 ==========

var (
	// ErrProtocolStalled 运行时排空后仍未收到期望的回复
	ErrProtocolStalled = errors.New("protocol stalled")
	// ErrUnknownCommand 未知子命令
	ErrUnknownCommand = errors.New("unknown command")
	// ErrMissingArgument 缺少必要参数
	ErrMissingArgument = errors.New("missing argument")
)

func ErrInvalidRegionID(value string, err error) error {
	return errors.Wrapf(err, "invalid region id %q", value)
}

func ErrStalled(protocol string) error {
	return errors.Wrapf(ErrProtocolStalled, "%s", protocol)
}

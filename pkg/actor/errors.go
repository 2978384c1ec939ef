package actor

import (
	"errors"
	"fmt"
)

// 寻址错误
var (
	// ErrActorNotFound id 对应的槽位为空或代数不匹配
	ErrActorNotFound = errors.New("actor not found")
	// ErrActorNotInstalled 槽位已预留，actor 尚未构造完成
	ErrActorNotInstalled = errors.New("actor reserved but not installed")
)

// 分发错误
var (
	ErrMessageTypeMismatch = errors.New("message type mismatch")
	ErrHandlerPanic        = errors.New("actor handler panicked")
)

// 构造错误
var (
	ErrFactoryFailed = errors.New("actor factory failed")
	ErrFactoryIsNil  = errors.New("actor factory is nil")
	ErrActorIsNil    = errors.New("actor factory returned nil actor")
)

func errTypeMismatch(expected, got string) error {
	return fmt.Errorf("%w: expected %s, got %s", ErrMessageTypeMismatch, expected, got)
}

func errPanic(recovered any) error {
	return fmt.Errorf("%w: %v", ErrHandlerPanic, recovered)
}

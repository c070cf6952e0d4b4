package repository

import "errors"

// 配置类操作的哨兵错误，供命令层转换为用户提示。
var (
	ErrChannelExists   = errors.New("channel already configured")
	ErrChannelNotFound = errors.New("channel not configured")
	ErrUserExists      = errors.New("user is already an admin")
	ErrUserNotFound    = errors.New("user is not an admin")
)

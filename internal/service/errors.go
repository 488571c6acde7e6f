package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid       = errors.New("参数错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrProfileNotFound    = errors.New("用户资料不存在")
	ErrProfileExist       = errors.New("用户资料已存在")
	ErrUsernameExist      = errors.New("用户名已被占用")
	ErrUsernameInvalid    = errors.New("用户名格式不正确")
	ErrVibeInvalid        = errors.New("无效的 Vibe 标签")
	ErrInvalidTarget      = errors.New("目标用户无效")
	ErrEmptyMessage       = errors.New("打招呼内容不能为空")
	ErrEmptyText          = errors.New("消息内容不能为空")
	ErrAlreadyPending     = errors.New("已有待处理的 Vibe Check")
	ErrAlreadyConnected   = errors.New("你们已经建立连接")
	ErrVibeCheckNotFound  = errors.New("Vibe Check 不存在")
	ErrVibeCheckResolved  = errors.New("Vibe Check 已被处理")
	ErrChatNotFound       = errors.New("会话不存在")
	ErrNotParticipant     = errors.New("不是会话成员")
	ErrPresenceInvalid    = errors.New("无效的在线状态")
	ErrTooManyPresenceIDs = errors.New("批量查询数量超过限制")
	UnauthorizedError     = errors.New("权限不足")
	ErrStoreUnavailable   = errors.New("存储服务暂不可用")
	UnExpectedError       = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:       BadRequest,
	ErrUserNotFound:       NotFound,
	ErrProfileNotFound:    NotFound,
	ErrProfileExist:       BadRequest,
	ErrUsernameExist:      Conflict,
	ErrUsernameInvalid:    BadRequest,
	ErrVibeInvalid:        BadRequest,
	ErrInvalidTarget:      BadRequest,
	ErrEmptyMessage:       BadRequest,
	ErrEmptyText:          BadRequest,
	ErrAlreadyPending:     Conflict,
	ErrAlreadyConnected:   Conflict,
	ErrVibeCheckNotFound:  NotFound,
	ErrVibeCheckResolved:  Conflict,
	ErrChatNotFound:       NotFound,
	ErrNotParticipant:     Unauthorized,
	ErrPresenceInvalid:    BadRequest,
	ErrTooManyPresenceIDs: BadRequest,
	UnauthorizedError:     Unauthorized,
	ErrStoreUnavailable:   InternalServerError,
	UnExpectedError:       InternalServerError,
}

package api

import "Chillz/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	ProfileHandler   *handler.ProfileHandler
	VibeCheckHandler *handler.VibeCheckHandler
	ChatHandler      *handler.ChatHandler
	PresenceHandler  *handler.PresenceHandler
	WsHandler        *handler.WsHandler
}

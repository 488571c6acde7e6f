package handler

import (
	"Chillz/internal/api/dto"
	"Chillz/internal/pkg/consts"
	"Chillz/internal/pkg/live"
	"Chillz/internal/pkg/response"
	"Chillz/internal/pkg/security"
	"Chillz/internal/service"
	"context"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WsHandler struct {
	bus live.Bus
}

func NewWsHandler(bus live.Bus) *WsHandler {
	return &WsHandler{bus: bus}
}

// Connect 建立用户推送通道：消息、会话列表、收发件箱、在线状态的
// 变更通知都经由这条连接下发，客户端收到后按需重拉
func (s *WsHandler) Connect(c *gin.Context) {
	// 浏览器 WebSocket 不能带请求头，token 走 query 参数
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.UnauthorizedError)
		return
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		log.Warn("WS 鉴权失败", "err", err)
		response.Error(c, service.UnauthorizedError)
		return
	}
	uid := claims.UID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channels := []string{
		consts.IMUserKey + uid,
		consts.VibeCheckUserKey + uid,
		consts.VibeCheckSentKey + uid,
		consts.PresenceUserKey + uid,
	}
	listener := s.bus.Subscribe(ctx, channels...)
	defer func() {
		_ = listener.Close()
	}()

	log.Info("用户 WS 连接已建立", "uid", uid, "channels", len(channels))

	stopChan := make(chan struct{})

	// 读循环：监听客户端主动断开
	go func() {
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				close(stopChan)
				return
			}
		}
	}()

	// 写循环：监听总线并推送至客户端
	for {
		select {
		case ev, ok := <-listener.C():
			if !ok {
				log.Info("WS 订阅已关闭", "uid", uid)
				return
			}
			frame, err := json.Marshal(dto.LivePushDTO{
				Type:    "event",
				Channel: ev.Channel,
				Data:    json.RawMessage(ev.Payload),
			})
			if err != nil {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Error("WS 推送失败", "uid", uid, "err", err)
				return
			}
		case <-stopChan:
			log.Info("用户 WS 连接已断开", "uid", uid)
			return
		}
	}
}

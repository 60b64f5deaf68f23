package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"healthmate/internal/infrastructure/realtime"
	"healthmate/internal/pkg/chat/application/usecase"
)

// ChatSocketController handles the websocket endpoint for realtime chat
// traffic. Clients join conversation rooms explicitly; joins are authorized
// against participant membership before the gateway adds the session.
type ChatSocketController struct {
	Gateway *realtime.Gateway
	JoinUC  *usecase.JoinConversationUseCase
	Log     *logrus.Entry

	inflightTimeout time.Duration
}

func NewChatSocketController(gateway *realtime.Gateway, joinUC *usecase.JoinConversationUseCase, log *logrus.Entry) *ChatSocketController {
	return &ChatSocketController{
		Gateway:         gateway,
		JoinUC:          joinUC,
		Log:             log,
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin enforcement lives at the gateway in front of this service.
		return true
	},
}

// inboundFrame is a client event relayed over the socket.
type inboundFrame struct {
	Event string `json:"event"`
	Data  struct {
		ConversationID string `json:"conversationId"`
	} `json:"data"`
}

type errorFrame struct {
	Event string `json:"event"`
	Data  struct {
		Message string `json:"message"`
	} `json:"data"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades the connection and processes frames until the client
// disconnects. A handshake without a user identity is refused.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			userID = c.GetHeader("X-User-Id")
		}
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"statusCode": http.StatusUnauthorized,
				"message":    "userId is required",
			})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			ctl.Log.WithError(err).Debug("websocket upgrade failed")
			return
		}

		conn := realtime.NewConnection(userID, ws)
		conn.Start()
		ctl.Gateway.Attach(conn)
		defer func() {
			ctl.Gateway.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20)
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "invalid payload")
				continue
			}

			switch frame.Event {
			case "join:conversation":
				ctl.handleJoin(c, conn, frame.Data.ConversationID)
			case "leave:conversation":
				ctl.Gateway.Leave(frame.Data.ConversationID, conn)
			case realtime.EventTypingStart:
				ctl.Gateway.ToRoomExcept(frame.Data.ConversationID, conn.SessionID(), realtime.TypingStart{
					ConversationID: frame.Data.ConversationID,
					SenderID:       userID,
				})
			case realtime.EventTypingStop:
				ctl.Gateway.ToRoomExcept(frame.Data.ConversationID, conn.SessionID(), realtime.TypingStop{
					ConversationID: frame.Data.ConversationID,
					SenderID:       userID,
				})
			default:
				ctl.replyError(conn, "unknown event")
			}
		}
	}
}

func (ctl *ChatSocketController) handleJoin(c *gin.Context, conn *realtime.Connection, conversationID string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	err := ctl.JoinUC.Execute(ctx, usecase.JoinConversationInput{
		ConversationID: conversationID,
		UserID:         conn.UserID(),
	})
	if err != nil {
		ctl.replyError(conn, "unable to join conversation")
		ctl.Log.WithError(err).WithFields(logrus.Fields{
			"userId":         conn.UserID(),
			"conversationId": conversationID,
		}).Debug("join refused")
		return
	}

	ctl.Gateway.Join(conversationID, conn)
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, message string) {
	frame := errorFrame{Event: "error"}
	frame.Data.Message = message
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}

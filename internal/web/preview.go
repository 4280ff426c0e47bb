package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/schema"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Partial records are small; anything larger is not a form.
const maxPreviewMessage = 64 << 10

// handlePreview computes the metrics view of a partially filled record.
func (s *Server) handlePreview(c *gin.Context) {
	var rec schema.ProductionRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid preview data.", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.calc.Preview(&rec))
}

// handlePreviewSocket answers every inbound partial record with one metrics view.
// Undecodable messages get an error reply and the connection stays open.
func (s *Server) handlePreviewSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error
		return
	}
	defer func() { _ = conn.Close() }()
	if !s.trackSocket(conn) {
		sendGoingAway(conn)
		return
	}
	defer s.untrackSocket(conn)
	conn.SetReadLimit(maxPreviewMessage)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				contract.LogWarn("Preview socket closed", err)
			}
			return
		}

		var reply any
		var rec schema.ProductionRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			reply = previewError{Error: decodeMessage(err)}
		} else {
			reply = s.calc.Preview(&rec)
		}
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}

type previewError struct {
	Error string `json:"error"`
}

func decodeMessage(err error) string {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "message is not valid JSON"
	}
	return err.Error()
}

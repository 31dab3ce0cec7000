package socketio_utils

import (
	"log"

	"smrutimap/utils"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// RoomCodeArg pulls the room code every room-scoped event carries as its
// first argument. Emits the error itself so handlers just bail on !ok.
func RoomCodeArg(client *socket.Socket, args []interface{}) (string, bool) {
	if len(args) < 1 {
		log.Printf("[ARGS-ERROR] missing room code, socket %s", client.Id())
		client.Emit("error", gin.H{"error": "Missing room code"})
		return "", false
	}
	raw, ok := args[0].(string)
	if !ok {
		client.Emit("error", gin.H{"error": "Room code must be a string"})
		return "", false
	}
	code := utils.NormalizeRoomCode(raw)
	if !utils.ValidRoomCode(code) {
		client.Emit("error", gin.H{"error": "Malformed room code"})
		return "", false
	}
	return code, true
}

// PayloadArg pulls the object argument events send after the room code.
func PayloadArg(client *socket.Socket, args []interface{}, pos int) (map[string]interface{}, bool) {
	if len(args) <= pos {
		client.Emit("error", gin.H{"error": "Missing event payload"})
		return nil, false
	}
	payload, ok := args[pos].(map[string]interface{})
	if !ok {
		client.Emit("error", gin.H{"error": "Event payload must be an object"})
		return nil, false
	}
	return payload, true
}

// StringField reads an optional string field from a payload map.
func StringField(payload map[string]interface{}, key string) string {
	v, _ := payload[key].(string)
	return v
}

// NumberField reads a numeric field from a payload map. socket.io decodes
// JSON numbers as float64, but clients sometimes send strings of digits too.
func NumberField(payload map[string]interface{}, key string) (float64, bool) {
	switch v := payload[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// BoolField reads an optional bool field from a payload map, defaulting true
// when the field is absent (events like ready toggle off explicitly).
func BoolField(payload map[string]interface{}, key string, fallback bool) bool {
	if v, ok := payload[key].(bool); ok {
		return v
	}
	return fallback
}

package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// Every event handler runs its store calls under this budget. Socket events
// have no caller-supplied context, so each handler mints its own.
const eventTimeout = 5 * time.Second

func eventContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), eventTimeout)
}

func emitError(client *socket.Socket, err error) {
	client.Emit("error", gin.H{"error": err.Error()})
}

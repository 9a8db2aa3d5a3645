package handlers_test

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

func wsDial(httpURL string) (*websocket.Conn, *http.Response, error) {
	return websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(httpURL, "http"), nil)
}

package response

import "net/http"

const (
	MsgRouteNotFound = "Route not found"
	MsgInternal      = "Something went wrong!"
	MsgServerBusy    = "server busy"
	MsgTooMany       = "too many requests"
	MsgTimeout       = "request timeout"
	MsgBodyTooLarge  = "request body too large"
)

// CodeMsgMap 状态码默认文案
var CodeMsgMap = map[int]string{
	http.StatusBadRequest:            "Bad Request",
	http.StatusNotFound:              "Not Found",
	http.StatusRequestEntityTooLarge: MsgBodyTooLarge,
	http.StatusTooManyRequests:       MsgTooMany,
	http.StatusInternalServerError:   MsgInternal,
	http.StatusServiceUnavailable:    MsgServerBusy,
	http.StatusGatewayTimeout:        MsgTimeout,
}

func MsgOf(status int) string {
	if m, ok := CodeMsgMap[status]; ok {
		return m
	}
	return http.StatusText(status)
}

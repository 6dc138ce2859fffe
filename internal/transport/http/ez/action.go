package ez

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-role-admin/internal/domain"
	resp "user-role-admin/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // JSON body
	BindQuery Binder = "query" // ?a=b
	BindNone  Binder = "none"  // 自己从 c.Param 取
)

// AErr 携带 HTTP 状态码的动作错误
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: http.StatusBadRequest, Msg: msg} }
func NotFound(msg string) error   { return &AErr{Code: http.StatusNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// Enveloper 输出自定义信封（分页、动态 message）
type Enveloper interface {
	Envelope() resp.Envelope
}

// NoData 只返回 success + message
type NoData struct{}

// Action I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // GET | POST | PUT | DELETE
	Path    string
	Binder  Binder
	Status  int    // 成功状态码，默认 200
	Message string // 成功文案
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}

	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default:
		}
		if bindErr != nil {
			var mbe *http.MaxBytesError
			if errors.As(bindErr, &mbe) {
				c.JSON(http.StatusRequestEntityTooLarge, resp.Error(http.StatusRequestEntityTooLarge, ""))
				return
			}
			c.JSON(http.StatusBadRequest, resp.Error(http.StatusBadRequest, "invalid request body: "+bindErr.Error()))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			code, msg := Classify(err)
			if code >= http.StatusInternalServerError {
				e.log.Error("action failed",
					zap.String("method", c.Request.Method),
					zap.String("path", c.FullPath()),
					zap.Error(err),
				)
			}
			c.JSON(code, resp.Error(code, msg))
			return
		}

		switch v := any(out).(type) {
		case Enveloper:
			c.JSON(status, v.Envelope())
		case NoData:
			c.JSON(status, resp.OK(a.Message, nil))
		default:
			c.JSON(status, resp.OK(a.Message, out))
		}
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// Classify 错误 → HTTP 状态码与文案；未识别的错误原样透出 500
func Classify(err error) (int, string) {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae.Code, ae.Error()
	}
	// 请求超时（Timeout 中间件的截止时间传到了 DB 调用）
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, resp.MsgTimeout
	}
	var dup *domain.DuplicateError
	if errors.As(err, &dup) {
		return http.StatusBadRequest, dup.Error()
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
		code := http.StatusNotFound
		if errors.Is(err, domain.ErrInvalidInput) {
			code = http.StatusBadRequest
		}
		return code, err.Error()
	}
	return http.StatusInternalServerError, err.Error()
}

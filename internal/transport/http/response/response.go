package response

// Envelope 统一响应：{success, message?, data?, pagination?}
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func OK(msg string, data any) Envelope {
	return Envelope{Success: true, Message: msg, Data: data}
}

// Paged data 为空切片时也会输出 []
func Paged(data any, p Pagination) Envelope {
	return Envelope{Success: true, Data: data, Pagination: &p}
}

// Error 失败响应；msg 为空时用状态码默认文案
func Error(status int, msg string) Envelope {
	if msg == "" {
		msg = MsgOf(status)
	}
	return Envelope{Success: false, Message: msg}
}

// Package response is the {code,msg,data} envelope every endpoint answers
// with. Transport status is always 200; code carries the outcome.
package response

type Resp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

// New never leaves data null.
func New(code int, msg string, data any) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data any) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error uses the code's default message unless customMsg is set.
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

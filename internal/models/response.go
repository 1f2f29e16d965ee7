package models

// Response is the success envelope returned by every endpoint.
type Response struct {
	Result  string      `json:"result"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Token   string      `json:"token,omitempty"`
}

// Success builds a success envelope with an optional payload.
func Success(message string, data interface{}) Response {
	return Response{Result: "success", Message: message, Data: data}
}

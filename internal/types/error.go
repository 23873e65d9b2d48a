package types

import "fmt"

// CustomError is an error that carries an HTTP status code and an audit
// type label. The global Fiber error handler maps it onto the standard
// error envelope.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

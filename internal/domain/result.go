package domain

import "errors"

type Failure struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Result is the envelope every service operation returns: either Success
// with Data, or a Failure with a stable code.
type Result[T any] struct {
	Success bool     `json:"success"`
	Data    T        `json:"data,omitempty"`
	Error   *Failure `json:"error,omitempty"`
}

func OK[T any](data T) Result[T] { return Result[T]{Success: true, Data: data} }

func Fail[T any](code, message string) Result[T] {
	if message == "" {
		message = FallbackMessage(code)
	}
	return Result[T]{Error: &Failure{Message: message, Code: code}}
}

// FailFrom converts err into a failure. A coded error keeps its own code;
// anything else is reported under code.
func FailFrom[T any](err error, code string) Result[T] {
	var e *Error
	if errors.As(err, &e) {
		return Fail[T](e.Code, e.Error())
	}
	if err == nil {
		return Fail[T](code, "")
	}
	return Fail[T](code, err.Error())
}

// Code returns the failure code, or "" on success.
func (r Result[T]) Code() string {
	if r.Error == nil {
		return ""
	}
	return r.Error.Code
}

type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

type Pagination struct {
	Page  int
	Limit int
}

// Normalize applies defaults and clamps the limit.
func (p Pagination) Normalize() Pagination {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 || p.Limit > MaxLimit {
		p.Limit = DefaultLimit
	}
	return p
}

func (p Pagination) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

func NewPage[T any](items []T, total int64, p Pagination) Page[T] {
	if items == nil {
		items = []T{}
	}
	n := p.Normalize()
	return Page[T]{Items: items, Total: total, Page: n.Page, Limit: n.Limit}
}

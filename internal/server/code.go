package server

import (
	"errors"
	"fmt"

	"github.com/sgostarter/i/commerr"
)

type Code int

const (
	CodeSuccess Code = iota
)

const (
	CodeErrorStart = iota + 100
	CodeProtocol
	CodeMissArgs
	CodeInvalidArgs
	CodeInternalError
	CodeVerifyFailed
	CodeInvalidToken
	CodeNotFound
	CodeExpenseInvalid
)

func (c Code) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeProtocol:
		return "bad request payload"
	case CodeMissArgs:
		return "missing arguments"
	case CodeInvalidArgs:
		return "invalid arguments"
	case CodeInternalError:
		return "internal error"
	case CodeVerifyFailed:
		return "verify failed"
	case CodeInvalidToken:
		return "invalid token"
	case CodeNotFound:
		return "not found"
	case CodeExpenseInvalid:
		return "expense is invalid"
	}

	return fmt.Sprintf("unknown error %d", c)
}

func CodeToMessage(code Code, msg string) string {
	codeMsg := code.String()

	if msg != "" {
		codeMsg += ":" + msg
	}

	return codeMsg
}

func codeFromError(err error) Code {
	switch {
	case errors.Is(err, commerr.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, commerr.ErrInvalidArgument):
		return CodeInvalidArgs
	default:
		return CodeInternalError
	}
}

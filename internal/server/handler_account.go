package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/s-min-sys/billsplitbe/internal/storage"
)

func (s *Server) handleRegister(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	uid, token, code, msg := s.handleRegisterInner(c)
	if code == CodeSuccess {
		respWrapper.Resp = RegisterResponse{
			ID:    idN2S(uid),
			Token: token,
		}
	}

	respWrapper.Apply(code, msg)

	c.JSON(http.StatusOK, respWrapper)
}

func (s *Server) handleRegisterInner(c *gin.Context) (uid uint64, token string, code Code, msg string) {
	var req RegisterRequest

	err := c.BindJSON(&req)
	if err != nil {
		code = CodeProtocol
		msg = err.Error()

		return
	}

	if !req.Valid() {
		code = CodeMissArgs

		return
	}

	_, err = s.accounts.Register(req.UserName, req.Password)
	if err != nil {
		code = CodeInternalError

		return
	}

	uid, token, err = s.accounts.Login(req.UserName, req.Password)
	if err != nil {
		code = CodeInternalError
		msg = err.Error()

		return
	}

	code = CodeSuccess

	return
}

func (s *Server) handleLogin(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	uid, token, code, msg := s.handleLoginInner(c)
	if code == CodeSuccess {
		respWrapper.Resp = &LoginResponse{
			ID:    idN2S(uid),
			Token: token,
		}
	}

	respWrapper.Apply(code, msg)

	c.JSON(http.StatusOK, respWrapper)
}

func (s *Server) handleLoginInner(c *gin.Context) (uid uint64, token string, code Code, msg string) {
	var req LoginRequest

	err := c.BindJSON(&req)
	if err != nil {
		code = CodeProtocol
		msg = err.Error()

		return
	}

	if !req.Valid() {
		code = CodeMissArgs

		return
	}

	uid, token, err = s.accounts.Login(req.UserName, req.Password)
	if err != nil {
		code = CodeVerifyFailed

		return
	}

	code = CodeSuccess

	return
}

func (s *Server) handleLogout(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	respWrapper.Apply(s.handleLogoutInner(c))

	c.JSON(http.StatusOK, respWrapper)
}

func (s *Server) handleLogoutInner(c *gin.Context) (code Code, msg string) {
	token := c.GetHeader("token")
	if token == "" {
		code = CodeMissArgs
		msg = "no token"

		return
	}

	err := s.accounts.Logout(token)
	if err != nil {
		code = CodeInvalidToken
		msg = err.Error()

		return
	}

	code = CodeSuccess

	return
}

// getScope resolves the storage scope for a request: the signed-in account id
// when a token is present, the anonymous scope otherwise. A token that fails
// verification is an error, not a fallback to anonymous.
func (s *Server) getScope(c *gin.Context) (scope string, code Code, msg string) {
	token := c.GetHeader("token")
	if token == "" {
		scope = storage.AnonymousScope
		code = CodeSuccess

		return
	}

	uid, _, err := s.accounts.Who(token)
	if err != nil {
		code = CodeInvalidToken
		msg = "invalid token"

		return
	}

	scope = idN2S(uid)
	code = CodeSuccess

	return
}

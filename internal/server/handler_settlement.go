package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/s-min-sys/billsplitbe/internal/settle"
	"github.com/spf13/cast"
)

func (s *Server) handleSettlement(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	result, code, msg := s.handleSettlementInner(c)
	if code == CodeSuccess {
		respWrapper.Resp = result
	}

	respWrapper.Apply(code, msg)

	c.JSON(http.StatusOK, respWrapper)
}

func (s *Server) handleSettlementInner(c *gin.Context) (result settle.Result, code Code, msg string) {
	scope, code, msg := s.getScope(c)
	if code != CodeSuccess {
		return
	}

	groupID := c.Query("groupID")
	if groupID == "" {
		code = CodeMissArgs
		msg = "no group id"

		return
	}

	force := cast.ToBool(c.Query("force"))

	key := s.settleKey(scope, groupID)

	if !force {
		if cached, ok := s.settleCache.Get(key); ok {
			if cachedResult, ok := cached.(settle.Result); ok {
				result = cachedResult
				code = CodeSuccess

				return
			}
		}
	}

	group, err := s.storage.GetGroup(scope, groupID)
	if err != nil {
		code = codeFromError(err)
		msg = err.Error()

		return
	}

	expenses, err := s.storage.Expenses(scope, groupID)
	if err != nil {
		code = codeFromError(err)
		msg = err.Error()

		return
	}

	result = settle.Compute(group.Participants, expenses)

	s.settleCache.Set(key, result, cache.DefaultExpiration)

	code = CodeSuccess

	return
}

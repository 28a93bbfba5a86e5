package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/s-min-sys/billsplitbe/internal/model"
	"github.com/sgostarter/i/l"
)

func (s *Server) handleGroups(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	groups, code, msg := s.handleGroupsInner(c)
	if code == CodeSuccess {
		respWrapper.Resp = GroupsResponse{
			Groups: groups,
		}
	}

	respWrapper.Apply(code, msg)

	c.JSON(http.StatusOK, respWrapper)
}

func (s *Server) handleGroupsInner(c *gin.Context) (groups []GroupWithInfo, code Code, msg string) {
	scope, code, msg := s.getScope(c)
	if code != CodeSuccess {
		return
	}

	storedGroups, err := s.storage.Groups(scope)
	if err != nil {
		code = codeFromError(err)
		msg = err.Error()

		return
	}

	groups = make([]GroupWithInfo, 0, len(storedGroups))

	for _, g := range storedGroups {
		info := GroupWithInfo{
			ID:           g.ID,
			Name:         g.Name,
			At:           g.At,
			Participants: g.Participants,
		}

		expenses, err := s.storage.Expenses(scope, g.ID)
		if err == nil {
			info.ExpenseCount = len(expenses)

			for _, expense := range expenses {
				info.TotalAmount += expense.Amount
			}
		}

		groups = append(groups, info)
	}

	code = CodeSuccess

	return
}

func (s *Server) handleGroupNew(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	group, code, msg := s.handleGroupNewInner(c)
	if code == CodeSuccess {
		respWrapper.Resp = GroupNewResponse{
			Group: group,
		}
	}

	respWrapper.Apply(code, msg)

	c.JSON(http.StatusOK, respWrapper)
}

func (s *Server) handleGroupNewInner(c *gin.Context) (group model.Group, code Code, msg string) {
	scope, code, msg := s.getScope(c)
	if code != CodeSuccess {
		return
	}

	var req GroupNewRequest

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

	group, err = s.storage.NewGroup(scope, req.Name)
	if err != nil {
		code = codeFromError(err)
		msg = err.Error()

		return
	}

	code = CodeSuccess

	return
}

func (s *Server) handleGroupDelete(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	respWrapper.Apply(s.handleGroupDeleteInner(c))

	c.JSON(http.StatusOK, respWrapper)
}

func (s *Server) handleGroupDeleteInner(c *gin.Context) (code Code, msg string) {
	scope, code, msg := s.getScope(c)
	if code != CodeSuccess {
		return
	}

	var req GroupDeleteRequest

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

	err = s.storage.DeleteGroup(scope, req.GroupID)
	if err != nil {
		code = codeFromError(err)
		msg = err.Error()

		return
	}

	s.dropSettlement(scope, req.GroupID)

	s.logger.WithFields(l.StringField("groupID", req.GroupID)).Info("group deleted")

	code = CodeSuccess

	return
}

func (s *Server) handleParticipantAdd(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	participant, code, msg := s.handleParticipantAddInner(c)
	if code == CodeSuccess {
		respWrapper.Resp = ParticipantAddResponse{
			Participant: participant,
		}
	}

	respWrapper.Apply(code, msg)

	c.JSON(http.StatusOK, respWrapper)
}

func (s *Server) handleParticipantAddInner(c *gin.Context) (participant model.Participant, code Code, msg string) {
	scope, code, msg := s.getScope(c)
	if code != CodeSuccess {
		return
	}

	var req ParticipantAddRequest

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

	participant, err = s.storage.AddParticipant(scope, req.GroupID, req.Name)
	if err != nil {
		code = codeFromError(err)
		msg = err.Error()

		return
	}

	s.dropSettlement(scope, req.GroupID)

	code = CodeSuccess

	return
}

func (s *Server) handleParticipantRemove(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	respWrapper.Apply(s.handleParticipantRemoveInner(c))

	c.JSON(http.StatusOK, respWrapper)
}

func (s *Server) handleParticipantRemoveInner(c *gin.Context) (code Code, msg string) {
	scope, code, msg := s.getScope(c)
	if code != CodeSuccess {
		return
	}

	var req ParticipantRemoveRequest

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

	err = s.storage.RemoveParticipant(scope, req.GroupID, req.ParticipantID)
	if err != nil {
		code = codeFromError(err)
		msg = err.Error()

		return
	}

	s.dropSettlement(scope, req.GroupID)

	code = CodeSuccess

	return
}

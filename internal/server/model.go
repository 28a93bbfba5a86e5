package server

import (
	"strings"

	"github.com/s-min-sys/billsplitbe/internal/model"
)

type ResponseWrapper struct {
	Code    Code        `json:"code"`
	Message string      `json:"message"`
	Resp    interface{} `json:"resp,omitempty"`
}

func (wr *ResponseWrapper) Apply(code Code, msg string) {
	wr.Code = code
	wr.Message = CodeToMessage(code, msg)
}

type RegisterRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

func (req *RegisterRequest) Valid() bool {
	return req.UserName != "" && req.Password != ""
}

type RegisterResponse struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

func (req *LoginRequest) Valid() bool {
	return req.UserName != "" && req.Password != ""
}

type LoginResponse struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

// GroupWithInfo decorates a stored group with the expense figures the group
// list shows.
type GroupWithInfo struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	At           int64               `json:"date"`
	Participants []model.Participant `json:"participants"`
	ExpenseCount int                 `json:"expenseCount"`
	TotalAmount  float64             `json:"totalAmount"`
}

type GroupsResponse struct {
	Groups []GroupWithInfo `json:"groups"`
}

type GroupNewRequest struct {
	Name string `json:"name"`
}

func (req *GroupNewRequest) Valid() bool {
	return strings.TrimSpace(req.Name) != ""
}

type GroupNewResponse struct {
	Group model.Group `json:"group"`
}

type GroupDeleteRequest struct {
	GroupID string `json:"groupID"`
}

func (req *GroupDeleteRequest) Valid() bool {
	return req.GroupID != ""
}

type ParticipantAddRequest struct {
	GroupID string `json:"groupID"`
	Name    string `json:"name"`
}

func (req *ParticipantAddRequest) Valid() bool {
	return req.GroupID != "" && strings.TrimSpace(req.Name) != ""
}

type ParticipantAddResponse struct {
	Participant model.Participant `json:"participant"`
}

type ParticipantRemoveRequest struct {
	GroupID       string `json:"groupID"`
	ParticipantID string `json:"participantID"`
}

func (req *ParticipantRemoveRequest) Valid() bool {
	return req.GroupID != "" && req.ParticipantID != ""
}

type ExpensesResponse struct {
	Expenses []model.Expense `json:"expenses"`
}

type ExpenseAddRequest struct {
	GroupID        string             `json:"groupID"`
	Description    string             `json:"description"`
	Amount         float64            `json:"amount"`
	PaidBy         string             `json:"paidBy"`
	MultiplePayers bool               `json:"multiplePayers"`
	PayerDetails   map[string]float64 `json:"payerDetails"`
	SplitAmong     []string           `json:"splitAmong"`
	SplitType      string             `json:"splitType"`
	SplitDetails   map[string]float64 `json:"splitDetails"`
}

func (req *ExpenseAddRequest) Valid() bool {
	return req.GroupID != ""
}

func (req *ExpenseAddRequest) Expense() model.Expense {
	return model.Expense{
		GroupID:        req.GroupID,
		Description:    req.Description,
		Amount:         req.Amount,
		PaidBy:         req.PaidBy,
		MultiplePayers: req.MultiplePayers,
		PayerDetails:   req.PayerDetails,
		SplitAmong:     req.SplitAmong,
		SplitType:      model.SplitType(req.SplitType),
		SplitDetails:   req.SplitDetails,
	}
}

type ExpenseAddResponse struct {
	Expense model.Expense `json:"expense"`
}

type ExpenseDeleteRequest struct {
	GroupID   string `json:"groupID"`
	ExpenseID string `json:"expenseID"`
}

func (req *ExpenseDeleteRequest) Valid() bool {
	return req.ExpenseID != ""
}

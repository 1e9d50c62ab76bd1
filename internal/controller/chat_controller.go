package controller

import (
	"strconv"

	"recruit-assist-be/internal/constant"
	"recruit-assist-be/internal/dto"
	"recruit-assist-be/internal/entity"
	"recruit-assist-be/internal/pkg/serverutils"
	"recruit-assist-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendMessage(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	ShowSession(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	RequestHandoff(ctx *fiber.Ctx) error
	CloseSession(ctx *fiber.Ctx) error
	Updates(ctx *fiber.Ctx) error
}

type chatController struct {
	chatSvc    service.IChatService
	sessionSvc service.ISessionService
	handoffSvc service.IHandoffService
	relaySvc   service.IRelayService
}

func NewChatController(
	chatSvc service.IChatService,
	sessionSvc service.ISessionService,
	handoffSvc service.IHandoffService,
	relaySvc service.IRelayService,
) IChatController {
	return &chatController{
		chatSvc:    chatSvc,
		sessionSvc: sessionSvc,
		handoffSvc: handoffSvc,
		relaySvc:   relaySvc,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Post("/message", c.SendMessage)
	h.Post("/session", c.CreateSession)
	h.Get("/session/:id", c.ShowSession)
	h.Put("/profile/:id", c.UpdateProfile)
	h.Post("/handoff", c.RequestHandoff)
	h.Post("/session/:id/close", c.CloseSession)
	h.Get("/session/:id/updates", c.Updates)
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Malformed request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatSvc.HandleMessage(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Malformed request body")
	}

	sess, err := c.sessionSvc.Create(ctx.Context(), req.UserID, req.SessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session ready", dto.CreateSessionResponse{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		CreatedAt: sess.CreatedAt,
	}))
}

func (c *chatController) ShowSession(ctx *fiber.Ctx) error {
	sess, err := c.sessionSvc.Get(ctx.Context(), utils.CopyString(ctx.Params("id")))
	if err != nil {
		return err
	}

	history := make([]dto.TurnResponse, 0, len(sess.History))
	for _, turn := range sess.History {
		history = append(history, dto.TurnResponse{
			Role:      turn.Role,
			Content:   turn.Content,
			Timestamp: turn.Timestamp,
		})
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", dto.GetSessionResponse{
		SessionID:    sess.ID,
		UserID:       sess.UserID,
		Profile:      sess.Profile,
		History:      history,
		CreatedAt:    sess.CreatedAt,
		LastActivity: sess.LastActivity,
	}))
}

func (c *chatController) UpdateProfile(ctx *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Malformed request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sess, err := c.sessionSvc.UpdateProfile(ctx.Context(), utils.CopyString(ctx.Params("id")), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Profile updated", sess.Profile))
}

func (c *chatController) RequestHandoff(ctx *fiber.Ctx) error {
	var req dto.HandoffRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Malformed request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	handoff, err := c.handoffSvc.Request(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Handoff requested", toHandoffResponse(handoff)))
}

func (c *chatController) CloseSession(ctx *fiber.Ctx) error {
	// Params point into fasthttp's reusable buffer; copy before the value
	// outlives the request.
	handoff, err := c.handoffSvc.Close(ctx.Context(), utils.CopyString(ctx.Params("id")), "user")
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat closed", dto.CloseSessionResponse{
		SessionID: handoff.SessionID,
		Status:    handoff.Status,
	}))
}

func (c *chatController) Updates(ctx *fiber.Ctx) error {
	after, err := strconv.ParseInt(ctx.Query("after", "0"), 10, 64)
	if err != nil || after < 0 {
		return serverutils.NewValidationError("Invalid cursor")
	}

	msgs, err := c.relaySvc.ListSince(ctx.Context(), utils.CopyString(ctx.Params("id")), after)
	if err != nil {
		return err
	}

	out := make([]dto.RelayMessageResponse, 0, len(msgs))
	nextCursor := after
	for _, m := range msgs {
		out = append(out, dto.RelayMessageResponse{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
		nextCursor = m.ID
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", dto.SessionUpdatesResponse{
		Messages:         out,
		NextCursor:       nextCursor,
		PollAfterSeconds: constant.RecommendedPollSeconds,
	}))
}

func toHandoffResponse(h *entity.Handoff) dto.HandoffResponse {
	return dto.HandoffResponse{
		SessionID: h.SessionID,
		Status:    h.Status,
		AgentName: h.AgentName,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}

package controller

import (
	"recruit-assist-be/internal/dto"
	"recruit-assist-be/internal/entity"
	"recruit-assist-be/internal/pkg/serverutils"
	"recruit-assist-be/internal/service"
	ws "recruit-assist-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/websocket/v2"
)

type IAgentController interface {
	RegisterRoutes(r fiber.Router)
	WaitingSessions(ctx *fiber.Ctx) error
	Join(ctx *fiber.Ctx) error
	ShowSession(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	CloseSession(ctx *fiber.Ctx) error
}

type agentController struct {
	handoffSvc service.IHandoffService
	relaySvc   service.IRelayService
	hub        *ws.Hub
}

func NewAgentController(handoffSvc service.IHandoffService, relaySvc service.IRelayService, hub *ws.Hub) IAgentController {
	return &agentController{
		handoffSvc: handoffSvc,
		relaySvc:   relaySvc,
		hub:        hub,
	}
}

func (c *agentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/agent/v1")
	h.Use(serverutils.AgentMiddleware)
	h.Get("/waiting-sessions", c.WaitingSessions)
	h.Post("/join/:id", c.Join)
	h.Get("/session/:id", c.ShowSession)
	h.Post("/session/:id/message", c.SendMessage)
	h.Post("/session/:id/close", c.CloseSession)

	if c.hub != nil {
		h.Get("/alerts", websocket.New(func(conn *websocket.Conn) {
			agentID, _ := conn.Locals("agent_id").(string)
			ws.ServeWs(c.hub, conn, agentID)
		}))
	}
}

func (c *agentController) WaitingSessions(ctx *fiber.Ctx) error {
	waiting, err := c.handoffSvc.WaitingSessions(ctx.Context())
	if err != nil {
		return err
	}

	out := make([]dto.WaitingSessionResponse, 0, len(waiting))
	for _, h := range waiting {
		out = append(out, dto.WaitingSessionResponse{
			SessionID:   h.SessionID,
			Reason:      h.Reason,
			UserName:    h.Contact.UserName,
			UserMobile:  h.Contact.UserMobile,
			UserEmail:   h.Contact.UserEmail,
			RequestedAt: h.CreatedAt,
		})
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", out))
}

func (c *agentController) Join(ctx *fiber.Ctx) error {
	agentID, _ := ctx.Locals("agent_id").(string)
	agentName, _ := ctx.Locals("agent_name").(string)
	// Params point into fasthttp's reusable buffer; copy before the value
	// outlives the request.
	sessionID := utils.CopyString(ctx.Params("id"))

	handoff, err := c.handoffSvc.Join(ctx.Context(), sessionID, agentID, agentName)
	if err != nil {
		return err
	}

	transcript, err := c.transcript(ctx, sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Joined session", dto.JoinSessionResponse{
		SessionID:  handoff.SessionID,
		Status:     handoff.Status,
		AgentName:  handoff.AgentName,
		Transcript: transcript,
	}))
}

func (c *agentController) ShowSession(ctx *fiber.Ctx) error {
	sessionID := utils.CopyString(ctx.Params("id"))

	handoff, err := c.handoffSvc.Status(ctx.Context(), sessionID)
	if err != nil {
		return err
	}
	if handoff == nil {
		handoff = &entity.Handoff{SessionID: sessionID}
	}

	transcript, err := c.transcript(ctx, sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", dto.AgentSessionResponse{
		SessionID:  sessionID,
		Status:     handoff.Status,
		AgentID:    handoff.AgentID,
		AgentName:  handoff.AgentName,
		Reason:     handoff.Reason,
		UserName:   handoff.Contact.UserName,
		UserMobile: handoff.Contact.UserMobile,
		UserEmail:  handoff.Contact.UserEmail,
		Transcript: transcript,
	}))
}

func (c *agentController) SendMessage(ctx *fiber.Ctx) error {
	agentID, _ := ctx.Locals("agent_id").(string)

	var req dto.AgentMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Malformed request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	id, err := c.handoffSvc.AgentMessage(ctx.Context(), utils.CopyString(ctx.Params("id")), agentID, req.Content)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Message sent", dto.AgentMessageResponse{MessageID: id}))
}

func (c *agentController) CloseSession(ctx *fiber.Ctx) error {
	handoff, err := c.handoffSvc.Close(ctx.Context(), utils.CopyString(ctx.Params("id")), "agent")
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat closed", dto.CloseSessionResponse{
		SessionID: handoff.SessionID,
		Status:    handoff.Status,
	}))
}

func (c *agentController) transcript(ctx *fiber.Ctx, sessionID string) ([]dto.RelayMessageResponse, error) {
	msgs, err := c.relaySvc.ListAll(ctx.Context(), sessionID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.RelayMessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, dto.RelayMessageResponse{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

package http

import (
	"net/http"

	"splitship/internal/core/application/usecases/commands"
	"splitship/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// CreateRecipient handles POST /api/v1/shops/:shop/recipients.
func (s *Server) CreateRecipient(c echo.Context) error {
	shop, err := shopParam(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var req NewRecipient
	if err = bind(c, &req); err != nil {
		return s.writeError(c, err)
	}

	cmd, err := commands.NewCreateRecipientCommand(shop, req.Name, recipientAddress(req.Address))
	if err != nil {
		return s.writeError(c, err)
	}

	id, err := s.handlers.CreateRecipient.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, Created{ID: id.String()})
}

// ListRecipients handles GET /api/v1/shops/:shop/recipients.
func (s *Server) ListRecipients(c echo.Context) error {
	shop, err := shopParam(c)
	if err != nil {
		return s.writeError(c, err)
	}

	query, err := queries.NewListRecipientsQuery(shop)
	if err != nil {
		return s.writeError(c, err)
	}

	recipients, err := s.handlers.ListRecipients.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toRecipients(recipients))
}

// DeleteRecipient handles DELETE /api/v1/shops/:shop/recipients/:recipientID.
// A recipient still allocated by a plan is a conflict.
func (s *Server) DeleteRecipient(c echo.Context) error {
	shop, err := shopParam(c)
	if err != nil {
		return s.writeError(c, err)
	}
	recipientID, err := idParam(c, "recipientID")
	if err != nil {
		return s.writeError(c, err)
	}

	cmd, err := commands.NewDeleteRecipientCommand(shop, recipientID)
	if err != nil {
		return s.writeError(c, err)
	}

	if err = s.handlers.DeleteRecipient.Handle(c.Request().Context(), cmd); err != nil {
		return s.writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

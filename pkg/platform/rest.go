package platform

import (
	"encoding/json"
	"errors"

	"github.com/userdock/server/pkg/store"
	"github.com/valyala/fasthttp"
)

// REST handlers mirroring the four GraphQL operations.

func (s *Server) handleRestList(ctx *fasthttp.RequestCtx) {
	users, err := s.platform.store.ListAll(ctx)
	if err != nil {
		errorResponse(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}

	jsonResponse(ctx, fasthttp.StatusOK, map[string]interface{}{
		"users": users,
		"count": len(users),
	})
}

func (s *Server) handleRestGet(ctx *fasthttp.RequestCtx) {
	id := ctx.UserValue("id").(string)

	u, err := s.platform.store.GetByID(ctx, id)
	if errors.Is(err, store.ErrInvalidID) {
		errorResponse(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		errorResponse(ctx, fasthttp.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		errorResponse(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}

	jsonResponse(ctx, fasthttp.StatusOK, u)
}

func (s *Server) handleRestCreate(ctx *fasthttp.RequestCtx) {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	if err := json.Unmarshal(ctx.PostBody(), &body); err != nil {
		errorResponse(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	if body.Name == "" || body.Email == "" {
		errorResponse(ctx, fasthttp.StatusBadRequest, "name and email are required")
		return
	}

	u, err := s.platform.store.Insert(ctx, body.Name, body.Email)
	if err != nil {
		errorResponse(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}

	jsonResponse(ctx, fasthttp.StatusCreated, u)
}

func (s *Server) handleRestDelete(ctx *fasthttp.RequestCtx) {
	id := ctx.UserValue("id").(string)

	deleted, err := s.platform.store.DeleteByID(ctx, id)
	if errors.Is(err, store.ErrInvalidID) {
		errorResponse(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		errorResponse(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}

	jsonResponse(ctx, fasthttp.StatusOK, map[string]bool{"deleted": deleted})
}

package http

import (
	"encoding/json"
	"errors"

	"chainstore/internal/adapter/location"
	"chainstore/internal/application/port"
	"chainstore/internal/domain"
	"chainstore/internal/domain/entity"
	"chainstore/internal/pkg/apperrors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// ChainHandler serves the chain context over HTTP.
type ChainHandler struct {
	service port.ChainService
	logger  *zap.Logger
}

// NewChainHandler creates a handler over the chain service.
func NewChainHandler(service port.ChainService, logger *zap.Logger) *ChainHandler {
	return &ChainHandler{
		service: service,
		logger:  logger.Named("ChainHandler"),
	}
}

// chainsResponse is the JSON form of entity.ChainItems.
type chainsResponse struct {
	Mainnets  map[string]entity.ChainInfo `json:"mainnets"`
	Testnets  map[string]entity.ChainInfo `json:"testnets"`
	Localnets map[string]entity.ChainInfo `json:"localnets"`
}

// chainURLRequest asks for chain to be mirrored into the page address Location.
type chainURLRequest struct {
	Chain    entity.ChainInfo `json:"chain"`
	Location string           `json:"location"`
}

type chainURLResponse struct {
	URL string `json:"url"`
}

type registryShaResponse struct {
	SHA string `json:"sha"`
}

// GetChains handles GET /chains.
func (h *ChainHandler) GetChains(ctx *fasthttp.RequestCtx) {
	items := h.service.Chains(ctx)
	h.writeJSON(ctx, fasthttp.StatusOK, chainsResponse{
		Mainnets:  items.Mainnets,
		Testnets:  items.Testnets,
		Localnets: items.Localnets,
	})
}

// GetChain handles GET /chains/{name}. The request query overrides stored and environment values.
func (h *ChainHandler) GetChain(ctx *fasthttp.RequestCtx) {
	name, _ := ctx.UserValue("name").(string)
	loc := location.New(string(ctx.Path()), string(ctx.URI().QueryString()))

	chain, err := h.service.ResolveChain(ctx, name, loc)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, chain)
}

// PutLocalChain handles PUT /chains/local.
func (h *ChainHandler) PutLocalChain(ctx *fasthttp.RequestCtx) {
	var chain entity.ChainInfo
	if err := json.Unmarshal(ctx.PostBody(), &chain); err != nil {
		h.logger.Debug("Invalid local chain body", zap.Error(err))
		ctx.Error("Bad Request: invalid chain JSON", fasthttp.StatusBadRequest)
		return
	}

	if err := h.service.AddLocalChain(ctx, chain); err != nil {
		h.writeError(ctx, err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, chain)
}

// DeleteLocalChain handles DELETE /chains/local/{name}.
func (h *ChainHandler) DeleteLocalChain(ctx *fasthttp.RequestCtx) {
	name, _ := ctx.UserValue("name").(string)
	if err := h.service.RemoveLocalChain(ctx, name); err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

// GetRecentChains handles GET /recent.
func (h *ChainHandler) GetRecentChains(ctx *fasthttp.RequestCtx) {
	chains, err := h.service.RecentChains(ctx)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, chains)
}

// PostRecentChain handles POST /recent/{name}.
func (h *ChainHandler) PostRecentChain(ctx *fasthttp.RequestCtx) {
	name, _ := ctx.UserValue("name").(string)
	if err := h.service.TouchRecentChain(ctx, name); err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

// PostChainURL handles POST /chains/{name}/url and returns the rewritten page address.
func (h *ChainHandler) PostChainURL(ctx *fasthttp.RequestCtx) {
	name, _ := ctx.UserValue("name").(string)

	var req chainURLRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.Error("Bad Request: invalid body JSON", fasthttp.StatusBadRequest)
		return
	}
	if req.Chain.RegistryName == "" {
		req.Chain.RegistryName = name
	}
	if req.Chain.RegistryName != name {
		ctx.Error("Bad Request: chain registryName does not match path", fasthttp.StatusBadRequest)
		return
	}
	if req.Location == "" {
		req.Location = "/"
	}
	loc, err := location.Parse(req.Location)
	if err != nil {
		ctx.Error("Bad Request: invalid location", fasthttp.StatusBadRequest)
		return
	}

	h.service.WriteChainURL(ctx, req.Chain, loc)
	h.writeJSON(ctx, fasthttp.StatusOK, chainURLResponse{URL: loc.String()})
}

// GetRegistrySHA handles GET /registry/sha.
func (h *ChainHandler) GetRegistrySHA(ctx *fasthttp.RequestCtx) {
	sha, err := h.service.RegistrySHA(ctx)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, registryShaResponse{SHA: sha})
}

func (h *ChainHandler) writeJSON(ctx *fasthttp.RequestCtx, status int, body interface{}) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	if err := json.NewEncoder(ctx).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *ChainHandler) writeError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, domain.ErrChainNotFound), errors.Is(err, apperrors.ErrNotFound):
		h.logger.Debug("Chain not found", zap.ByteString("uri", ctx.RequestURI()), zap.Error(err))
		ctx.Error("Not Found", fasthttp.StatusNotFound)
	case errors.Is(err, apperrors.ErrInvalidInput):
		ctx.Error("Bad Request: "+err.Error(), fasthttp.StatusBadRequest)
	case errors.Is(err, domain.ErrLocalChainConflict):
		ctx.Error("Conflict: "+err.Error(), fasthttp.StatusConflict)
	default:
		h.logger.Error("Request failed", zap.ByteString("uri", ctx.RequestURI()), zap.Error(err))
		ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
	}
}

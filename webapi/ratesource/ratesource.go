// Package ratesource exposes the exchange rate source controller over HTTP.
package ratesource

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/amirasaad/ratesync/pkg/controller"
	"github.com/amirasaad/ratesync/pkg/notice"
	"github.com/amirasaad/ratesync/webapi/common"
)

// Routes registers HTTP routes for the exchange rate source configuration.
func Routes(app *fiber.App, ctl *controller.Controller, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{ctl: ctl, logger: logger.With("handler", "ratesource")}

	group := app.Group("/api/exchange-rate-config")
	group.Get("/", h.GetConfig)
	group.Patch("/", h.PatchConfig)
	group.Post("/save", h.Save)
	group.Post("/test-connection", h.TestConnection)
	group.Post("/update-rates", h.UpdateRates)
	group.Post("/usage", h.Usage)
	group.Get("/currencies", h.Candidates)
	group.Post("/base-currencies", h.AddBaseCurrency)
	group.Delete("/base-currencies/:code", h.RemoveBaseCurrency)
	group.Post("/rates/:scope/sync", h.SyncRates)
}

type handler struct {
	ctl    *controller.Controller
	logger *slog.Logger
}

// respond runs op with a fresh notice collector and answers with the
// resulting view and notices.
func (h *handler) respond(
	c *fiber.Ctx,
	title string,
	op func(ctx context.Context) error,
) error {
	collector := notice.NewCollector()
	ctx := notice.WithCollector(c.UserContext(), collector)
	if err := op(ctx); err != nil {
		h.logger.Error("Request failed", "operation", title, "path", c.Path(), "error", err)
		return common.ProblemDetailsJSON(c, title, err)
	}
	view, err := h.ctl.View(ctx)
	if err != nil {
		return common.ProblemDetailsJSON(c, "Failed to load configuration", err)
	}
	notices := collector.Notices()
	return common.SuccessResponseJSON(c, fiber.StatusOK, title, ConfigResponse{
		View:    view,
		Notices: notices,
	})
}

// GetConfig returns the configuration view.
// @Summary Get exchange rate source configuration
// @Tags exchange-rate-config
// @Produce json
// @Success 200 {object} common.Response
// @Failure 500 {object} common.ProblemDetails
// @Router /api/exchange-rate-config [get]
func (h *handler) GetConfig(c *fiber.Ctx) error {
	return h.respond(c, "Get configuration", func(context.Context) error { return nil })
}

// PatchConfig applies field edits in order. The first rejected edit stops
// the request; earlier edits stay applied but unsaved.
// @Summary Edit configuration fields
// @Tags exchange-rate-config
// @Accept json
// @Produce json
// @Param request body PatchRequest true "Field edits"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /api/exchange-rate-config [patch]
func (h *handler) PatchConfig(c *fiber.Ctx) error {
	input, err := common.BindAndValidate[PatchRequest](c)
	if input == nil {
		return err
	}
	return h.respond(c, "Update configuration", func(ctx context.Context) error {
		for _, edit := range input.Edits {
			if err := h.ctl.SetField(ctx, controller.Field(edit.Field), edit.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Save persists the pending edits.
// @Summary Save configuration
// @Tags exchange-rate-config
// @Produce json
// @Success 200 {object} common.Response
// @Failure 422 {object} common.ProblemDetails
// @Router /api/exchange-rate-config/save [post]
func (h *handler) Save(c *fiber.Ctx) error {
	return h.respond(c, "Save configuration", h.ctl.Save)
}

// TestConnection verifies the API key against the provider.
// @Summary Test provider connection
// @Tags exchange-rate-config
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/exchange-rate-config/test-connection [post]
func (h *handler) TestConnection(c *fiber.Ctx) error {
	return h.respond(c, "Test connection", h.ctl.TestConnection)
}

// UpdateRates runs the button-triggered sync for every base currency.
// @Summary Update exchange rates
// @Tags exchange-rate-config
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/exchange-rate-config/update-rates [post]
func (h *handler) UpdateRates(c *fiber.Ctx) error {
	return h.respond(c, "Update exchange rates", func(ctx context.Context) error {
		return h.ctl.UpdateExchangeRates(ctx, controller.TriggerButton)
	})
}

// Usage reports the provider's API usage.
// @Summary Show API usage
// @Tags exchange-rate-config
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/exchange-rate-config/usage [post]
func (h *handler) Usage(c *fiber.Ctx) error {
	return h.respond(c, "Show API usage", h.ctl.ShowAPIUsage)
}

// Candidates returns the base currency selector lists.
// @Summary List currency candidates
// @Tags exchange-rate-config
// @Produce json
// @Success 200 {object} common.Response
// @Failure 500 {object} common.ProblemDetails
// @Router /api/exchange-rate-config/currencies [get]
func (h *handler) Candidates(c *fiber.Ctx) error {
	candidates, err := h.ctl.Candidates(c.UserContext())
	if err != nil {
		return common.ProblemDetailsJSON(c, "Failed to list currencies", err)
	}
	return common.SuccessResponseJSON(c, fiber.StatusOK, "Currencies fetched", candidates)
}

// AddBaseCurrency adds a base currency and fetches its rates.
// @Summary Add base currency
// @Tags exchange-rate-config
// @Accept json
// @Produce json
// @Param request body CurrencyRequest true "Currency"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /api/exchange-rate-config/base-currencies [post]
func (h *handler) AddBaseCurrency(c *fiber.Ctx) error {
	input, err := common.BindAndValidate[CurrencyRequest](c)
	if input == nil {
		return err
	}
	return h.respond(c, "Add base currency", func(ctx context.Context) error {
		return h.ctl.AddCurrency(ctx, input.Code)
	})
}

// RemoveBaseCurrency removes a base currency.
// @Summary Remove base currency
// @Tags exchange-rate-config
// @Produce json
// @Param code path string true "Currency code"
// @Success 200 {object} common.Response
// @Router /api/exchange-rate-config/base-currencies/{code} [delete]
func (h *handler) RemoveBaseCurrency(c *fiber.Ctx) error {
	code := c.Params("code")
	return h.respond(c, "Remove base currency", func(ctx context.Context) error {
		return h.ctl.RemoveCurrency(ctx, code)
	})
}

// SyncRates updates the rates of one base currency, or every base for "All".
// @Summary Sync rates for a scope
// @Tags exchange-rate-config
// @Produce json
// @Param scope path string true "Base currency code or All"
// @Success 200 {object} common.Response
// @Router /api/exchange-rate-config/rates/{scope}/sync [post]
func (h *handler) SyncRates(c *fiber.Ctx) error {
	scope := c.Params("scope")
	return h.respond(c, "Sync rates", func(ctx context.Context) error {
		return h.ctl.UpdateRatesFor(ctx, scope)
	})
}

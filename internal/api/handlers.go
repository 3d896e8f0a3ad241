// Package api exposes the optimization engine over HTTP. It maps the error
// taxonomy onto status codes: CLIENT errors become 400, BUSINESS errors 422,
// everything else 500.
package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/piwi3910/barcut/internal/engine"
	"github.com/piwi3910/barcut/internal/errs"
	"github.com/piwi3910/barcut/internal/model"
)

// SetupRoutes registers all routes on the app.
func SetupRoutes(app *fiber.App, orch *engine.Orchestrator) {
	app.Get("/healthz", HealthCheckHandler)

	v1 := app.Group("/api/v1")
	v1.Post("/optimize", OptimizeHandler(orch))
	v1.Post("/compare", CompareHandler(orch))
	v1.Post("/estimate", EstimateHandler())
}

func HealthCheckHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "UP",
		"service": "barcut optimizer",
	})
}

// errorResponse renders an AppError as the documented failure envelope.
func errorResponse(c *fiber.Ctx, err *errs.AppError) error {
	return c.Status(err.HTTPStatus()).JSON(model.OptimizeResponse{
		Success: false,
		Error: &model.ErrorBody{
			Code:    err.Code,
			Message: err.Message,
			Details: err.Details,
		},
	})
}

// OptimizeHandler runs one optimization request.
func OptimizeHandler(orch *engine.Orchestrator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.OptimizeRequest
		if err := c.BodyParser(&req); err != nil {
			return errorResponse(c, errs.Client(errs.CodeInvalidRequest, "invalid JSON body").Wrap(err))
		}

		resp := orch.Optimize(c.UserContext(), req)
		status := fiber.StatusOK
		if !resp.Success && resp.Error != nil {
			status = statusForCode(resp.Error.Code)
		}
		return c.Status(status).JSON(resp)
	}
}

// CompareHandler runs every algorithm on the same input and returns the
// ranked attempts.
func CompareHandler(orch *engine.Orchestrator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.OptimizeRequest
		if err := c.BodyParser(&req); err != nil {
			return errorResponse(c, errs.Client(errs.CodeInvalidRequest, "invalid JSON body").Wrap(err))
		}

		cmp := orch.Compare(c.UserContext(), req)
		if cmp.Best == nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(cmp)
		}
		return c.Status(fiber.StatusOK).JSON(cmp)
	}
}

// estimateRequest is the input for a bar purchasing estimate.
type estimateRequest struct {
	Items        []model.ItemInput `json:"items"`
	StockLength  float64           `json:"stock_length"`
	KerfWidth    float64           `json:"kerf_width"`
	WastePercent float64           `json:"waste_percent"`
	PricePerBar  float64           `json:"price_per_bar"`
}

// EstimateHandler computes how many bars to purchase for a demand list
// without running a full optimization.
func EstimateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req estimateRequest
		if err := c.BodyParser(&req); err != nil {
			return errorResponse(c, errs.Client(errs.CodeInvalidRequest, "invalid JSON body").Wrap(err))
		}

		items, _, err := engine.Normalize(req.Items, engine.NormalizeOptions{})
		if err != nil {
			return errorResponse(c, errs.From(err))
		}
		if req.StockLength <= 0 {
			return errorResponse(c, errs.Client(errs.CodeInvalidRequest, "stock length must be positive"))
		}

		est := model.CalculatePurchaseEstimate(items, req.StockLength, req.KerfWidth, req.WastePercent, req.PricePerBar)
		return c.Status(fiber.StatusOK).JSON(est)
	}
}

// statusForCode maps a stable error code back to its HTTP status.
func statusForCode(code string) int {
	switch {
	case len(code) >= 6 && code[:6] == "CLIENT":
		return fiber.StatusBadRequest
	case len(code) >= 8 && code[:8] == "BUSINESS":
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// RequestSizeLimiter rejects oversized request bodies before parsing.
func RequestSizeLimiter(maxBytes int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Request().Header.ContentLength() > maxBytes {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(model.OptimizeResponse{
				Success: false,
				Error: &model.ErrorBody{
					Code:    errs.CodeInvalidRequest,
					Message: "request body too large",
				},
			})
		}
		return c.Next()
	}
}

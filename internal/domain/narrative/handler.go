package narrative

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ehr/formulation/internal/domain/criteria"
	"github.com/ehr/formulation/internal/platform/auth"
)

// MaxBatchRequests bounds the size of one batch call.
const MaxBatchRequests = 100

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	write := api.Group("", auth.RequireRole(auth.RoleClinician))
	write.POST("/disorders/:key/formulation", h.Generate)
	write.POST("/formulations/batch", h.GenerateBatch)
}

type generateRequest struct {
	Selection criteria.Selection `json:"selection"`
	Markup    string             `json:"markup"`
}

type batchRequest struct {
	Requests []Request `json:"requests"`
	Markup   string    `json:"markup"`
}

type batchResponse struct {
	Results []BatchItem `json:"results"`
}

func (h *Handler) Generate(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	strip, err := stripMarkup(c, req.Markup)
	if err != nil {
		return err
	}

	res, err := h.svc.Generate(c.Request().Context(), c.Param("key"), req.Selection)
	if errors.Is(err, criteria.ErrUnknownDisorder) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if strip {
		res.Text = StripMarkup(res.Text)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) GenerateBatch(c echo.Context) error {
	var req batchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Requests) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "requests is required")
	}
	if len(req.Requests) > MaxBatchRequests {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("at most %d requests per batch", MaxBatchRequests))
	}
	strip, err := stripMarkup(c, req.Markup)
	if err != nil {
		return err
	}

	items, err := h.svc.GenerateBatch(c.Request().Context(), req.Requests)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if strip {
		for _, it := range items {
			if it.Result != nil {
				it.Result.Text = StripMarkup(it.Result.Text)
			}
		}
	}
	return c.JSON(http.StatusOK, batchResponse{Results: items})
}

// stripMarkup reads the markup mode from the body, falling back to the query string.
func stripMarkup(c echo.Context, mode string) (bool, error) {
	if mode == "" {
		mode = c.QueryParam("markup")
	}
	switch mode {
	case "", "keep":
		return false, nil
	case "strip":
		return true, nil
	}
	return false, echo.NewHTTPError(http.StatusBadRequest, "markup must be keep or strip")
}

package criteria

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ehr/formulation/internal/platform/auth"
	"github.com/ehr/formulation/pkg/pagination"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RoleClinician, auth.RoleReviewer))
	read.GET("/disorders", h.ListDisorders)
	read.GET("/disorders/:key", h.GetDisorder)
	read.GET("/disorders/:key/sections", h.ListSections)
}

func (h *Handler) ListDisorders(c echo.Context) error {
	pg := pagination.FromContext(c)
	all := h.catalog.Summaries()
	start, end := pg.Window(len(all))
	resp := pagination.NewResponse(all[start:end], len(all), pg.Limit, pg.Offset)
	resp.Links = pg.Links(c.Request().URL.Path, len(all))
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetDisorder(c echo.Context) error {
	e, err := h.catalog.Get(c.Param("key"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) ListSections(c echo.Context) error {
	sections, err := h.catalog.Sections(c.Param("key"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, sections)
}

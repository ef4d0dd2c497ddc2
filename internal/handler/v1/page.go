package v1

import (
	"net/http"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/query"
	"github.com/gin-gonic/gin"
)

// parsePageRequest reads offset, limit, sort, order and the kind's filter
// fields from the query string. Limits above the configured maximum are clamped.
func (h *Handler) parsePageRequest(c *gin.Context, kind query.Kind) (query.Request, bool) {
	limit, ok := parseQueryInt(c, "limit", h.pagination.DefaultLimit, 1)
	if !ok {
		return query.Request{}, false
	}
	offset, ok := parseQueryInt(c, "offset", 0, 0)
	if !ok {
		return query.Request{}, false
	}

	req := query.Request{
		Kind:      kind,
		Offset:    offset,
		Limit:     min(limit, h.pagination.MaxLimit),
		SortField: strings.TrimSpace(c.Query("sort")),
		Ascending: true,
	}

	switch strings.ToLower(c.Query("order")) {
	case "", "asc":
	case "desc":
		req.Ascending = false
	default:
		respondError(c, http.StatusBadRequest, "invalid order: must be asc or desc")
		return query.Request{}, false
	}

	for _, field := range query.FilterFields(kind) {
		if term, ok := c.GetQuery(field); ok {
			if req.Filters == nil {
				req.Filters = make(map[string]string)
			}
			req.Filters[field] = term
		}
	}

	return req, true
}

func (h *Handler) servePage(c *gin.Context, kind query.Kind) {
	req, ok := h.parsePageRequest(c, kind)
	if !ok {
		return
	}
	page, err := h.svc.Pages.FetchPage(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}

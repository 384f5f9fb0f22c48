package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/logger"
)

// IngestRequest carries exactly one of Content and URL.
type IngestRequest struct {
	Content *string `json:"content,omitempty"`
	URL     *string `json:"url,omitempty"`
}

// IngestResponse reports a completed ingestion.
type IngestResponse struct {
	Message string `json:"message"`
	ItemID  string `json:"item_id"`
	Source  string `json:"source"`
	Chunks  int    `json:"chunks"`
	Dropped int    `json:"dropped"`
}

// QueryRequest carries a question.
type QueryRequest struct {
	Question string `json:"question"`
}

// ResetRequest carries the admin key.
type ResetRequest struct {
	APIKey string `json:"api_key"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ItemResponse is one stored item.
type ItemResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Source    string    `json:"source"`
	Origin    string    `json:"origin,omitempty"`
	Chunks    int       `json:"chunks"`
	CreatedAt time.Time `json:"created_at"`
}

// content converts the request into a domain content variant.
func (r IngestRequest) content() (domain.Content, error) {
	switch {
	case r.Content != nil && r.URL != nil:
		return nil, echo.NewHTTPError(http.StatusBadRequest, "provide either content or url, not both")
	case r.Content != nil:
		return domain.Note{Text: *r.Content}, nil
	case r.URL != nil:
		return domain.URLRef{URL: *r.URL}, nil
	default:
		return nil, echo.NewHTTPError(http.StatusBadRequest, "provide content or url")
	}
}

func (s *Server) ingest(c echo.Context) error {
	var req IngestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	content, err := req.content()
	if err != nil {
		return err
	}

	result, err := s.ports.Ingest.Ingest(c.Request().Context(), content)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, IngestResponse{
		Message: "Content ingested successfully",
		ItemID:  result.ItemID,
		Source:  result.Source.String(),
		Chunks:  result.Chunks,
		Dropped: result.Dropped,
	})
}

func (s *Server) listItems(c echo.Context) error {
	items, err := s.ports.Items.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = itemResponse(&items[i])
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getItem(c echo.Context) error {
	item, err := s.ports.Items.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, itemResponse(item))
}

func (s *Server) query(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	answer, err := s.ports.Query.Query(c.Request().Context(), req.Question)
	if err != nil {
		return err
	}
	if answer.Sources == nil {
		answer.Sources = []domain.Source{}
	}
	return c.JSON(http.StatusOK, answer)
}

func (s *Server) reset(c echo.Context) error {
	var req ResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := s.ports.Admin.Reset(c.Request().Context(), req.APIKey); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "All data has been reset"})
}

func itemResponse(item *domain.ItemSummary) ItemResponse {
	return ItemResponse{
		ID:        item.ID,
		Content:   item.Content,
		Source:    item.Source.String(),
		Origin:    item.Origin,
		Chunks:    item.Chunks,
		CreatedAt: item.CreatedAt.UTC(),
	}
}

func (s *Server) health(c echo.Context) error {
	if c.QueryParam("deep") != "1" || s.ports.Check == nil {
		return c.String(http.StatusOK, "ok")
	}
	if err := s.ports.Check(c.Request().Context()); err != nil {
		logger.Warn("health check: %v", err)
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	return c.String(http.StatusOK, "ok")
}

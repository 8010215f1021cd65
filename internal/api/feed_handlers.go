package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/coloredin/coloredin-server/internal/service"
)

func (s *Server) registerFeedRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/feed",
		Summary:     "Get feed",
		Description: "Returns the caller's palettes ahead of the plan-gated catalog page. User palettes appear on page 0 only.",
		Tags:        []string{"Feed"},
		Security:    []map[string][]string{{"bearer": {}}, {}},
	}, s.handleGetFeed)
}

// FeedInput contains feed paging parameters.
type FeedInput struct {
	PageParams
}

// FeedOutput wraps a feed page.
type FeedOutput struct {
	Body *service.FeedPage
}

func (s *Server) handleGetFeed(ctx context.Context, input *FeedInput) (*FeedOutput, error) {
	page, err := s.services.Feed.Feed(ctx, optionalUserID(ctx), input.Page, input.PageSize)
	if err != nil {
		return nil, err
	}
	return &FeedOutput{Body: page}, nil
}

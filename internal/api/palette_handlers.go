package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/coloredin/coloredin-server/internal/api/dto"
	"github.com/coloredin/coloredin-server/internal/search"
	"github.com/coloredin/coloredin-server/internal/service"
	"github.com/coloredin/coloredin-server/internal/store"
)

func (s *Server) registerPaletteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createPalette",
		Method:        http.MethodPost,
		Path:          "/api/v1/palettes",
		Summary:       "Create palette",
		Description:   "Saves a user palette of five colors",
		Tags:          []string{"Palettes"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreatePalette)

	huma.Register(s.api, huma.Operation{
		OperationID: "listOwnPalettes",
		Method:      http.MethodGet,
		Path:        "/api/v1/palettes",
		Summary:     "List own palettes",
		Description: "Returns the caller's palettes, newest first",
		Tags:        []string{"Palettes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListOwnPalettes)

	huma.Register(s.api, huma.Operation{
		OperationID: "listRecentPalettes",
		Method:      http.MethodGet,
		Path:        "/api/v1/palettes/recent",
		Summary:     "List recent palettes",
		Description: "Returns every user's palettes, newest first, with cursor pagination",
		Tags:        []string{"Palettes"},
	}, s.handleListRecentPalettes)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchPalettes",
		Method:      http.MethodGet,
		Path:        "/api/v1/palettes/search",
		Summary:     "Search palettes",
		Description: "Full-text search over user palettes with tag and hue filters",
		Tags:        []string{"Palettes"},
	}, s.handleSearchPalettes)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPalette",
		Method:      http.MethodGet,
		Path:        "/api/v1/palettes/{id}",
		Summary:     "Get palette",
		Description: "Returns a user palette by ID",
		Tags:        []string{"Palettes"},
	}, s.handleGetPalette)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePalette",
		Method:      http.MethodDelete,
		Path:        "/api/v1/palettes/{id}",
		Summary:     "Delete palette",
		Description: "Deletes one of the caller's palettes",
		Tags:        []string{"Palettes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeletePalette)
}

// === DTOs ===

// CreatePaletteRequest is the request body for creating a palette.
type CreatePaletteRequest struct {
	Name   string   `json:"name" doc:"Palette name"`
	Colors []string `json:"colors" doc:"Exactly five #RGB or #RRGGBB colors"`
	Tags   []string `json:"tags,omitempty" doc:"Optional tags, normalized to lowercase"`
}

// CreatePaletteInput wraps the create palette request.
type CreatePaletteInput struct {
	Authorization string `header:"Authorization"`
	Body          CreatePaletteRequest
}

// PaletteOutput wraps a user palette.
type PaletteOutput struct {
	Body dto.UserPalette
}

// ListOwnPalettesInput contains parameters for listing own palettes.
type ListOwnPalettesInput struct {
	Authorization string `header:"Authorization"`
}

// PaletteListResponse is a list of user palettes.
type PaletteListResponse struct {
	Palettes []dto.UserPalette `json:"palettes" doc:"Palettes, newest first"`
	Total    int               `json:"total" doc:"Number of palettes"`
}

// PaletteListOutput wraps a palette list.
type PaletteListOutput struct {
	Body PaletteListResponse
}

// ListRecentPalettesInput contains cursor pagination parameters.
type ListRecentPalettesInput struct {
	Limit  int    `query:"limit" default:"50" minimum:"1" maximum:"100" doc:"Palettes per page"`
	Cursor string `query:"cursor" doc:"Cursor from the previous page"`
}

// RecentPalettesResponse is one page of recent palettes.
type RecentPalettesResponse struct {
	Palettes   []dto.UserPalette `json:"palettes" doc:"Palettes, newest first"`
	NextCursor string            `json:"next_cursor,omitempty" doc:"Cursor for the next page"`
	HasMore    bool              `json:"has_more" doc:"Whether more pages follow"`
}

// RecentPalettesOutput wraps a recent palettes page.
type RecentPalettesOutput struct {
	Body RecentPalettesResponse
}

// SearchPalettesInput contains user palette search parameters.
type SearchPalettesInput struct {
	Query  string   `query:"q" maxLength:"100" doc:"Search text"`
	Owner  string   `query:"owner" doc:"Only palettes of this user"`
	Tags   []string `query:"tags" doc:"Required tags (comma-separated)"`
	Hues   []string `query:"hues" doc:"Required hue families (comma-separated)"`
	Sort   string   `query:"sort" default:"relevance" enum:"relevance,recent,name" doc:"Result order"`
	Facets bool     `query:"facets" doc:"Include tag and hue facet counts"`
	Limit  int      `query:"limit" default:"20" minimum:"1" maximum:"200" doc:"Maximum hits"`
	Offset int      `query:"offset" default:"0" minimum:"0" doc:"Hits to skip"`
}

// SearchPalettesOutput wraps a search result.
type SearchPalettesOutput struct {
	Body *search.Result
}

// PaletteIDInput identifies a user palette.
type PaletteIDInput struct {
	ID string `path:"id" doc:"Palette ID"`
}

// DeletePaletteInput identifies the palette to delete.
type DeletePaletteInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Palette ID"`
}

// === Handlers ===

func (s *Server) handleCreatePalette(ctx context.Context, input *CreatePaletteInput) (*PaletteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Palette.Create(ctx, userID, service.CreatePaletteInput{
		Name:   input.Body.Name,
		Colors: input.Body.Colors,
		Tags:   input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &PaletteOutput{Body: dto.NewUserPalette(p)}, nil
}

func (s *Server) handleListOwnPalettes(ctx context.Context, _ *ListOwnPalettesInput) (*PaletteListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	palettes, err := s.services.Palette.ListOwn(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &PaletteListOutput{
		Body: PaletteListResponse{
			Palettes: dto.NewUserPalettes(palettes),
			Total:    len(palettes),
		},
	}, nil
}

func (s *Server) handleListRecentPalettes(ctx context.Context, input *ListRecentPalettesInput) (*RecentPalettesOutput, error) {
	res, err := s.services.Palette.ListRecent(ctx, store.PaginationParams{
		Limit:  input.Limit,
		Cursor: input.Cursor,
	})
	if err != nil {
		return nil, err
	}

	return &RecentPalettesOutput{
		Body: RecentPalettesResponse{
			Palettes:   dto.NewUserPalettes(res.Items),
			NextCursor: res.NextCursor,
			HasMore:    res.HasMore,
		},
	}, nil
}

func (s *Server) handleSearchPalettes(ctx context.Context, input *SearchPalettesInput) (*SearchPalettesOutput, error) {
	res, err := s.services.Palette.Search(ctx, search.Params{
		Query:         input.Query,
		OwnerID:       input.Owner,
		Tags:          input.Tags,
		Hues:          input.Hues,
		SortBy:        input.Sort,
		IncludeFacets: input.Facets,
		Limit:         input.Limit,
		Offset:        input.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &SearchPalettesOutput{Body: res}, nil
}

func (s *Server) handleGetPalette(ctx context.Context, input *PaletteIDInput) (*PaletteOutput, error) {
	p, err := s.services.Palette.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PaletteOutput{Body: dto.NewUserPalette(p)}, nil
}

func (s *Server) handleDeletePalette(ctx context.Context, input *DeletePaletteInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Palette.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

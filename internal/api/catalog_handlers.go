package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/coloredin/coloredin-server/internal/api/dto"
	"github.com/coloredin/coloredin-server/internal/palette"
	"github.com/coloredin/coloredin-server/internal/preview"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCatalogPalette",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/palettes/{index}",
		Summary:     "Get catalog palette",
		Description: "Returns the generated palette at a 0-based catalog index",
		Tags:        []string{"Catalog"},
	}, s.handleGetCatalogPalette)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCatalogRange",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/palettes",
		Summary:     "List catalog range",
		Description: "Returns the palettes in [start, end), clamped to the catalog",
		Tags:        []string{"Catalog"},
	}, s.handleListCatalogRange)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPlanPage",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/plans/{plan}",
		Summary:     "Get plan page",
		Description: "Returns a catalog page as seen by the given plan. Unknown plans are treated as free.",
		Tags:        []string{"Catalog"},
	}, s.handleGetPlanPage)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCatalogPage",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/page",
		Summary:     "Get catalog page",
		Description: "Returns a catalog page for the caller's plan. Anonymous callers see the free plan.",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}, {}},
	}, s.handleGetCatalogPage)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/search",
		Summary:     "Search catalog",
		Description: "Matches palette names by substring and tags exactly, up to the caller's plan ceiling or across the whole catalog",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}, {}},
	}, s.handleSearchCatalog)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRandomPalette",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/random",
		Summary:     "Random free palette",
		Description: "Returns the colors of a random free catalog palette",
		Tags:        []string{"Catalog"},
	}, s.handleGetRandomPalette)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRandomColors",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/random-colors",
		Summary:     "Random colors",
		Description: "Returns five freshly generated colors",
		Tags:        []string{"Catalog"},
	}, s.handleGetRandomColors)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCatalogPreview",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/palettes/{index}/preview.png",
		Summary:     "Palette preview image",
		Description: "Renders the catalog palette as PNG stripes, optionally captioned with its name",
		Tags:        []string{"Catalog"},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "PNG image",
				Content: map[string]*huma.MediaType{
					"image/png": {Schema: &huma.Schema{Type: "string", Format: "binary"}},
				},
			},
		},
	}, s.handleGetCatalogPreview)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCatalogBlurHash",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/palettes/{index}/blurhash",
		Summary:     "Palette BlurHash",
		Description: "Returns a BlurHash placeholder for the catalog palette",
		Tags:        []string{"Catalog"},
	}, s.handleGetCatalogBlurHash)
}

// === DTOs ===

// CatalogIndexInput identifies a catalog palette.
type CatalogIndexInput struct {
	Index int `path:"index" doc:"0-based catalog index"`
}

// CatalogPaletteOutput wraps a single catalog palette.
type CatalogPaletteOutput struct {
	Body dto.CatalogPalette
}

// CatalogRangeInput selects [start, end).
type CatalogRangeInput struct {
	Start int `query:"start" default:"0" doc:"First index, inclusive"`
	End   int `query:"end" default:"50" doc:"Last index, exclusive"`
}

// CatalogRangeResponse is a clamped window of the catalog.
type CatalogRangeResponse struct {
	Start    int                  `json:"start" doc:"Effective first index"`
	End      int                  `json:"end" doc:"Effective last index, exclusive"`
	Palettes []dto.CatalogPalette `json:"palettes" doc:"Palettes in index order"`
}

// CatalogRangeOutput wraps a catalog range.
type CatalogRangeOutput struct {
	Body CatalogRangeResponse
}

// PageParams are the shared paging query parameters.
type PageParams struct {
	Page     int `query:"page" default:"0" minimum:"0" doc:"0-based page number"`
	PageSize int `query:"page_size" default:"50" minimum:"1" maximum:"200" doc:"Palettes per page"`
}

// PlanPageInput selects a page for a named plan.
type PlanPageInput struct {
	Plan string `path:"plan" doc:"Plan name: free, pro, ultra or individual"`
	PageParams
}

// CatalogPageInput selects a page for the caller's plan.
type CatalogPageInput struct {
	PageParams
}

// CatalogPageOutput wraps a catalog page.
type CatalogPageOutput struct {
	Body dto.CatalogPage
}

// CatalogSearchInput contains catalog search parameters.
type CatalogSearchInput struct {
	Query string `query:"q" maxLength:"100" doc:"Name substring or exact tag"`
	Limit int    `query:"limit" default:"50" minimum:"1" maximum:"200" doc:"Maximum results"`
	Scope string `query:"scope" default:"plan" enum:"plan,all" doc:"Search up to the caller's plan ceiling, or the whole catalog"`
}

// CatalogSearchResponse lists catalog search matches.
type CatalogSearchResponse struct {
	Query    string               `json:"query" doc:"Query as received"`
	Scope    string               `json:"scope" doc:"Scope searched"`
	Count    int                  `json:"count" doc:"Number of palettes returned"`
	Palettes []dto.CatalogPalette `json:"palettes" doc:"Matches in index order"`
}

// CatalogSearchOutput wraps catalog search results.
type CatalogSearchOutput struct {
	Body CatalogSearchResponse
}

// ColorsResponse is a bare list of colors.
type ColorsResponse struct {
	Colors []string `json:"colors" doc:"Uppercase #RRGGBB colors"`
}

// ColorsOutput wraps a list of colors.
type ColorsOutput struct {
	Body ColorsResponse
}

// RandomColorsInput is accepted for compatibility; five colors are always returned.
type RandomColorsInput struct {
	Count int `query:"count" default:"5" minimum:"1" maximum:"10" doc:"Requested color count (ignored, always 5)"`
}

// PreviewInput selects a preview size.
type PreviewInput struct {
	Index  int  `path:"index" doc:"0-based catalog index"`
	Width  int  `query:"width" default:"500" minimum:"50" maximum:"2000" doc:"Image width in pixels"`
	Height int  `query:"height" default:"120" minimum:"20" maximum:"1000" doc:"Image height in pixels"`
	Label  bool `query:"label" default:"true" doc:"Caption the image with the palette name"`
}

// PreviewOutput is a raw PNG body.
type PreviewOutput struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

// BlurHashResponse contains a BlurHash placeholder.
type BlurHashResponse struct {
	Index    int    `json:"index" doc:"0-based catalog index"`
	BlurHash string `json:"blurhash" doc:"BlurHash string"`
}

// BlurHashOutput wraps a BlurHash.
type BlurHashOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         BlurHashResponse
}

// === Handlers ===

func (s *Server) handleGetCatalogPalette(_ context.Context, input *CatalogIndexInput) (*CatalogPaletteOutput, error) {
	p, err := s.services.Catalog.Get(input.Index)
	if err != nil {
		return nil, err
	}
	return &CatalogPaletteOutput{Body: dto.NewCatalogPalette(p)}, nil
}

func (s *Server) handleListCatalogRange(_ context.Context, input *CatalogRangeInput) (*CatalogRangeOutput, error) {
	start := max(input.Start, 0)
	end := min(input.End, palette.CatalogSize, start+MaxRangeSpan)
	if end < start {
		end = start
	}

	return &CatalogRangeOutput{
		Body: CatalogRangeResponse{
			Start:    start,
			End:      end,
			Palettes: dto.NewCatalogPalettes(s.services.Catalog.Range(start, end)),
		},
	}, nil
}

func (s *Server) handleGetPlanPage(_ context.Context, input *PlanPageInput) (*CatalogPageOutput, error) {
	page := s.services.Catalog.PlanPage(input.Plan, input.Page, input.PageSize)
	return &CatalogPageOutput{Body: dto.NewCatalogPage(page)}, nil
}

func (s *Server) handleGetCatalogPage(ctx context.Context, input *CatalogPageInput) (*CatalogPageOutput, error) {
	page, err := s.services.Catalog.Page(ctx, optionalUserID(ctx), input.Page, input.PageSize)
	if err != nil {
		return nil, err
	}
	return &CatalogPageOutput{Body: dto.NewCatalogPage(page)}, nil
}

func (s *Server) handleSearchCatalog(ctx context.Context, input *CatalogSearchInput) (*CatalogSearchOutput, error) {
	results, err := s.services.Catalog.Search(ctx, optionalUserID(ctx), input.Query, input.Scope, input.Limit)
	if err != nil {
		return nil, err
	}

	return &CatalogSearchOutput{
		Body: CatalogSearchResponse{
			Query:    input.Query,
			Scope:    input.Scope,
			Count:    len(results),
			Palettes: dto.NewCatalogPalettes(results),
		},
	}, nil
}

func (s *Server) handleGetRandomPalette(_ context.Context, _ *struct{}) (*ColorsOutput, error) {
	return &ColorsOutput{Body: ColorsResponse{Colors: s.services.Catalog.Random()}}, nil
}

func (s *Server) handleGetRandomColors(_ context.Context, input *RandomColorsInput) (*ColorsOutput, error) {
	return &ColorsOutput{Body: ColorsResponse{Colors: s.services.Catalog.RandomColors(input.Count)}}, nil
}

func (s *Server) handleGetCatalogPreview(_ context.Context, input *PreviewInput) (*PreviewOutput, error) {
	data, err := s.services.Preview.CatalogPNG(input.Index, input.Width, input.Height, input.Label)
	if err != nil {
		return nil, err
	}

	// Catalog palettes never change, so previews cache well.
	return &PreviewOutput{
		ContentType:  preview.ContentType,
		CacheControl: CacheOneWeek,
		Body:         data,
	}, nil
}

func (s *Server) handleGetCatalogBlurHash(_ context.Context, input *CatalogIndexInput) (*BlurHashOutput, error) {
	hash, err := s.services.Preview.CatalogBlurHash(input.Index)
	if err != nil {
		return nil, err
	}

	return &BlurHashOutput{
		CacheControl: CacheOneWeek,
		Body: BlurHashResponse{
			Index:    input.Index,
			BlurHash: hash,
		},
	}, nil
}

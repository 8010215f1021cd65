package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for palette documents.
//
//  1. Full-text search on names with English stemming
//  2. Folded name kept whole for prefix (autocomplete) matching
//  3. Exact keyword matching for tags, hue families, colors and owner
//  4. Numeric created_at for recency sorting
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = en.AnalyzerName
	nameFieldMapping.Store = true
	nameFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	keywordField := func(store bool) *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = store
		return fm
	}

	docMapping.AddFieldMappingsAt("folded", keywordField(false))
	docMapping.AddFieldMappingsAt("id", keywordField(false))
	docMapping.AddFieldMappingsAt("owner_id", keywordField(true))
	// Keyword analyzer keeps compound tags intact ("sea-foam").
	docMapping.AddFieldMappingsAt("tags", keywordField(true))
	docMapping.AddFieldMappingsAt("hues", keywordField(true))
	docMapping.AddFieldMappingsAt("colors", keywordField(true))

	createdAtFieldMapping := bleve.NewNumericFieldMapping()
	createdAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

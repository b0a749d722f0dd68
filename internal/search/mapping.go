package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the mapping shared by place and order documents.
//
// Titles and details use the English analyzer so "lattes" finds "latte".
// Place names use the simple analyzer: brand names should not be stemmed.
// Type, id, place_id and tags are keywords for exact filtering.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	textField := func(analyzer string, store, vectors bool) *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = analyzer
		fm.Store = store
		fm.IncludeTermVectors = vectors
		return fm
	}

	docMapping.AddFieldMappingsAt("name", textField(en.AnalyzerName, true, true))
	docMapping.AddFieldMappingsAt("details", textField(en.AnalyzerName, true, true))
	docMapping.AddFieldMappingsAt("place_name", textField(simple.Name, true, true))
	docMapping.AddFieldMappingsAt("tag_text", textField(simple.Name, false, false))

	docMapping.AddFieldMappingsAt("type", textField(keyword.Name, true, false))
	docMapping.AddFieldMappingsAt("id", textField(keyword.Name, true, false))
	docMapping.AddFieldMappingsAt("place_id", textField(keyword.Name, true, false))
	docMapping.AddFieldMappingsAt("tags", textField(keyword.Name, true, true))

	photoField := bleve.NewBooleanFieldMapping()
	photoField.Store = true
	docMapping.AddFieldMappingsAt("has_photo", photoField)

	createdAt := bleve.NewNumericFieldMapping()
	createdAt.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAt)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

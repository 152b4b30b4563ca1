package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
)

type testCatalog struct {
	entity.Catalog
	Symbol string  `db:"symbol" json:"symbol"`
	Hidden string  `db:"-" json:"hidden"`
	NoTag  string  `json:"noTag"`
	Note   *string `db:"note" json:"note,omitempty"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[testCatalog]()

	expected := []string{
		"id", "deletion_mark", "version",
		"code", "name", "parent_id", "is_folder",
		"symbol", "note",
	}
	assert.Equal(t, expected, cols)
}

func TestExtractDBColumns_SkipsUntagged(t *testing.T) {
	cols := ExtractDBColumns[testCatalog]()

	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "Hidden")
	assert.NotContains(t, cols, "NoTag")
}

func TestExtractDBColumns_PointerType(t *testing.T) {
	assert.Equal(t, ExtractDBColumns[testCatalog](), ExtractDBColumns[*testCatalog]())
}

func TestStructToMap(t *testing.T) {
	cat := testCatalog{
		Catalog: entity.Catalog{
			BaseCatalog: entity.BaseCatalog{
				BaseEntity: entity.BaseEntity{
					ID:           id.New(),
					DeletionMark: true,
					Version:      5,
				},
			},
			Code: "KG",
			Name: "Kilogram",
		},
		Symbol: "kg",
		Hidden: "never persisted",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "KG", m["code"])
	assert.Equal(t, "Kilogram", m["name"])
	assert.Equal(t, "kg", m["symbol"])
	assert.NotContains(t, m, "Hidden")
}

func TestStructToMap_NilPointerField(t *testing.T) {
	cat := testCatalog{Catalog: entity.NewCatalog("PCS", "Piece")}

	m := StructToMap(cat)

	assert.Contains(t, m, "note")
	assert.Nil(t, m["note"])
}

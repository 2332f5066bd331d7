package model

// TerrainCategory groups terrain boxes by setting.
type TerrainCategory string

const (
    TerrainSciFi        TerrainCategory = "SCIFI"
    TerrainHistorical   TerrainCategory = "HISTORICAL"
    TerrainFantasy      TerrainCategory = "FANTASY"
    TerrainAoS          TerrainCategory = "AOS"
    TerrainWarhammer40K TerrainCategory = "WARHAMMER_40K"
    TerrainHills        TerrainCategory = "HILLS"
    TerrainModern       TerrainCategory = "MODERN"
)

// TerrainCategories lists every category in catalog order.
var TerrainCategories = []TerrainCategory{
    TerrainSciFi,
    TerrainHistorical,
    TerrainFantasy,
    TerrainAoS,
    TerrainWarhammer40K,
    TerrainHills,
    TerrainModern,
}

// Valid reports whether c is a known terrain category.
func (c TerrainCategory) Valid() bool {
    for _, k := range TerrainCategories {
        if c == k {
            return true
        }
    }
    return false
}

// TerrainBox represents a box of scenery that members can book together
// with a table.  Like tables, terrain boxes live in an ordered collection.
//
// Fields:
//  ID       – stable identifier ("SCIFI-1", "HILLS-1" or "custom-<uuid>").
//  Name     – label shown to members.
//  Category – setting of the box.
//  ImageURL – preview image.
type TerrainBox struct {
    ID       string          `json:"id"`       // terrain[].id
    Name     string          `json:"name"`     // terrain[].name
    Category TerrainCategory `json:"category"` // terrain[].category
    ImageURL string          `json:"imageUrl"` // terrain[].imageUrl
}

// GetID returns the terrain box identifier.
func (t TerrainBox) GetID() string { return t.ID }

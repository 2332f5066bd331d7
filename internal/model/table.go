package model

// TableSize distinguishes the two physical table formats the club owns.
type TableSize string

const (
    TableSizeSmall TableSize = "SMALL"
    TableSizeLarge TableSize = "LARGE"
)

// Valid reports whether s is one of the known table sizes.
func (s TableSize) Valid() bool {
    return s == TableSizeSmall || s == TableSizeLarge
}

// Table represents one bookable gaming table as stored in the `tables`
// collection.  The position of a Table inside the collection is its
// display and booking priority, so the collection is kept as an ordered
// list rather than a set.
//
// Fields:
//  ID   – stable identifier ("L1", "S3" for seeded tables, "custom-<uuid>" for admin-added ones).
//  Name – human readable label shown to members.
//  Size – SMALL or LARGE.
type Table struct {
    ID   string    `json:"id"`   // tables[].id
    Name string    `json:"name"` // tables[].name
    Size TableSize `json:"size"` // tables[].size
}

// GetID returns the table identifier.
func (t Table) GetID() string { return t.ID }

package travel

import "fmt"

// ItemType discriminates what a favorite, review or price alert points at.
type ItemType string

const (
	ItemTypeFlight      ItemType = "flight"
	ItemTypeHotel       ItemType = "hotel"
	ItemTypeActivity    ItemType = "activity"
	ItemTypeDestination ItemType = "destination"
)

func ParseItemType(s string) (ItemType, error) {
	switch ItemType(s) {
	case ItemTypeFlight, ItemTypeHotel, ItemTypeActivity, ItemTypeDestination:
		return ItemType(s), nil
	default:
		return "", fmt.Errorf("unknown item type %q", s)
	}
}

// SearchType discriminates stored search-history entries.
type SearchType string

const (
	SearchTypeFlight   SearchType = "flight"
	SearchTypeHotel    SearchType = "hotel"
	SearchTypeActivity SearchType = "activity"
)

func ParseSearchType(s string) (SearchType, error) {
	switch SearchType(s) {
	case SearchTypeFlight, SearchTypeHotel, SearchTypeActivity:
		return SearchType(s), nil
	default:
		return "", fmt.Errorf("unknown search type %q", s)
	}
}

package model

import "sort"

// The fixed property taxonomy offered by the listing wizard. Values are
// stored verbatim on listings, so changing a label here is a data migration.

// PropertyStructuralTypes is the single-select structural type list.
var PropertyStructuralTypes = []string{
	"Detached", "Semi-Detached", "Terraced-Row", "Attached", "Flat / Apartment",
	"Loft Apartment", "Bungalow", "Cottage", "Barn Conversion", "Farms",
	"Villa", "Country House", "Converted Church", "House - family",
	"Townhouse", "Statley Home", "Castle", "Chocolate Box",
}

// PropertyStyleEras is the multi-select style/era tag list.
var PropertyStyleEras = []string{
	"Victorian", "Georgian", "Edwardian", "Regency", "Tudor", "Mock Tudor", "Art Deco", "Brutalist",
	"Mid-Century Modern", "Contemporary furnished", "Minimalist", "Industrial", "Modern Interiors - residential",
	"1930's", "1950's", "1960's", "1970's", "1980's", "1920 and 1930", "1940 and 1950",
	"American", "Asian", "Derelict", "Eco", "European", "Faded grandeur",
	"Feminine", "Gothic", "Grand / High End", "Japanese", "Medieval / Tudor",
	"Nouveau Riche", "Ornate / Opulent", "Retro / Vintage",
	"Rundown Grungy Squat", "Shabby Chic / Bohemian", "Studenty / Student House",
	"Suburban", "Traditional / Original interiors", "Un-occupied",
	"Weird and wonderful", "White space",
}

// RoomTypes lists all selectable rooms and areas. The first
// interiorRoomCount entries are interior rooms, the rest exterior.
var RoomTypes = []string{
	"Kitchen", "Bedroom (Master)", "Bedroom (Guest)", "Living Room", "Dining Room",
	"Bathroom", "En-suite", "Office/Study", "Utility Room", "Garage",
	"Conservatory", "Basement/Cellar", "Attic/Loft", "Garden", "Exterior of buildings",
}

const interiorRoomCount = 13

// GeneralInteriorGroup is the feature group offered whenever any interior
// room is selected, regardless of which.
const GeneralInteriorGroup = "General Interior"

// FeatureMapping associates each feature group with its candidate feature
// tags. Interior groups are resolved through InteriorGroupRooms; exterior
// group names double as room/area names.
var FeatureMapping = map[string][]string{
	"Kitchen":            {"Aga", "Kitchen - island", "Kitchen - Island Hob", "Kitchen - Two in same building", "Modern Open-Plan"},
	"Utility Room":       {"Utility room"},
	"Bedroom":            {"Bedroom - adult", "Walk-in Wardrobe", "Period Features", "Exposed Brick/Stone"},
	"Bathroom":           {"Bathroom", "Shower", "Tiled", "Marble", "Concrete floor", "Bathroom - ensuite"},
	"Living Room":        {"Drawing Room", "Fireplace as a feature", "Piano", "Home Cinema", "High Ceilings (10ft+)"},
	"Dining Room":        {"Fireplace/Log Burner", "Chandeliers"},
	"Office/Study":       {"Home office", "Study", "Library", "Panelled room"},
	"Basement/Attic":     {"Basement", "Crypts / cellar", "Wine cellar", "Rundown Grungy Squat", "Attic", "Skylights", "Exposed beams"},
	"Conservatory":       {"Conservatory", "Floor to ceiling windows"},
	GeneralInteriorGroup: {"Arches", "Spiral staircase", "Stairs", "Stone", "Telephone box", "Textured wall", "Wallpaper - patterned", "Unfurnished", "White spaces", "Original Wood Flooring", "Skylights/Atrium"},

	"Garden":            {"Large Garden/Yard", "Greenhouse", "Patio / Decking", "Garden - Formal", "Garden - Vegetable", "Garden - Walled", "Summer House", "Outdoor Kitchen", "Trees"},
	"Garage/Parking":    {"Garage", "Repair workshop", "Hardstanding", "Drive-in", "Gated Entrance", "Driveway/Private Parking"},
	"Building Exterior": {"Balcony", "Roof terrace/Deck", "Historic Facade", "Alley", "Front Doors", "Sheds / outhouse", "Thatched roof", "Exterior of buildings", "Ruins", "Stone", "Cobbled"},
	"Rural/Land":        {"Farms", "Fields", "Orchard", "Woods", "Paddock / horse field", "Shepherd Hut / Yurt", "Barns", "Stables", "Windmill / Watermill"},
	"Water/Coastal":     {"Beach", "Private Beach Access", "Lake / reservoir", "River", "Views - sea", "Views - lake", "View - River", "Boats", "Cliffs", "Piers / Jetty / Sea fort"},
	"Recreational":      {"Swimming pool - exterior", "Hot tub / Jacuzzi", "Tennis court", "Playground"},
}

// ExteriorGroupRooms maps each exterior feature group to the rooms/areas
// that unlock it. The Garden group follows the Garden area; everything else
// hangs off "Exterior of buildings".
var ExteriorGroupRooms = map[string][]string{
	"Garden":            {"Garden"},
	"Garage/Parking":    {"Exterior of buildings"},
	"Building Exterior": {"Exterior of buildings"},
	"Rural/Land":        {"Exterior of buildings"},
	"Water/Coastal":     {"Exterior of buildings"},
	"Recreational":      {"Garden", "Exterior of buildings"},
}

// InteriorGroupRooms maps each interior feature group to the rooms that
// unlock it.
var InteriorGroupRooms = map[string][]string{
	"Kitchen":            {"Kitchen"},
	"Utility Room":       {"Utility Room"},
	"Bedroom":            {"Bedroom (Master)", "Bedroom (Guest)"},
	"Bathroom":           {"Bathroom", "En-suite"},
	"Living Room":        {"Living Room"},
	"Dining Room":        {"Dining Room"},
	"Office/Study":       {"Office/Study"},
	"Basement/Attic":     {"Basement/Cellar", "Attic/Loft"},
	"Conservatory":       {"Conservatory"},
	GeneralInteriorGroup: {GeneralInteriorGroup},
}

// InteriorRooms returns the interior room types.
func InteriorRooms() []string {
	return RoomTypes[:interiorRoomCount]
}

// ExteriorRooms returns the exterior room/area types.
func ExteriorRooms() []string {
	return RoomTypes[interiorRoomCount:]
}

// InteriorRoom reports whether room is an interior room type.
func InteriorRoom(room string) bool {
	for _, r := range RoomTypes[:interiorRoomCount] {
		if r == room {
			return true
		}
	}
	return false
}

// ExteriorRoom reports whether room is an exterior room/area type.
func ExteriorRoom(room string) bool {
	for _, r := range RoomTypes[interiorRoomCount:] {
		if r == room {
			return true
		}
	}
	return false
}

// HasInteriorRoom reports whether any of the rooms is interior.
func HasInteriorRoom(rooms []string) bool {
	for _, r := range rooms {
		if InteriorRoom(r) {
			return true
		}
	}
	return false
}

// HasExteriorRoom reports whether any of the rooms is exterior.
func HasExteriorRoom(rooms []string) bool {
	for _, r := range rooms {
		if ExteriorRoom(r) {
			return true
		}
	}
	return false
}

// ValidPropertyType reports whether t is a known structural type.
func ValidPropertyType(t string) bool {
	for _, pt := range PropertyStructuralTypes {
		if pt == t {
			return true
		}
	}
	return false
}

// FeatureGroups computes the feature groups (group name → sorted unique
// candidate tags) offered for the given room selection. Interior groups are
// included when any of their unlocking rooms is selected, plus the general
// interior group when at least one interior room is present. Exterior groups
// are keyed directly by the selected exterior room/area names.
func FeatureGroups(rooms []string, interior bool) map[string][]string {
	selected := make(map[string]bool, len(rooms))
	for _, r := range rooms {
		selected[r] = true
	}

	groups := make(map[string][]string)

	if interior {
		anyInterior := HasInteriorRoom(rooms)
		for group, unlocking := range InteriorGroupRooms {
			if group == GeneralInteriorGroup {
				if anyInterior {
					groups[group] = uniqueSorted(FeatureMapping[group])
				}
				continue
			}
			for _, room := range unlocking {
				if selected[room] {
					groups[group] = uniqueSorted(FeatureMapping[group])
					break
				}
			}
		}
		return groups
	}

	for group, unlocking := range ExteriorGroupRooms {
		for _, room := range unlocking {
			if selected[room] {
				groups[group] = uniqueSorted(FeatureMapping[group])
				break
			}
		}
	}
	return groups
}

// AllowedFeatures flattens the offered interior or exterior feature tags for
// a room selection into a set.
func AllowedFeatures(rooms []string, interior bool) map[string]bool {
	allowed := make(map[string]bool)
	for _, features := range FeatureGroups(rooms, interior) {
		for _, f := range features {
			allowed[f] = true
		}
	}
	return allowed
}

func uniqueSorted(features []string) []string {
	seen := make(map[string]bool, len(features))
	out := make([]string, 0, len(features))
	for _, f := range features {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

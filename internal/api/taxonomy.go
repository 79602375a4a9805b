package api

import (
	"net/http"

	"github.com/plink/plink/internal/model"
)

// Taxonomy handles GET /taxonomy, serving the fixed vocabulary the wizard
// and search filters are built from.
func Taxonomy(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"propertyTypes": model.PropertyStructuralTypes,
		"styleEras":     model.PropertyStyleEras,
		"rooms": map[string]any{
			"interior": model.InteriorRooms(),
			"exterior": model.ExteriorRooms(),
		},
		"featureGroups": model.FeatureMapping,
	})
}

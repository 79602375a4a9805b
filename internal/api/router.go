package api

import (
	"database/sql"
	"net/http"

	"github.com/plink/plink/internal/analyze"
	"github.com/plink/plink/internal/cache"
	"github.com/plink/plink/internal/media"
	"github.com/plink/plink/internal/saved"
)

// Deps carries the router's dependencies, wired explicitly by the caller.
type Deps struct {
	DB        *sql.DB
	JWTSecret string
	Saved     *saved.Store
	Cache     *cache.SearchCache
	Media     media.Storage
	Analyzer  analyze.Analyzer

	// MaxUploadBytes caps a single upload; zero applies the default.
	MaxUploadBytes int64
}

const defaultMaxUploadBytes = 100 << 20

// NewRouter creates the API router with all endpoints registered.
func NewRouter(d Deps) http.Handler {
	if d.Media == nil {
		d.Media = media.NewDBStorage(d.DB)
	}
	if d.MaxUploadBytes == 0 {
		d.MaxUploadBytes = defaultMaxUploadBytes
	}

	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: d.DB, JWTSecret: d.JWTSecret}
	locationsHandler := &LocationsHandler{DB: d.DB, Cache: d.Cache}
	wizardHandler := &WizardHandler{DB: d.DB}
	savedHandler := &SavedHandler{DB: d.DB, Saved: d.Saved}
	uploadHandler := &UploadHandler{Storage: d.Media, MaxBytes: d.MaxUploadBytes}
	mediaHandler := &MediaHandler{DB: d.DB}
	adminHandler := &AdminHandler{DB: d.DB, Cache: d.Cache}
	crmHandler := &CRMHandler{DB: d.DB}
	analyzeHandler := &AnalyzeHandler{Analyzer: d.Analyzer}
	emailHandler := &EmailHandler{DB: d.DB}

	authMW := AuthMiddleware(d.JWTSecret, d.DB)
	optionalAuth := OptionalAuthMiddleware(d.JWTSecret, d.DB)

	// Public.
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /auth/forgot-password", authHandler.ForgotPassword)
	mux.HandleFunc("GET /taxonomy", Taxonomy)
	mux.HandleFunc("GET /locations/search", locationsHandler.Search)
	mux.HandleFunc("GET /locations/check-postcode", locationsHandler.CheckPostcode)
	mux.Handle("GET /locations/{id}", optionalAuth(http.HandlerFunc(locationsHandler.Get)))
	mux.HandleFunc("GET /media/{id}", mediaHandler.Get)

	// Session.
	mux.Handle("GET /auth/me", authMW(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PUT /auth/me", authMW(http.HandlerFunc(authHandler.UpdateProfile)))
	mux.Handle("DELETE /auth/me", authMW(http.HandlerFunc(authHandler.DeleteAccount)))
	mux.Handle("POST /auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Listing submission. The wizard and uploads are open to anonymous
	// owners; direct listing creation too.
	mux.Handle("POST /locations", optionalAuth(http.HandlerFunc(locationsHandler.Create)))
	mux.Handle("POST /upload", optionalAuth(http.HandlerFunc(uploadHandler.Upload)))
	mux.Handle("POST /wizard", optionalAuth(http.HandlerFunc(wizardHandler.Start)))
	mux.Handle("GET /wizard/{id}", optionalAuth(http.HandlerFunc(wizardHandler.Get)))
	mux.Handle("POST /wizard/{id}/next", optionalAuth(http.HandlerFunc(wizardHandler.Next)))
	mux.Handle("POST /wizard/{id}/back", optionalAuth(http.HandlerFunc(wizardHandler.Back)))
	mux.Handle("GET /wizard/{id}/features", optionalAuth(http.HandlerFunc(wizardHandler.Features)))
	mux.Handle("POST /wizard/{id}/submit", optionalAuth(http.HandlerFunc(wizardHandler.Submit)))
	mux.Handle("POST /ai/analyze", optionalAuth(http.HandlerFunc(analyzeHandler.Analyze)))

	// Saved listings (authenticated).
	if d.Saved != nil {
		mux.Handle("GET /saved", authMW(http.HandlerFunc(savedHandler.List)))
		mux.Handle("GET /saved/{id}", authMW(http.HandlerFunc(savedHandler.Check)))
		mux.Handle("PUT /saved/{id}", authMW(http.HandlerFunc(savedHandler.Save)))
		mux.Handle("DELETE /saved/{id}", authMW(http.HandlerFunc(savedHandler.Remove)))
		mux.Handle("DELETE /saved", authMW(http.HandlerFunc(savedHandler.Clear)))
	}

	// Back office (admin only).
	admin := func(h http.HandlerFunc) http.Handler {
		return authMW(RequireAdmin(h))
	}
	mux.Handle("GET /admin/locations/pending", admin(adminHandler.Pending))
	mux.Handle("POST /admin/locations/{id}/approve", admin(adminHandler.Approve))
	mux.Handle("PUT /admin/locations/{id}/draft", admin(adminHandler.Draft))
	mux.Handle("PUT /admin/locations/{id}/reopen", admin(adminHandler.Reopen))
	mux.Handle("POST /admin/locations/{id}/assign", admin(adminHandler.Assign))
	mux.Handle("GET /admin/analytics/overview", admin(adminHandler.AnalyticsOverview))
	mux.Handle("GET /admin/analytics/users", admin(adminHandler.AnalyticsUsers))
	mux.Handle("GET /admin/analytics/categories", admin(adminHandler.AnalyticsCategories))
	mux.Handle("GET /admin/crm/contacts", admin(crmHandler.List))
	mux.Handle("GET /admin/crm/contacts/{id}", admin(crmHandler.Get))
	mux.Handle("POST /admin/crm/contacts", admin(crmHandler.Create))
	mux.Handle("POST /admin/email/send", admin(emailHandler.Send))
	mux.Handle("GET /admin/email/analytics", admin(emailHandler.Analytics))
	mux.Handle("POST /admin/settings/change_password", admin(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /admin/settings/add_admin", admin(adminHandler.AddAdmin))

	return mux
}

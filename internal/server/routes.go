package server

import (
	"log/slog"
	"net/http"

	"galaxy-server/internal/auth"
	authHandlers "galaxy-server/internal/auth/handlers"
	"galaxy-server/internal/galaxy"
	galaxyHandlers "galaxy-server/internal/galaxy/handlers"
	"galaxy-server/internal/middleware"
	"galaxy-server/internal/panel"
	panelHandlers "galaxy-server/internal/panel/handlers"
	"galaxy-server/internal/scene"
	sceneHandlers "galaxy-server/internal/scene/handlers"
	serverHandlers "galaxy-server/internal/server/handlers"
)

type Routes struct {
	db            serverHandlers.StatusChecker
	redis         serverHandlers.StatusChecker
	galaxyService *galaxy.Service
	panel         *panel.Panel
	host          *scene.Host
	oauthConfig   *auth.OAuthConfig
	assetsDir     string
}

func NewRoutes(
	db, redis serverHandlers.StatusChecker,
	galaxyService *galaxy.Service,
	p *panel.Panel,
	host *scene.Host,
	oauthConfig *auth.OAuthConfig,
	assetsDir string,
) *Routes {
	return &Routes{
		db:            db,
		redis:         redis,
		galaxyService: galaxyService,
		panel:         p,
		host:          host,
		oauthConfig:   oauthConfig,
		assetsDir:     assetsDir,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db, r.redis)
	galaxyHandler := galaxyHandlers.NewGalaxyHandler(r.galaxyService)
	panelHandler := panelHandlers.NewPanelHandler(r.panel, r.host)
	sceneHandler := sceneHandlers.NewSceneHandler(r.host)
	meHandler := authHandlers.NewMeHandler()
	logoutHandler := authHandlers.NewLogoutHandler()

	githubAuthHandler := authHandlers.NewOAuthHandler(
		r.oauthConfig.GitHubProvider,
		r.oauthConfig.GitHubConfigured,
	)

	// Public endpoints
	mux.Handle("GET /api/server/health", healthHandler)
	mux.HandleFunc("GET /api/galaxy/defaults", galaxyHandler.GetDefaults)
	mux.HandleFunc("POST /api/galaxy/generate", galaxyHandler.Generate)
	mux.HandleFunc("GET /api/galaxy/presets", galaxyHandler.ListPresets)
	mux.HandleFunc("GET /api/galaxy/presets/{id}", galaxyHandler.GetPreset)
	mux.HandleFunc("GET /api/galaxy/presets/{id}/cloud", galaxyHandler.GeneratePreset)
	mux.HandleFunc("GET /api/panel", panelHandler.GetPanel)
	mux.HandleFunc("GET /api/scene", sceneHandler.GetScene)
	mux.HandleFunc("GET /api/scene/points", sceneHandler.GetPoints)
	mux.Handle("GET "+scene.AssetsURLPrefix, serverHandlers.NewAssetsHandler(r.assetsDir))

	// Protected endpoints (authenticated users)
	mux.Handle("/api/me", middleware.JWTMiddleware(meHandler))
	// the scene is shared by every visitor, so only signed-in users may change it
	mux.Handle("PATCH /api/panel", middleware.JWTMiddleware(http.HandlerFunc(panelHandler.Commit)))

	// Admin-only endpoints (authenticated + admin role)
	mux.Handle("POST /api/galaxy/presets", middleware.RequireAdmin(http.HandlerFunc(galaxyHandler.CreatePreset)))
	mux.Handle("DELETE /api/galaxy/presets/{id}", middleware.RequireAdmin(http.HandlerFunc(galaxyHandler.DeletePreset)))

	// OAuth endpoints
	mux.HandleFunc("/auth/github", githubAuthHandler.HandleAuth)
	mux.HandleFunc("/auth/github/callback", githubAuthHandler.HandleCallback)
	mux.Handle("/auth/logout", logoutHandler)

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/galaxy/*", "GET /api/panel", "/api/scene", "/api/scene/points", scene.AssetsURLPrefix},
		"protected_endpoints", []string{"/api/me", "PATCH /api/panel"},
		"admin_endpoints", []string{"POST /api/galaxy/presets", "DELETE /api/galaxy/presets/{id}"},
		"auth_endpoints", []string{"/auth/github", "/auth/logout"},
	)

	return mux
}

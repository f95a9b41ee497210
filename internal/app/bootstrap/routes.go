// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	attendancefeature "github.com/dalemusser/teamhub/internal/app/features/attendance"
	audittrailfeature "github.com/dalemusser/teamhub/internal/app/features/audittrail"
	authfeature "github.com/dalemusser/teamhub/internal/app/features/auth"
	blogsfeature "github.com/dalemusser/teamhub/internal/app/features/blogs"
	eventreportsfeature "github.com/dalemusser/teamhub/internal/app/features/eventreports"
	healthfeature "github.com/dalemusser/teamhub/internal/app/features/health"
	meetingsfeature "github.com/dalemusser/teamhub/internal/app/features/meetings"
	papersfeature "github.com/dalemusser/teamhub/internal/app/features/papers"
	projectsfeature "github.com/dalemusser/teamhub/internal/app/features/projects"
	studentsfeature "github.com/dalemusser/teamhub/internal/app/features/students"
	"github.com/dalemusser/teamhub/internal/app/store/activity"
	attendancestore "github.com/dalemusser/teamhub/internal/app/store/attendance"
	auditstore "github.com/dalemusser/teamhub/internal/app/store/audit"
	blogstore "github.com/dalemusser/teamhub/internal/app/store/blogs"
	eventreportstore "github.com/dalemusser/teamhub/internal/app/store/eventreports"
	meetingstore "github.com/dalemusser/teamhub/internal/app/store/meetings"
	paperstore "github.com/dalemusser/teamhub/internal/app/store/papers"
	projectstore "github.com/dalemusser/teamhub/internal/app/store/projects"
	rolestore "github.com/dalemusser/teamhub/internal/app/store/roles"
	userstore "github.com/dalemusser/teamhub/internal/app/store/users"
	"github.com/dalemusser/teamhub/internal/app/system/auditlog"
	sysauth "github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/dalemusser/teamhub/internal/app/system/uploads"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. TeamHub builds the token
// manager and optional Firebase verifier, applies the bearer-token
// middleware globally, and mounts the JSON API feature routers under
// /api plus the health endpoint.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.TeamHubMongoDatabase

	users := userstore.New(db)
	roles := rolestore.New(db)
	projects := projectstore.New(db)
	attendance := attendancestore.New(db)
	blogs := blogstore.New(db)
	meetings := meetingstore.New(db)
	papers := paperstore.New(db)
	reports := eventreportstore.New(db)
	feed := activity.New(db)
	auditEvents := auditstore.New(db)

	audit := auditlog.New(auditEvents, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	tokens := sysauth.NewTokenManager(
		appCfg.JWTSecret, appCfg.JWTRefreshSecret,
		appCfg.AccessTokenExpiry, appCfg.RefreshTokenExpiry)

	// The Firebase verifier is optional; without credentials the OAuth
	// endpoint answers 501 and JWT auth still works.
	var verifier sysauth.IDTokenVerifier
	if appCfg.FirebaseCredentialsFile != "" {
		v, err := sysauth.NewFirebaseVerifier(context.Background(), appCfg.FirebaseCredentialsFile)
		if err != nil {
			logger.Error("firebase verifier init failed", zap.Error(err))
			return nil, err
		}
		verifier = v
	} else {
		logger.Warn("firebase credentials not configured; OAuth sign-in disabled")
	}

	files, err := uploads.NewStore(appCfg.UploadDir)
	if err != nil {
		logger.Error("upload store init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Global bearer-token middleware: resolves Firebase ID tokens and
	// app JWTs to a user in context. Gating happens per route group.
	r.Use(sysauth.LoadBearerUser(tokens, verifier, users, logger))

	healthHandler := healthfeature.NewHandler(deps.TeamHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	authHandler := authfeature.NewHandler(users, roles, tokens, verifier, audit, logger, appCfg.DebugAuth)
	r.Mount("/api/auth", authfeature.Routes(authHandler))

	projectsHandler := projectsfeature.NewHandler(projects, users, feed, audit, logger)
	r.Mount("/api/projects", projectsfeature.Routes(projectsHandler))

	studentsHandler := studentsfeature.NewHandler(roles, users, audit, logger)
	r.Mount("/api/students", studentsfeature.Routes(studentsHandler))

	attendanceHandler := attendancefeature.NewHandler(attendance, logger)
	r.Mount("/api/attendance", attendancefeature.Routes(attendanceHandler))

	blogsHandler := blogsfeature.NewHandler(blogs, feed, logger)
	r.Mount("/api/blogs", blogsfeature.Routes(blogsHandler))

	meetingsHandler := meetingsfeature.NewHandler(meetings, files, feed, logger)
	r.Mount("/api/meetings", meetingsfeature.Routes(meetingsHandler))

	papersHandler := papersfeature.NewHandler(papers, files, logger)
	r.Mount("/api/papers", papersfeature.Routes(papersHandler))

	reportsHandler := eventreportsfeature.NewHandler(reports, files, logger)
	r.Mount("/api/event-reports", eventreportsfeature.Routes(reportsHandler))

	auditHandler := audittrailfeature.NewHandler(auditEvents, logger)
	r.Mount("/api/audit", audittrailfeature.Routes(auditHandler))

	return r, nil
}

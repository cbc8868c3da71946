// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	campaignsfeature "github.com/dalemusser/evalhub/internal/app/features/campaigns"
	healthfeature "github.com/dalemusser/evalhub/internal/app/features/health"
	"github.com/dalemusser/evalhub/internal/app/system/assignment"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root router.
//
// There is no session layer: callers are trusted back-office tools.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	mode, err := assignment.ParseMode(appCfg.AssignmentMode)
	if err != nil {
		return nil, err
	}
	builder := assignment.NewBuilder(appCfg.Weights, mode)

	r := chi.NewRouter()

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	campaignsHandler := campaignsfeature.NewHandler(deps.MongoDatabase, builder, logger)
	r.Mount("/campaigns", campaignsfeature.Routes(campaignsHandler))

	logger.Info("routes mounted", zap.String("assignment_mode", string(mode)))
	return r, nil
}

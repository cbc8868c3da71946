// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/evalhub/internal/app/system/assignment"
	"github.com/dalemusser/evalhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for evalhub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, assignment_mode, etc.
//   - Environment variables: EVALHUB_MONGO_URI, EVALHUB_ASSIGNMENT_MODE, etc.
//   - Command-line flags: --mongo_uri, --assignment_mode, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "evalhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},

	// Launch policy
	{Name: "assignment_mode", Default: "advisory", Desc: "Incomplete launches: 'advisory' (launch and warn) or 'strict' (refuse)"},
	{Name: "weight_first_half", Default: 40, Desc: "Evaluation weight of the first half"},
	{Name: "weight_second_half", Default: 40, Desc: "Evaluation weight of the second half"},
	{Name: "weight_peer", Default: 20, Desc: "Evaluation weight of peer ratings"},
}

// LoadConfig loads WAFFLE core config and evalhub's app config.
//
// Precedence is WAFFLE's: flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "EVALHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	maxPool, err := poolSize("mongo_max_pool_size", appValues.Int("mongo_max_pool_size"))
	if err != nil {
		return nil, AppConfig{}, err
	}
	minPool, err := poolSize("mongo_min_pool_size", appValues.Int("mongo_min_pool_size"))
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: maxPool,
		MongoMinPoolSize: minPool,

		AssignmentMode: appValues.String("assignment_mode"),
		Weights: models.EvaluationWeights{
			FirstHalf:  float64(appValues.Int("weight_first_half")),
			SecondHalf: float64(appValues.Int("weight_second_half")),
			Peer:       float64(appValues.Int("weight_peer")),
		},
	}
	return coreCfg, appCfg, nil
}

// poolSize converts a configured pool size, rejecting negatives before
// they wrap around to huge unsigned values.
func poolSize(key string, n int) (uint64, error) {
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %d", key, n)
	}
	return uint64(n), nil
}

// ValidateConfig rejects configs that would only fail later: a malformed
// MongoDB URI, an unknown completeness mode, or negative weights.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must be set")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	if _, err := assignment.ParseMode(appCfg.AssignmentMode); err != nil {
		return err
	}
	w := appCfg.Weights
	if w.FirstHalf < 0 || w.SecondHalf < 0 || w.Peer < 0 {
		return fmt.Errorf("evaluation weights must not be negative: %+v", w)
	}
	return nil
}

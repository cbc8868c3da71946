// internal/app/bootstrap/appconfig.go
package bootstrap

import "github.com/dalemusser/evalhub/internal/domain/models"

// AppConfig holds evalhub-specific configuration.
//
// WAFFLE's CoreConfig covers the framework side (ports, TLS, logging,
// CORS, body limits). Everything specific to evaluations lives here and
// is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// AssignmentMode is "advisory" or "strict"; see assignment.ParseMode.
	AssignmentMode string

	// Weights is the evaluation weight split stamped on launched campaigns.
	Weights models.EvaluationWeights
}

// Package credentials reads the document-store credentials the scheduler
// is given through its environment.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/dalemusser/evalhub/internal/app/system/inputval"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnvVar holds the credentials as a JSON object.
const EnvVar = "EVALHUB_STORE_CREDENTIALS"

// ErrMissing is returned when EnvVar is unset or blank.
var ErrMissing = errors.New(EnvVar + " is not set")

// Store identifies and authenticates against the document store.
type Store struct {
	MongoURI      string `json:"mongo_uri" validate:"required"`
	MongoDatabase string `json:"mongo_database" validate:"required"`
	Username      string `json:"username,omitempty" validate:"required_with=Password"`
	Password      string `json:"password,omitempty"`
	AuthSource    string `json:"auth_source,omitempty"`
}

// FromEnv parses EnvVar.
func FromEnv() (Store, error) {
	return Parse(os.Getenv(EnvVar))
}

// Parse decodes and checks a credentials JSON object. Unknown keys are
// rejected so a typo does not silently fall back to defaults.
func Parse(raw string) (Store, error) {
	if strings.TrimSpace(raw) == "" {
		return Store{}, ErrMissing
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	var s Store
	if err := dec.Decode(&s); err != nil {
		return Store{}, fmt.Errorf("decode %s: %w", EnvVar, err)
	}
	if err := inputval.Struct(s); err != nil {
		return Store{}, fmt.Errorf("%s: %w", EnvVar, err)
	}
	if err := wafflemongo.ValidateURI(s.MongoURI); err != nil {
		return Store{}, fmt.Errorf("%s: invalid mongo_uri: %w", EnvVar, err)
	}
	return s, nil
}

// ClientOptions returns driver options for s. Explicit username and
// password override any userinfo in the URI.
func (s Store) ClientOptions() *options.ClientOptions {
	opts := options.Client().ApplyURI(s.MongoURI)
	if s.Username != "" {
		cred := options.Credential{Username: s.Username, Password: s.Password, AuthSource: s.AuthSource}
		opts.SetAuth(cred)
	}
	return opts
}

// Redacted is s with its password masked, including one embedded in the
// URI userinfo. Use it for logging.
func (s Store) Redacted() Store {
	if s.Password != "" {
		s.Password = "****"
	}
	if u, err := url.Parse(s.MongoURI); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "****")
			s.MongoURI = u.String()
		}
	}
	return s
}

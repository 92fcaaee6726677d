package db

import (
	"github.com/pkg/errors"

	"github.com/hello-ai/joebot/internal/profile"
	"github.com/hello-ai/joebot/store"
	"github.com/hello-ai/joebot/store/db/sqlite"
	"github.com/hello-ai/joebot/store/db/tursohttp"
)

// NewDriver selects the persistence backend once at process start.
//
// The embedded sqlite engine is the default for local development. The
// remote HTTP backend exists because the serverless hosting platform does
// not reliably support the native driver's connection mechanism; speaking
// the database's raw request/response protocol is a deliberate fallback.
// Selecting here, instead of per call, keeps a request from straddling two
// backends when the environment changes mid-flight.
func NewDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	if profile.UseRemoteHTTP() {
		driver, err = tursohttp.NewDB(profile)
	} else {
		driver, err = sqlite.NewDB(profile)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}

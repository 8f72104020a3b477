// utils/firebase.go
package utils

import (
	"context"
	"fmt"

	"pulsefit/config"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// FirebaseApp is shared by the Firestore store and the Firebase identity resolver.
var FirebaseApp *firebase.App

// FirebaseInit initializes the Firebase App once.
func FirebaseInit(ctx context.Context) (*firebase.App, error) {
	if FirebaseApp != nil {
		return FirebaseApp, nil
	}

	var cfg *firebase.Config
	if config.AppConfig.FirebaseProjectID != "" {
		cfg = &firebase.Config{ProjectID: config.AppConfig.FirebaseProjectID}
	}

	var opts []option.ClientOption
	if path := config.AppConfig.FirebaseCredentialsFile; path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}
	FirebaseApp = app
	return app, nil
}

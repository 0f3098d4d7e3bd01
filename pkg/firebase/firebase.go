// Package firebase builds the Firebase Auth client shared by ID-token
// verification and the Firebase-backed user directory.
package firebase

import (
	"context"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// NewAuthClient loads the service account at credentialsPath and returns its
// Auth client.
func NewAuthClient(ctx context.Context, credentialsPath string) (*auth.Client, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required for the firebase auth provider or user directory")
	}
	if _, err := os.Stat(credentialsPath); err != nil {
		return nil, fmt.Errorf("reading firebase credentials: %w", err)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("creating firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating firebase auth client: %w", err)
	}

	log.Println("Firebase auth client configured.")
	return client, nil
}

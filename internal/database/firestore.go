package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// FirestoreConfig holds document store connection configuration
type FirestoreConfig struct {
	ProjectID       string
	CredentialsPath string // Path to service account JSON file; empty uses ADC
}

// FirestoreDB wraps the Firestore client
type FirestoreDB struct {
	Client *firestore.Client
}

// NewFirestoreDB creates a Firestore client through the Firebase Admin SDK
func NewFirestoreDB(ctx context.Context, config *FirestoreConfig) (*FirestoreDB, error) {
	if config.ProjectID == "" {
		return nil, fmt.Errorf("firestore project ID is required")
	}

	var opts []option.ClientOption
	if config.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID: config.ProjectID,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &FirestoreDB{Client: client}, nil
}

// Close closes the Firestore client
func (db *FirestoreDB) Close() error {
	return db.Client.Close()
}

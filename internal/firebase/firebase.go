package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebaseSDK "firebase.google.com/go"
	"google.golang.org/api/option"
)

// NewFirestoreClient initializes a Firebase App from the given service account file and returns
// its Firestore client.
func NewFirestoreClient(ctx context.Context, credentialsFile string) (*firestore.Client, error) {
	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebaseSDK.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing app: %v", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("Firestore client error: %v", err)
	}

	return client, nil
}

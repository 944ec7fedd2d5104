package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// PhotoStore is the only capability the feed needs from a storage backend:
// put bytes somewhere and get a public URL back.
type PhotoStore interface {
	UploadPhoto(ctx context.Context, objectName, contentType string, data []byte) (string, error)
}

type FirebasePhotoStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// NewFirebasePhotoStore initializes the Firebase app for Cloud Storage.
// It first attempts credentials from the FIREBASE_SERVICE_ACCOUNT_JSON
// environment variable (Base64 encoded) and falls back to a local service
// account key file.
func NewFirebasePhotoStore(ctx context.Context, localFilePath, bucketName string) (*FirebasePhotoStore, error) {
	var opt option.ClientOption

	encodedCreds := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if encodedCreds != "" {
		decoded, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 firebase credentials from FIREBASE_SERVICE_ACCOUNT_JSON: %v", err)
		}
		opt = option.WithCredentialsJSON(decoded)
		log.Println("Photo store: initializing from FIREBASE_SERVICE_ACCOUNT_JSON environment variable.")
	} else {
		if _, err := os.Stat(localFilePath); os.IsNotExist(err) {
			return nil, fmt.Errorf("local firebase file not found: %s, and FIREBASE_SERVICE_ACCOUNT_JSON environment variable is not set", localFilePath)
		}
		opt = option.WithCredentialsFile(localFilePath)
		log.Printf("Photo store: initializing from local file: %s.", localFilePath)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucketName}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %v", err)
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting storage client: %v", err)
	}

	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("error getting default bucket: %v", err)
	}

	return &FirebasePhotoStore{bucket: bucket, bucketName: bucketName}, nil
}

// UploadPhoto writes the photo under objectName and returns its public URL.
// The bucket is expected to allow public reads on study photos.
func (s *FirebasePhotoStore) UploadPhoto(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	w := s.bucket.Object(objectName).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write photo to bucket: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize photo upload: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, objectName), nil
}

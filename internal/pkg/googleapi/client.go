package googleapi

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Scopes requested for the service account: read/write spreadsheets and
// read-only Drive access to find a spreadsheet by name.
var Scopes = []string{
	sheets.SpreadsheetsScope,
	drive.DriveMetadataReadonlyScope,
}

var ErrMissingCredentials = errors.New("google service account credentials are not configured")

// Client bundles the API services used by the spreadsheet store.
type Client struct {
	Sheets *sheets.Service
	Drive  *drive.Service
}

// LoadCredentials returns the service account key, preferring inline JSON
// over a key file path.
func LoadCredentials(credentialsJSON, credentialsFile string) ([]byte, error) {
	if credentialsJSON != "" {
		return []byte(credentialsJSON), nil
	}
	if credentialsFile == "" {
		return nil, ErrMissingCredentials
	}
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return data, nil
}

// NewServiceAccountClient authorizes with a service account key.
func NewServiceAccountClient(ctx context.Context, credentials []byte) (*Client, error) {
	config, err := google.JWTConfigFromJSON(credentials, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}
	return NewClient(ctx, option.WithHTTPClient(config.Client(ctx)))
}

// NewClient builds the services from explicit client options.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	sheetsService, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Client{Sheets: sheetsService, Drive: driveService}, nil
}

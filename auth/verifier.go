package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jrsteele09/delivery-signin/categories"
	"github.com/jrsteele09/delivery-signin/datasets"
	"github.com/rs/zerolog/log"
)

// AuthenticatedUser is the outcome of a successful verification
type AuthenticatedUser struct {
	Record     datasets.Record       // Matched record, as published in the dataset
	Descriptor categories.Descriptor // Category the record was found in
}

func (u *AuthenticatedUser) Category() categories.Category {
	return u.Descriptor.Category
}

// Verifier checks submitted credentials against the dataset the access token routes to.
// It is not an authorization boundary: the datasets are world readable.
type Verifier struct {
	registry *categories.Registry
	source   datasets.Source
}

func NewVerifier(registry *categories.Registry, source datasets.Source) (*Verifier, error) {
	if registry == nil {
		return nil, errors.New("[NewVerifier] registry is required")
	}
	if source == nil {
		return nil, errors.New("[NewVerifier] dataset source is required")
	}
	return &Verifier{registry: registry, source: source}, nil
}

// Verify resolves token, loads the category's dataset and returns the first record whose
// identity and password both match; later records are not examined. Errors are
// InvalidAccessTokenErr, a *DatasetError or CredentialMismatchErr. Nothing is retried.
func (v *Verifier) Verify(ctx context.Context, token, identifier, password string) (*AuthenticatedUser, error) {
	descriptor, ok := v.registry.Resolve(token)
	if !ok {
		return nil, InvalidAccessTokenErr
	}

	dataset, err := v.source.Load(ctx, descriptor.Dataset)
	if err != nil {
		log.Err(err).Str("category", descriptor.Category.String()).Msg("Failed to load dataset")
		return nil, &DatasetError{Category: descriptor.Category, Err: err}
	}
	log.Debug().
		Str("category", descriptor.Category.String()).
		Int("records", len(dataset)).
		Msg("Loaded dataset")

	// Duplicate identities are allowed; document order decides. Entries that are not
	// objects never match, a null entry reached before a match makes the dataset unusable.
	for i, record := range dataset {
		if record.IsNull() {
			err := fmt.Errorf("%s record %d: %w", descriptor.Dataset, i, datasets.ErrNullRecord)
			log.Err(err).Str("category", descriptor.Category.String()).Msg("Dataset scan failed")
			return nil, &DatasetError{Category: descriptor.Category, Err: err}
		}
		if credentialsMatch(descriptor, record, identifier, password) {
			log.Info().
				Str("category", descriptor.Category.String()).
				Str("name", record.Name()).
				Msg("Sign-in verified")
			return &AuthenticatedUser{Record: record, Descriptor: descriptor}, nil
		}
	}

	return nil, CredentialMismatchErr
}

func credentialsMatch(descriptor categories.Descriptor, record datasets.Record, identifier, password string) bool {
	stored, ok := record.Field(descriptor.IdentityField)
	if !ok || !descriptor.IdentityKind.Matches(stored, identifier) {
		return false
	}
	// Datasets hold plaintext passwords; comparison is exact and case-sensitive.
	storedPassword, ok := record.Password()
	return ok && storedPassword == password
}

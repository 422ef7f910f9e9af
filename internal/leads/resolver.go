package leads

import (
	"context"
	"strings"

	"github.com/leadflowhq/leadflow-backend/pkg/db/models"
)

// ResolveInput carries the identity signals used to match an incoming record
// against existing leads. Empty fields are skipped.
type ResolveInput struct {
	ExternalID string
	Email      string
	Phone      string

	// ExcludeConverted narrows email and phone matching to leads that have
	// not converted yet. Order ingestion sets this so a repeat buyer opens a
	// fresh match instead of folding into an already-converted lead.
	ExcludeConverted bool
}

// Resolver finds the existing lead an incoming record belongs to, if any.
type Resolver struct {
	repo Repository
}

// NewResolver builds a resolver over the given lead repository.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve tries the identity signals in fixed priority order: external id
// first, then case-insensitive email, then exact phone. The first hit wins
// and later signals are not consulted. A miss on every signal returns
// (nil, nil), never an error.
func (r *Resolver) Resolve(ctx context.Context, orgID string, in ResolveInput) (*models.Lead, error) {
	if externalID := strings.TrimSpace(in.ExternalID); externalID != "" {
		lead, err := r.repo.FindByExternalID(ctx, orgID, externalID)
		if err != nil {
			return nil, err
		}
		if lead != nil {
			return lead, nil
		}
	}

	if email := strings.TrimSpace(in.Email); email != "" {
		lead, err := r.repo.FindByEmail(ctx, orgID, email, in.ExcludeConverted)
		if err != nil {
			return nil, err
		}
		if lead != nil {
			return lead, nil
		}
	}

	// Phone is compared exactly as stored. Formatting variants of the same
	// number ("+15551234" vs "555-1234") do not match each other.
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		lead, err := r.repo.FindByPhone(ctx, orgID, phone, in.ExcludeConverted)
		if err != nil {
			return nil, err
		}
		if lead != nil {
			return lead, nil
		}
	}

	return nil, nil
}

// Package subscription contains the business logic for the plan catalog
// and subscription self-service, plus the entitlement check used to gate
// premium routes.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/billingprovider"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/lib/sl"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/models"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/storage/repository"
)

const plansCacheKey = "subscription_plans"
const plansCacheTTL = 10 * time.Minute

// Errors surfaced to the HTTP layer.
var (
	// ErrPlanNotFound means no plan matches the requested name.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrNotFound means the subscription does not exist or belongs to
	// another user.
	ErrNotFound = errors.New("subscription not found")
	// ErrSubscriptionRequired means the user holds no active, unexpired
	// subscription.
	ErrSubscriptionRequired = errors.New("active subscription required")
)

// Repository describes the persistence contract for plans and
// subscriptions.
type Repository interface {
	ListPlans(ctx context.Context) ([]*models.Plan, error)
	GetPlanByName(ctx context.Context, name string) (*models.Plan, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) (int64, error)
	ListSubscriptions(ctx context.Context, userID int64) ([]*models.Subscription, error)
	GetSubscriptionForUser(ctx context.Context, id, userID int64) (*models.Subscription, error)
	GetActiveSubscription(ctx context.Context, userID int64) (*models.Subscription, error)
	MarkSubscriptionCanceled(ctx context.Context, id int64) error
}

// Provider describes the calls made to the external billing API.
type Provider interface {
	CreateSubscription(ctx context.Context, req billingprovider.CreateSubscriptionRequest) (*billingprovider.SubscriptionResponse, error)
	CancelSubscription(ctx context.Context, externalID string) error
}

// Cache describes the read-through cache for the plan catalog.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// SubscriptionService implements plan listing, subscribe/cancel and the
// entitlement check.
type SubscriptionService struct {
	repo     Repository
	provider Provider
	cache    Cache
	log      *slog.Logger
}

// NewSubscriptionService creates a SubscriptionService.
func NewSubscriptionService(repo Repository, provider Provider, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:     repo,
		provider: provider,
		cache:    cache,
		log:      log,
	}
}

// ListPlans returns the plan catalog, cached for a few minutes since
// plans are effectively immutable reference data.
func (s *SubscriptionService) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "subscription.ListPlans"

	if s.cache != nil {
		var cached []*models.Plan
		found, err := s.cache.Get(ctx, plansCacheKey, &cached)
		if err != nil {
			s.log.Warn("plan cache read failed", sl.Err(err))
		} else if found {
			return cached, nil
		}
	}

	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, plansCacheKey, plans, plansCacheTTL); err != nil {
			s.log.Warn("plan cache write failed", sl.Err(err))
		}
	}
	return plans, nil
}

// ListForUser returns all of the user's subscriptions.
func (s *SubscriptionService) ListForUser(ctx context.Context, userID int64) ([]*models.Subscription, error) {
	const op = "subscription.ListForUser"

	subs, err := s.repo.ListSubscriptions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}

// Create starts a subscription with the billing provider and stores the
// local row seeded from the provider's response. Later status and period
// changes arrive only through webhooks.
func (s *SubscriptionService) Create(ctx context.Context, user *models.User, planName, paymentMethodID string) (*models.Subscription, error) {
	const op = "subscription.Create"

	plan, err := s.repo.GetPlanByName(ctx, planName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	provResp, err := s.provider.CreateSubscription(ctx, billingprovider.CreateSubscriptionRequest{
		CustomerEmail:   user.Email,
		PriceID:         plan.ExternalPriceID,
		PaymentMethodID: paymentMethodID,
		Metadata:        map[string]string{"user_uid": user.UID},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub := models.Subscription{
		UserID:             user.ID,
		PlanID:             plan.ID,
		ExternalID:         provResp.ID,
		Status:             provResp.Status,
		CurrentPeriodStart: time.Unix(provResp.CurrentPeriodStart, 0).UTC(),
		CurrentPeriodEnd:   time.Unix(provResp.CurrentPeriodEnd, 0).UTC(),
	}
	newID, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub.ID = newID
	return &sub, nil
}

// Cancel cancels one of the user's subscriptions with the provider and
// marks the local row canceled. A subscription owned by someone else is
// indistinguishable from a missing one.
func (s *SubscriptionService) Cancel(ctx context.Context, userID, id int64) (*models.Subscription, error) {
	const op = "subscription.Cancel"

	sub, err := s.repo.GetSubscriptionForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.provider.CancelSubscription(ctx, sub.ExternalID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.MarkSubscriptionCanceled(ctx, sub.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub.Status = models.SubscriptionStatusCanceled
	return sub, nil
}

// RequireActive returns the user's currently-entitling subscription or
// ErrSubscriptionRequired. Pure read; it never writes status.
func (s *SubscriptionService) RequireActive(ctx context.Context, userID int64) (*models.Subscription, error) {
	const op = "subscription.RequireActive"

	sub, err := s.repo.GetActiveSubscription(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubscriptionRequired
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

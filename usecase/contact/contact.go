package contact

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/usecase"
)

// ListFilter narrows List. An empty Status matches every submission.
type ListFilter struct {
	Status      domain.SubmissionStatus
	NewestFirst bool
}

type UseCase struct {
	store  usecase.DocumentStore
	clock  usecase.Clock
	logger *zap.Logger
}

func New(store usecase.DocumentStore, clock usecase.Clock, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Form returns the field schema of the public contact form.
func (uc *UseCase) Form(ctx context.Context) (domain.ContactFormConfig, error) {
	doc, _ := uc.store.Load(ctx)
	return doc.ContactForm, nil
}

// Submit stores a new submission with status new.
func (uc *UseCase) Submit(ctx context.Context, input domain.ContactSubmission) (*domain.ContactSubmission, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var created domain.ContactSubmission
	err := usecase.Mutate(ctx, uc.store, func(doc *domain.SiteDocument) error {
		created = input
		created.ID = domain.NextIDOf(doc.Submissions, domain.SubmissionID)
		created.Status = domain.StatusNew
		created.CreatedAt, created.UpdatedAt = time.Time{}, time.Time{}
		created.Touch(uc.clock.Now())
		if created.Images == nil {
			created.Images = []string{}
		}
		doc.Submissions = append(doc.Submissions, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("contact submission received", zap.Int("id", created.ID))
	return &created, nil
}

func (uc *UseCase) List(ctx context.Context, filter ListFilter) ([]domain.ContactSubmission, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.Invalidf("unknown submission status %q", filter.Status)
	}
	doc, _ := uc.store.Load(ctx)
	out := make([]domain.ContactSubmission, 0, len(doc.Submissions))
	for _, s := range doc.Submissions {
		if filter.Status == "" || s.Status == filter.Status {
			out = append(out, s)
		}
	}
	if filter.NewestFirst {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out, nil
}

func (uc *UseCase) GetByID(ctx context.Context, id int) (*domain.ContactSubmission, error) {
	doc, _ := uc.store.Load(ctx)
	idx := domain.IndexOf(doc.Submissions, domain.SubmissionID, id)
	if idx < 0 {
		return nil, domain.ErrSubmissionNotFound
	}
	s := doc.Submissions[idx]
	return &s, nil
}

// View returns the submission for the detail view. A new submission is
// marked read and the change is persisted.
func (uc *UseCase) View(ctx context.Context, id int) (*domain.ContactSubmission, error) {
	current, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.StatusNew {
		return current, nil
	}
	return uc.SetStatus(ctx, id, domain.StatusRead)
}

// SetStatus moves the submission to status. Any transition is allowed.
func (uc *UseCase) SetStatus(ctx context.Context, id int, status domain.SubmissionStatus) (*domain.ContactSubmission, error) {
	if !status.Valid() {
		return nil, domain.Invalidf("unknown submission status %q", status)
	}
	var updated domain.ContactSubmission
	err := usecase.Mutate(ctx, uc.store, func(doc *domain.SiteDocument) error {
		idx := domain.IndexOf(doc.Submissions, domain.SubmissionID, id)
		if idx < 0 {
			return domain.ErrSubmissionNotFound
		}
		updated = doc.Submissions[idx]
		changed, err := updated.Transition(status, uc.clock.Now())
		if err != nil {
			return err
		}
		if !changed {
			return usecase.ErrNoChange
		}
		doc.Submissions[idx] = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (uc *UseCase) Delete(ctx context.Context, id int) error {
	return usecase.Mutate(ctx, uc.store, func(doc *domain.SiteDocument) error {
		remaining, removed := domain.RemoveByID(doc.Submissions, domain.SubmissionID, id)
		if !removed {
			return usecase.ErrNoChange
		}
		doc.Submissions = remaining
		return nil
	})
}

// CountByStatus reports how many submissions are in each status. Every
// status is present in the result.
func (uc *UseCase) CountByStatus(ctx context.Context) (map[domain.SubmissionStatus]int, error) {
	doc, _ := uc.store.Load(ctx)
	return CountByStatus(doc.Submissions), nil
}

func CountByStatus(submissions []domain.ContactSubmission) map[domain.SubmissionStatus]int {
	counts := make(map[domain.SubmissionStatus]int, 4)
	for _, status := range domain.AllStatuses() {
		counts[status] = 0
	}
	for _, s := range submissions {
		counts[s.Status]++
	}
	return counts
}

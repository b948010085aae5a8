package labels

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/apperr"
)

type fakeSuggestionRepo struct {
	byID        map[int64]*domain.PendingLabelSuggestion
	processed   map[int64]domain.SuggestionStatus
	markResults map[int64]bool
	created     []*domain.PendingLabelSuggestion
	pendingFor  map[int64]bool
	attached    []*domain.EmailLabel
	approveErr  error
}

func newFakeSuggestionRepo() *fakeSuggestionRepo {
	return &fakeSuggestionRepo{
		byID:        make(map[int64]*domain.PendingLabelSuggestion),
		processed:   make(map[int64]domain.SuggestionStatus),
		markResults: make(map[int64]bool),
		pendingFor:  make(map[int64]bool),
	}
}

func (f *fakeSuggestionRepo) GetByID(_ context.Context, id int64) (*domain.PendingLabelSuggestion, error) {
	return f.byID[id], nil
}

func (f *fakeSuggestionRepo) Create(_ context.Context, s *domain.PendingLabelSuggestion) error {
	f.created = append(f.created, s)
	return nil
}

func (f *fakeSuggestionRepo) ListPendingByOwner(_ context.Context, _ uuid.UUID, _, _ int) ([]*domain.PendingLabelSuggestion, int, error) {
	return nil, 0, nil
}

func (f *fakeSuggestionRepo) HasPendingForEmail(_ context.Context, emailID int64, _ string) (bool, error) {
	return f.pendingFor[emailID], nil
}

func (f *fakeSuggestionRepo) MarkProcessed(_ context.Context, id int64, status domain.SuggestionStatus, _ uuid.UUID) (bool, error) {
	ok, configured := f.markResults[id]
	if configured && !ok {
		return false, nil
	}
	f.processed[id] = status
	return true, nil
}

// Approve mirrors the adapter's all-or-nothing transaction: on error
// nothing is recorded, so the suggestion stays pending.
func (f *fakeSuggestionRepo) Approve(_ context.Context, s *domain.PendingLabelSuggestion, _ uuid.UUID) (*domain.Label, bool, error) {
	if f.approveErr != nil {
		return nil, false, f.approveErr
	}
	ok, configured := f.markResults[s.ID]
	if configured && !ok {
		return nil, false, nil
	}

	f.processed[s.ID] = domain.SuggestionApproved
	label := &domain.Label{ID: 1, OwnerID: s.OwnerID, Name: s.LabelName}
	f.attached = append(f.attached, &domain.EmailLabel{
		EmailID:    s.EmailID,
		LabelID:    label.ID,
		AssignedBy: domain.AssignerAI,
		Confidence: s.Confidence,
	})
	return label, true, nil
}

type fakeLabelRepo struct {
	domain.LabelRepository

	labelsByName map[string]*domain.Label
	attached     []*domain.EmailLabel
	hasNamed     map[string]bool
	nextID       int64
}

func newFakeLabelRepo() *fakeLabelRepo {
	return &fakeLabelRepo{
		labelsByName: make(map[string]*domain.Label),
		hasNamed:     make(map[string]bool),
		nextID:       1,
	}
}

func (f *fakeLabelRepo) GetOrCreate(_ context.Context, ownerID uuid.UUID, name string) (*domain.Label, error) {
	if l, ok := f.labelsByName[name]; ok {
		return l, nil
	}
	l := &domain.Label{ID: f.nextID, OwnerID: ownerID, Name: name}
	f.nextID++
	f.labelsByName[name] = l
	return l, nil
}

func (f *fakeLabelRepo) Attach(_ context.Context, assignment *domain.EmailLabel) error {
	f.attached = append(f.attached, assignment)
	return nil
}

func (f *fakeLabelRepo) EmailHasLabelNamed(_ context.Context, _ int64, name string) (bool, error) {
	return f.hasNamed[name], nil
}

type fakeAuditRepo struct {
	entries []*domain.AuditEntry
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *domain.AuditEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) ListByUser(_ context.Context, _ uuid.UUID, _, _ int) ([]*domain.AuditEntry, error) {
	return nil, nil
}

func newTestService() (*SuggestionService, *fakeSuggestionRepo, *fakeLabelRepo, *fakeAuditRepo) {
	suggestions := newFakeSuggestionRepo()
	labelRepo := newFakeLabelRepo()
	audits := &fakeAuditRepo{}
	svc := NewSuggestionService(suggestions, labelRepo, audits, nil)
	return svc, suggestions, labelRepo, audits
}

func pendingSuggestion(id int64, owner uuid.UUID) *domain.PendingLabelSuggestion {
	return &domain.PendingLabelSuggestion{
		ID:          id,
		EmailID:     100,
		OwnerID:     owner,
		LabelName:   "Client Escalations",
		SuggestedBy: domain.SuggestedByAI,
		Confidence:  0.8,
		Status:      domain.SuggestionPending,
	}
}

func TestProcessApproveAttachesLabel(t *testing.T) {
	svc, suggestions, _, audits := newTestService()
	owner := uuid.New()
	suggestions.byID[1] = pendingSuggestion(1, owner)

	got, err := svc.Process(context.Background(), Actor{ID: owner, Role: "user"}, 1, DecisionApprove)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Status != domain.SuggestionApproved {
		t.Errorf("status = %s, want approved", got.Status)
	}
	if suggestions.processed[1] != domain.SuggestionApproved {
		t.Errorf("repo transition = %s, want approved", suggestions.processed[1])
	}
	if len(suggestions.attached) != 1 {
		t.Fatalf("attached = %d assignments, want 1", len(suggestions.attached))
	}
	if suggestions.attached[0].AssignedBy != domain.AssignerAI {
		t.Errorf("assigned_by = %s, want ai", suggestions.attached[0].AssignedBy)
	}
	if len(audits.entries) != 0 {
		t.Errorf("owner decision wrote %d audit entries, want 0", len(audits.entries))
	}
}

func TestProcessApproveFailureLeavesRetryable(t *testing.T) {
	svc, suggestions, _, _ := newTestService()
	owner := uuid.New()
	suggestions.byID[1] = pendingSuggestion(1, owner)
	suggestions.approveErr = errors.New("connection reset")

	_, err := svc.Process(context.Background(), Actor{ID: owner, Role: "user"}, 1, DecisionApprove)
	if err == nil {
		t.Fatal("want error from failed approval")
	}
	if len(suggestions.processed) != 0 {
		t.Errorf("failed approval left the suggestion processed")
	}
	if len(suggestions.attached) != 0 {
		t.Errorf("failed approval attached a label")
	}

	// the suggestion stayed pending, so retrying succeeds
	suggestions.approveErr = nil
	got, err := svc.Process(context.Background(), Actor{ID: owner, Role: "user"}, 1, DecisionApprove)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if got.Status != domain.SuggestionApproved {
		t.Errorf("retry status = %s, want approved", got.Status)
	}
	if len(suggestions.attached) != 1 {
		t.Errorf("retry attached %d labels, want 1", len(suggestions.attached))
	}
}

func TestProcessRejectDoesNotAttach(t *testing.T) {
	svc, suggestions, labelRepo, _ := newTestService()
	owner := uuid.New()
	suggestions.byID[1] = pendingSuggestion(1, owner)

	got, err := svc.Process(context.Background(), Actor{ID: owner, Role: "user"}, 1, DecisionReject)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Status != domain.SuggestionRejected {
		t.Errorf("status = %s, want rejected", got.Status)
	}
	if len(suggestions.attached) != 0 {
		t.Errorf("rejection attached %d labels, want 0", len(suggestions.attached))
	}
	if len(labelRepo.labelsByName) != 0 {
		t.Errorf("rejection created %d labels, want 0", len(labelRepo.labelsByName))
	}
}

func TestProcessForbiddenForStranger(t *testing.T) {
	svc, suggestions, _, _ := newTestService()
	owner := uuid.New()
	stranger := uuid.New()
	suggestions.byID[1] = pendingSuggestion(1, owner)

	_, err := svc.Process(context.Background(), Actor{ID: stranger, Role: "user"}, 1, DecisionApprove)
	if !apperr.IsCode(err, apperr.CodeForbidden) {
		t.Fatalf("err = %v, want FORBIDDEN", err)
	}

	if len(suggestions.processed) != 0 {
		t.Errorf("forbidden request mutated the suggestion")
	}
	if len(suggestions.attached) != 0 {
		t.Errorf("forbidden request attached a label")
	}
}

func TestProcessAdminOnBehalfWritesAudit(t *testing.T) {
	svc, suggestions, _, audits := newTestService()
	owner := uuid.New()
	admin := uuid.New()
	suggestions.byID[1] = pendingSuggestion(1, owner)

	_, err := svc.Process(context.Background(), Actor{ID: admin, Role: RoleAdmin}, 1, DecisionApprove)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(audits.entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(audits.entries))
	}
	entry := audits.entries[0]
	if entry.ActorID != admin || entry.OnBehalfOf != owner {
		t.Errorf("audit actor/on_behalf = %s/%s, want %s/%s", entry.ActorID, entry.OnBehalfOf, admin, owner)
	}
	if entry.TargetID != 1 {
		t.Errorf("audit target = %d, want 1", entry.TargetID)
	}
}

func TestProcessAlreadyProcessedConflict(t *testing.T) {
	svc, suggestions, _, _ := newTestService()
	owner := uuid.New()
	suggestions.byID[1] = pendingSuggestion(1, owner)
	suggestions.markResults[1] = false // row already left pending

	_, err := svc.Process(context.Background(), Actor{ID: owner, Role: "user"}, 1, DecisionApprove)
	if !apperr.IsCode(err, apperr.CodeAlreadyProcessed) {
		t.Fatalf("err = %v, want ALREADY_PROCESSED", err)
	}
	if len(suggestions.attached) != 0 {
		t.Errorf("conflicting approval attached a label")
	}
}

func TestProcessNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Process(context.Background(), Actor{ID: uuid.New()}, 99, DecisionApprove)
	if !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestSuggestDeduplicates(t *testing.T) {
	svc, suggestions, labelRepo, _ := newTestService()
	owner := uuid.New()

	labelRepo.hasNamed["Invoices"] = true
	err := svc.Suggest(context.Background(), &domain.PendingLabelSuggestion{
		EmailID: 5, OwnerID: owner, LabelName: "Invoices", Confidence: 0.7,
	})
	if !apperr.IsCode(err, apperr.CodeConflict) {
		t.Fatalf("err = %v, want CONFLICT for existing label", err)
	}

	suggestions.pendingFor[6] = true
	err = svc.Suggest(context.Background(), &domain.PendingLabelSuggestion{
		EmailID: 6, OwnerID: owner, LabelName: "Fresh Name", Confidence: 0.7,
	})
	if !apperr.IsCode(err, apperr.CodeConflict) {
		t.Fatalf("err = %v, want CONFLICT for open suggestion", err)
	}

	err = svc.Suggest(context.Background(), &domain.PendingLabelSuggestion{
		EmailID: 7, OwnerID: owner, LabelName: "Fresh Name", Confidence: 0.7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions.created) != 1 {
		t.Errorf("created = %d suggestions, want 1", len(suggestions.created))
	}
	if suggestions.created[0].Status != domain.SuggestionPending {
		t.Errorf("status = %s, want pending", suggestions.created[0].Status)
	}
}

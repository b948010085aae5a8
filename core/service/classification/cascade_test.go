package classification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/agent/llm"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
)

type fakeCache struct {
	store map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string][]byte)}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	data, ok := f.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.store[key] = data
	return nil
}

type fakeModel struct {
	result *llm.FlagClassification
	err    error
	calls  int
}

func (f *fakeModel) ClassifyFlags(_ context.Context, _, _, _ string) (*llm.FlagClassification, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func testRules() DomainRules {
	return DomainRules{
		LeadershipAddresses: []string{"ceo@acme.com"},
		LeadershipDomains:   []string{"board.acme.com"},
		ClientDomains:       []string{"bigclient.com"},
		InternalDomains:     []string{"acme.com"},
	}
}

func testInput(from, subject, body string) *Input {
	in := &Input{
		EmailID:   42,
		FromEmail: from,
		Subject:   subject,
		Body:      body,
	}
	email := domain.Email{FromEmail: from}
	in.SenderDomain = email.SenderDomain()
	in.Fingerprint = Fingerprint(in.SenderDomain, subject, body)
	return in
}

func TestCascadeCacheHitIsVerbatim(t *testing.T) {
	fc := newFakeCache()
	model := &fakeModel{result: &llm.FlagClassification{IsUrgent: true, Confidence: 0.9}}

	cascade := NewCascade(
		NewCacheClassifier(fc, time.Hour),
		NewDomainClassifier(testRules()),
		NewRegexClassifier(2),
		NewLLMClassifier(model),
	)

	in := testInput("someone@unknown.io", "Hello", "nothing remarkable here")

	stored := &domain.ClassificationResult{
		CategoryFlags:  domain.CategoryFlags{IsClient: true, IsUrgent: true},
		SuggestedLabel: "Client Requests",
		Method:         domain.MethodLLM,
		Confidence:     0.88,
		TokensUsed:     450,
	}
	if err := fc.SetJSON(context.Background(), cacheKeyPrefix+in.Fingerprint, stored, time.Hour); err != nil {
		t.Fatal(err)
	}

	got := cascade.Classify(context.Background(), in)

	if got.Method != domain.MethodCache {
		t.Errorf("method = %s, want cache", got.Method)
	}
	if got.TokensUsed != 0 {
		t.Errorf("tokens = %d, want 0 on a cache hit", got.TokensUsed)
	}
	if !got.IsClient || !got.IsUrgent || got.IsMeeting {
		t.Errorf("flags = %+v, want stored flags verbatim", got.CategoryFlags)
	}
	if got.SuggestedLabel != "Client Requests" {
		t.Errorf("suggested_label = %q", got.SuggestedLabel)
	}
	if model.calls != 0 {
		t.Errorf("llm called %d times on a cache hit", model.calls)
	}
}

func TestCascadeDomainTierWinsForLeadership(t *testing.T) {
	// The model disagrees on hierarchy; the domain tier resolved it first.
	model := &fakeModel{result: &llm.FlagClassification{
		IsHierarchy: false,
		IsMeeting:   true,
		Reasoning:   "Meeting request.",
		Confidence:  0.9,
	}}

	cascade := NewCascade(
		nil,
		NewDomainClassifier(testRules()),
		NewRegexClassifier(2),
		NewLLMClassifier(model),
	)

	in := testInput("ceo@acme.com", "Quick chat", "Can we talk this week?")
	got := cascade.Classify(context.Background(), in)

	if !got.IsHierarchy {
		t.Errorf("IsHierarchy = false, want domain rule to win over the model")
	}
	if got.IsClient {
		t.Errorf("IsClient = true, leadership sender is internal")
	}
	if !got.IsMeeting {
		t.Errorf("IsMeeting = false, want model to resolve remaining flags")
	}
	if got.Method != domain.MethodDomain {
		t.Errorf("method = %s, want domain (first contributing tier)", got.Method)
	}
	if model.calls != 1 {
		t.Errorf("llm calls = %d, want 1 for unresolved flags", model.calls)
	}
}

func TestCascadeRegexResolvesWithoutLLM(t *testing.T) {
	model := &fakeModel{result: &llm.FlagClassification{Confidence: 0.9}}

	cascade := NewCascade(
		nil,
		nil,
		NewRegexClassifier(2),
		NewLLMClassifier(model),
	)

	in := testInput("ops@vendor.net", "URGENT: production outage",
		"The service is down, please fix immediately before the deadline today.")
	got := cascade.Classify(context.Background(), in)

	if got.Method != domain.MethodRegex {
		t.Errorf("method = %s, want regex", got.Method)
	}
	if !got.IsUrgent {
		t.Errorf("IsUrgent = false, want keyword match")
	}
	if model.calls != 0 {
		t.Errorf("llm calls = %d, want 0 when regex resolves all flags", model.calls)
	}
}

func TestCascadeRegexDeclinesBelowThreshold(t *testing.T) {
	model := &fakeModel{result: &llm.FlagClassification{
		IsClient:       true,
		SuggestedLabel: "Client Updates",
		Reasoning:      "External client status note.",
		Confidence:     0.85,
		TokensUsed:     300,
	}}

	cascade := NewCascade(
		nil,
		nil,
		NewRegexClassifier(2),
		NewLLMClassifier(model),
	)

	// One weak keyword match only, below the threshold of two.
	in := testInput("pm@somewhere.org", "Status note", "Quick update on the invoice.")
	got := cascade.Classify(context.Background(), in)

	if got.Method != domain.MethodLLM {
		t.Errorf("method = %s, want llm after regex declines", got.Method)
	}
	if !got.IsClient {
		t.Errorf("IsClient = false, want model result")
	}
	if got.SuggestedLabel != "Client Updates" {
		t.Errorf("suggested_label = %q", got.SuggestedLabel)
	}
	if got.TokensUsed != 300 {
		t.Errorf("tokens = %d, want 300", got.TokensUsed)
	}
	if model.calls != 1 {
		t.Errorf("llm calls = %d, want 1", model.calls)
	}
}

func TestCascadeDegradesToRegexOnLLMFailure(t *testing.T) {
	model := &fakeModel{err: errors.New("upstream timeout")}

	cascade := NewCascade(
		nil,
		nil,
		NewRegexClassifier(100),
		NewLLMClassifier(model),
	)

	in := testInput("ops@vendor.net", "URGENT outage", "Production is down, fix asap.")
	got := cascade.Classify(context.Background(), in)

	if got == nil {
		t.Fatal("classification must not fail when the llm tier errors")
	}
	if got.Method != domain.MethodRegex {
		t.Errorf("method = %s, want regex fallback", got.Method)
	}
	if !got.IsUrgent {
		t.Errorf("IsUrgent = false, want raw keyword accumulator applied")
	}
}

func TestCascadeStoresResultInCache(t *testing.T) {
	fc := newFakeCache()
	model := &fakeModel{result: &llm.FlagClassification{IsMeeting: true, Confidence: 0.9}}

	cascade := NewCascade(
		NewCacheClassifier(fc, time.Hour),
		nil,
		NewRegexClassifier(100),
		NewLLMClassifier(model),
	)

	in := testInput("a@b.com", "Sync", "Shall we meet?")

	first := cascade.Classify(context.Background(), in)
	if first.Method != domain.MethodLLM {
		t.Fatalf("first pass method = %s, want llm", first.Method)
	}

	second := cascade.Classify(context.Background(), in)
	if second.Method != domain.MethodCache {
		t.Errorf("second pass method = %s, want cache", second.Method)
	}
	if model.calls != 1 {
		t.Errorf("llm calls = %d, want 1 (second pass served from cache)", model.calls)
	}
}

func TestFingerprintStability(t *testing.T) {
	a := Fingerprint("acme.com", "Weekly Report", "body text here")
	b := Fingerprint("ACME.com", "  weekly report ", "body text here")
	if a != b {
		t.Errorf("fingerprint not normalized: %s != %s", a, b)
	}

	c := Fingerprint("acme.com", "Weekly Report", "different body")
	if a == c {
		t.Errorf("different bodies produced the same fingerprint")
	}
}

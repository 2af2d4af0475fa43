package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmitra/internal/agents"
	"tripmitra/internal/config"
	"tripmitra/internal/domain"
	"tripmitra/internal/domain/models"
	domainllm "tripmitra/internal/domain/services/llm"
	"tripmitra/internal/service/llm/conversation"
	"tripmitra/internal/service/llm/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedProvider replays chunks and records the requests it receives
type scriptedProvider struct {
	mu       sync.Mutex
	chunks   []*domainllm.Chunk
	err      error
	block    bool
	requests []*domainllm.GenerateRequest
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) StreamResponse(ctx context.Context, req *domainllm.GenerateRequest) iter.Seq2[*domainllm.Chunk, error] {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()

	return func(yield func(*domainllm.Chunk, error) bool) {
		if p.block {
			<-ctx.Done()
			yield(nil, ctx.Err())
			return
		}
		for _, c := range p.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if p.err != nil {
			yield(nil, p.err)
		}
	}
}

func (p *scriptedProvider) lastRequest() *domainllm.GenerateRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests[len(p.requests)-1]
}

type staticSummaries map[string]*models.PreferenceSummary

func (s staticSummaries) PreferencesSummary(_ context.Context, userID string) *models.PreferenceSummary {
	return s[userID]
}

type fixture struct {
	provider  *scriptedProvider
	sessions  *session.Service
	generator *ResponseGenerator
}

func newFixture(t *testing.T, provider *scriptedProvider, timeout time.Duration) *fixture {
	t.Helper()
	return newFixtureWithTurns(t, provider, timeout, 0)
}

func newFixtureWithTurns(t *testing.T, provider *scriptedProvider, timeout time.Duration, maxTurns int) *fixture {
	t.Helper()

	registry, err := agents.NewRegistry()
	require.NoError(t, err)
	agent, err := registry.Get(agents.TripMitraAgent)
	require.NoError(t, err)

	sessions := session.NewService(time.Hour, maxTurns, testLogger())
	runner := NewAgentRunner(AppName, agent, "test-model", provider, sessions, testLogger())
	enricher := conversation.NewQueryEnricher(staticSummaries{
		"u1": {Budget: lo.ToPtr("medium"), Activities: []string{"hiking"}},
	}, testLogger())

	return &fixture{
		provider:  provider,
		sessions:  sessions,
		generator: NewResponseGenerator(enricher, sessions, runner, timeout, testLogger()),
	}
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "session_abc", SessionKey("abc"))
}

func TestGetResponse_FinalEvent(t *testing.T) {
	provider := &scriptedProvider{chunks: []*domainllm.Chunk{
		{Text: `{"itineraries": [`},
		{Text: `{"id": "budget"}]}`},
		{Done: true, FinishReason: "STOP"},
	}}
	f := newFixture(t, provider, time.Second)

	got := f.generator.GetResponse(context.Background(), &models.QueryPayload{UserID: "u1", UserQuery: "Plan a trip"})

	assert.Equal(t, `{"itineraries": [{"id": "budget"}]}`, got)

	req := provider.lastRequest()
	assert.Equal(t, "test-model", req.Model)
	assert.True(t, req.JSONOutput)
	assert.NotEmpty(t, req.SystemInstruction)
	require.Len(t, req.Messages, 1)
	assert.True(t, strings.HasPrefix(req.Messages[0].Text, "Plan a trip\n\nUser Preferences:\n"))
	assert.Contains(t, req.Messages[0].Text, "- Budget: medium\n")

	sess, err := f.sessions.GetSession(context.Background(), AppName, "u1", "session_u1")
	require.NoError(t, err)
	assert.Len(t, sess.Events, 2, "user message and final reply are kept")
}

func TestGetResponse_NoPreferencesSendsRawQuery(t *testing.T) {
	provider := &scriptedProvider{chunks: []*domainllm.Chunk{{Text: "ok", Done: true}}}
	f := newFixture(t, provider, time.Second)

	got := f.generator.GetResponse(context.Background(), &models.QueryPayload{UserID: "u2", UserQuery: "Weekend in Goa"})

	assert.Equal(t, "ok", got)
	assert.Equal(t, "Weekend in Goa", provider.lastRequest().Messages[0].Text)
}

func TestGetResponse_SessionReused(t *testing.T) {
	provider := &scriptedProvider{chunks: []*domainllm.Chunk{{Text: "first answer"}, {Done: true}}}
	f := newFixture(t, provider, time.Second)
	ctx := context.Background()

	f.generator.GetResponse(ctx, &models.QueryPayload{UserID: "u2", UserQuery: "one"})
	f.generator.GetResponse(ctx, &models.QueryPayload{UserID: "u2", UserQuery: "two"})

	msgs := provider.lastRequest().Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Text)
	assert.Equal(t, domainllm.RoleModel, msgs[1].Role)
	assert.Equal(t, "first answer", msgs[1].Text)
	assert.Equal(t, "two", msgs[2].Text)
}

func TestGetResponse_HistoryCappedAtMaxTurns(t *testing.T) {
	provider := &scriptedProvider{chunks: []*domainllm.Chunk{{Text: "answer"}, {Done: true}}}
	f := newFixtureWithTurns(t, provider, time.Second, 3)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		got := f.generator.GetResponse(ctx, &models.QueryPayload{UserID: "u2", UserQuery: fmt.Sprintf("query %d", i)})
		require.Equal(t, "answer", got)
	}

	// 3 stored turns plus the new message
	msgs := provider.lastRequest().Messages
	require.Len(t, msgs, 7)
	assert.Equal(t, domainllm.RoleUser, msgs[0].Role)
	assert.Equal(t, "query 46", msgs[0].Text)
	assert.Equal(t, "query 49", msgs[6].Text)

	sess, err := f.sessions.GetSession(ctx, AppName, "u2", "session_u2")
	require.NoError(t, err)
	assert.Len(t, sess.Events, 6)
}

func TestGetResponse_FailedTurnNotRecorded(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		first *scriptedProvider
	}{
		{"provider error", &scriptedProvider{err: errors.New("boom")}},
		{"stream ends early", &scriptedProvider{chunks: []*domainllm.Chunk{{Text: "partial"}}}},
		{"empty reply", &scriptedProvider{chunks: []*domainllm.Chunk{{Done: true}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := tt.first
			f := newFixture(t, provider, time.Second)

			assert.Equal(t, ErrorMessage, f.generator.GetResponse(ctx, &models.QueryPayload{UserID: "u2", UserQuery: "first"}))

			sess, err := f.sessions.GetSession(ctx, AppName, "u2", "session_u2")
			require.NoError(t, err)
			assert.Empty(t, sess.Events)

			provider.err = nil
			provider.chunks = []*domainllm.Chunk{{Text: "ok"}, {Done: true}}
			assert.Equal(t, "ok", f.generator.GetResponse(ctx, &models.QueryPayload{UserID: "u2", UserQuery: "second"}))

			msgs := provider.lastRequest().Messages
			require.Len(t, msgs, 1, "failed turn must not leave a dangling user message")
			assert.Equal(t, domainllm.RoleUser, msgs[0].Role)
			assert.Equal(t, "second", msgs[0].Text)
		})
	}
}

func TestGetResponse_UserMetaFallback(t *testing.T) {
	provider := &scriptedProvider{chunks: []*domainllm.Chunk{{Text: "ok", Done: true}}}
	f := newFixture(t, provider, time.Second)

	got := f.generator.GetResponse(context.Background(), &models.QueryPayload{
		UserQuery: "q",
		UserMeta:  map[string]interface{}{"user_id": "u1"},
	})

	assert.Equal(t, "ok", got)
	_, err := f.sessions.GetSession(context.Background(), AppName, "u1", "session_u1")
	assert.NoError(t, err)
}

func TestGetResponse_Failures(t *testing.T) {
	tests := []struct {
		name     string
		provider *scriptedProvider
	}{
		{"no events", &scriptedProvider{}},
		{"only partial events", &scriptedProvider{chunks: []*domainllm.Chunk{{Text: "half"}}}},
		{"empty final", &scriptedProvider{chunks: []*domainllm.Chunk{{Done: true}}}},
		{"provider error", &scriptedProvider{chunks: []*domainllm.Chunk{{Text: "x"}}, err: errors.New("quota exceeded")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.provider, time.Second)
			got := f.generator.GetResponse(context.Background(), &models.QueryPayload{UserID: "u1", UserQuery: "q"})
			if got != ErrorMessage {
				t.Errorf("GetResponse() = %q, want sentinel", got)
			}
		})
	}
}

func TestRespond_NoFinalIsAgentUnavailable(t *testing.T) {
	f := newFixture(t, &scriptedProvider{}, time.Second)
	_, err := f.generator.Respond(context.Background(), &models.QueryPayload{UserID: "u1", UserQuery: "q"})
	assert.True(t, errors.Is(err, domain.ErrAgentUnavailable))
}

func TestRespond_MissingUserID(t *testing.T) {
	f := newFixture(t, &scriptedProvider{}, time.Second)
	_, err := f.generator.Respond(context.Background(), &models.QueryPayload{UserQuery: "q"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestGetResponse_Timeout(t *testing.T) {
	f := newFixture(t, &scriptedProvider{block: true}, 20*time.Millisecond)

	start := time.Now()
	got := f.generator.GetResponse(context.Background(), &models.QueryPayload{UserID: "u1", UserQuery: "q"})

	assert.Equal(t, ErrorMessage, got)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSetupServices_UnavailableProvider(t *testing.T) {
	cfg := &config.Config{AgentProvider: "gemini", AgentTimeout: time.Second, SessionTTL: time.Hour}
	providers, err := SetupProviders(cfg, testLogger())
	require.NoError(t, err)

	svcs, err := SetupServices(context.Background(), cfg, providers, staticSummaries{}, testLogger())
	require.NoError(t, err)

	got := svcs.Generator.GetResponse(context.Background(), &models.QueryPayload{UserID: "u1", UserQuery: "q"})
	assert.Equal(t, ErrorMessage, got)
}

func TestSetupServices_Lorem(t *testing.T) {
	cfg := &config.Config{AgentProvider: "lorem", AgentModel: "lorem-fast", AgentTimeout: time.Second, SessionTTL: time.Hour}
	providers, err := SetupProviders(cfg, testLogger())
	require.NoError(t, err)

	svcs, err := SetupServices(context.Background(), cfg, providers, staticSummaries{}, testLogger())
	require.NoError(t, err)
	assert.NotNil(t, svcs.Generator)
	assert.NotNil(t, svcs.Runner)
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		payload models.QueryPayload
		wantErr bool
	}{
		{"valid", models.QueryPayload{UserID: "u1", UserQuery: "Plan a trip"}, false},
		{"user id in meta", models.QueryPayload{UserQuery: "q", UserMeta: map[string]interface{}{"user_id": "u1"}}, false},
		{"missing query", models.QueryPayload{UserID: "u1"}, true},
		{"missing user", models.QueryPayload{UserQuery: "q"}, true},
		{"query too long", models.QueryPayload{UserID: "u1", UserQuery: strings.Repeat("a", config.MaxUserQueryLength+1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(&tt.payload)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQuery() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation error kind, got %v", err)
			}
		})
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"pairprep-be/internal/dto"
	"pairprep-be/internal/entity"
	"pairprep-be/internal/model"
	"pairprep-be/internal/pkg/serverutils"
	"pairprep-be/internal/repository/contract"
	"pairprep-be/internal/repository/specification"
	"pairprep-be/internal/repository/unitofwork"
	"pairprep-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// ---- in-memory fakes ----

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if u, ok := r.users[s.ID]; ok {
				return u, nil
			}
			return nil, nil
		case specification.ByEmail:
			for _, u := range r.users {
				if u.Email == s.Email {
					return u, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*entity.Session
	users    *fakeUserRepo

	// forceLoseClaim simulates a concurrent writer winning between the
	// precondition check and the conditional update.
	forceLoseClaim bool
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	r.sessions[session.Id] = session
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.Session) error {
	r.sessions[session.Id] = session
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) DeleteByCallId(ctx context.Context, callId string) error {
	for id, s := range r.sessions {
		if s.CallId == callId {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *fakeSessionRepo) match(s *entity.Session, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if s.Id != sp.ID {
				return false
			}
		case specification.ByCallId:
			if s.CallId != sp.CallId {
				return false
			}
		case specification.ByStatus:
			if s.Status != sp.Status {
				return false
			}
		case specification.HostedOrJoinedBy:
			joined := s.ParticipantId != nil && *s.ParticipantId == sp.UserId
			if s.HostId != sp.UserId && !joined {
				return false
			}
		}
	}
	return true
}

func (r *fakeSessionRepo) populate(s *entity.Session) *entity.Session {
	out := *s
	if u, ok := r.users.users[s.HostId]; ok {
		out.Host = u
	}
	if s.ParticipantId != nil {
		if u, ok := r.users.users[*s.ParticipantId]; ok {
			out.Participant = u
		}
	}
	return &out
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	for _, s := range r.sessions {
		if r.match(s, specs) {
			return r.populate(s), nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	out := make([]*entity.Session, 0)
	for _, s := range r.sessions {
		if r.match(s, specs) {
			out = append(out, r.populate(s))
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeSessionRepo) SetParticipant(ctx context.Context, id uuid.UUID, participantId uuid.UUID) (bool, error) {
	if r.forceLoseClaim {
		return false, nil
	}
	s, ok := r.sessions[id]
	if !ok || s.Status != entity.SessionStatusActive || s.ParticipantId != nil {
		return false, nil
	}
	pid := participantId
	s.ParticipantId = &pid
	return true, nil
}

func (r *fakeSessionRepo) CompleteSession(ctx context.Context, id uuid.UUID) (bool, error) {
	s, ok := r.sessions[id]
	if !ok || s.Status != entity.SessionStatusActive {
		return false, nil
	}
	s.Status = entity.SessionStatusCompleted
	return true, nil
}

type fakeCleanupRepo struct {
	records []*model.CleanupReport
}

func (r *fakeCleanupRepo) Create(ctx context.Context, report *model.CleanupReport) error {
	r.records = append(r.records, report)
	return nil
}

type fakeUow struct {
	users    *fakeUserRepo
	sessions *fakeSessionRepo
	cleanup  *fakeCleanupRepo
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository { return u.users }
func (u *fakeUow) SessionRepository() contract.SessionRepository {
	return u.sessions
}
func (u *fakeUow) CleanupReportRepository() contract.CleanupReportRepository {
	return u.cleanup
}

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// fakeGateway records every messaging-platform call in order and can be told
// to fail specific operations.
type fakeGateway struct {
	calls  []string
	failOn map[string]error
}

func (g *fakeGateway) fail(op string) error {
	if err, ok := g.failOn[op]; ok {
		return err
	}
	return nil
}

func (g *fakeGateway) CreateCall(ctx context.Context, callId, creatorId string, custom map[string]interface{}) error {
	g.calls = append(g.calls, "create_call:"+callId)
	return g.fail("create_call")
}

func (g *fakeGateway) DeleteCall(ctx context.Context, callId string, hard bool) error {
	g.calls = append(g.calls, fmt.Sprintf("delete_call:%s:hard=%t", callId, hard))
	return g.fail("delete_call")
}

func (g *fakeGateway) CreateChannel(ctx context.Context, callId, name, creatorId string, members []string) error {
	g.calls = append(g.calls, "create_channel:"+callId+":"+name)
	return g.fail("create_channel")
}

func (g *fakeGateway) AddChannelMembers(ctx context.Context, callId string, members []string) error {
	g.calls = append(g.calls, "add_members:"+callId+":"+strings.Join(members, ","))
	return g.fail("add_members")
}

func (g *fakeGateway) DeleteChannel(ctx context.Context, callId string) error {
	g.calls = append(g.calls, "delete_channel:"+callId)
	return g.fail("delete_channel")
}

type fakeReportPublisher struct {
	messages []*dto.CleanupReportMessage
}

func (p *fakeReportPublisher) PublishCleanupReport(ctx context.Context, msg *dto.CleanupReportMessage) error {
	p.messages = append(p.messages, msg)
	return nil
}

type fakeEventPublisher struct {
	published []events.Event
}

func (p *fakeEventPublisher) Publish(ctx context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fixture struct {
	service  ISessionService
	users    *fakeUserRepo
	sessions *fakeSessionRepo
	gateway  *fakeGateway
	reports  *fakeReportPublisher
	events   *fakeEventPublisher
}

func newFixture() *fixture {
	users := &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
	sessions := &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.Session), users: users}
	uow := &fakeUow{users: users, sessions: sessions, cleanup: &fakeCleanupRepo{}}
	gateway := &fakeGateway{failOn: make(map[string]error)}
	reports := &fakeReportPublisher{}
	eventPub := &fakeEventPublisher{}

	svc := NewSessionService(&fakeFactory{uow: uow}, gateway, eventPub, reports, nopLogger{})
	return &fixture{
		service:  svc,
		users:    users,
		sessions: sessions,
		gateway:  gateway,
		reports:  reports,
		events:   eventPub,
	}
}

func (f *fixture) addUser(name string) *entity.User {
	u := &entity.User{
		Id:         uuid.New(),
		Email:      strings.ToLower(name) + "@example.com",
		FullName:   name,
		ExternalId: "user_" + uuid.New().String(),
		Status:     entity.UserStatusActive,
	}
	f.users.users[u.Id] = u
	return u
}

func apiErr(t *testing.T, err error) *serverutils.APIError {
	t.Helper()
	var apiError *serverutils.APIError
	if !errors.As(err, &apiError) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	return apiError
}

// ---- tests ----

func TestCreateSession(t *testing.T) {
	f := newFixture()
	host := f.addUser("Alice")

	res, err := f.service.Create(context.Background(), host.Id, &dto.CreateSessionRequest{
		Problem:    "Two Sum",
		Difficulty: "easy",
	})

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.CallId, "session_"))
	_, uuidErr := uuid.Parse(strings.TrimPrefix(res.CallId, "session_"))
	assert.NoError(t, uuidErr)
	assert.Equal(t, "active", res.Status)
	assert.Nil(t, res.ParticipantId)
	assert.Equal(t, host.Id, res.Host.Id)

	// External resources created in fixed order, after the row exists.
	assert.Len(t, f.gateway.calls, 2)
	assert.Equal(t, "create_call:"+res.CallId, f.gateway.calls[0])
	assert.Equal(t, "create_channel:"+res.CallId+":Two Sum Session", f.gateway.calls[1])

	stored, _ := f.sessions.FindOne(context.Background(), specification.ByCallId{CallId: res.CallId})
	assert.NotNil(t, stored)
}

func TestCreateSessionChannelFailureRollsBack(t *testing.T) {
	f := newFixture()
	host := f.addUser("Alice")
	f.gateway.failOn["create_channel"] = errors.New("stream down")

	res, err := f.service.Create(context.Background(), host.Id, &dto.CreateSessionRequest{
		Problem:    "Two Sum",
		Difficulty: "easy",
	})

	assert.Nil(t, res)
	e := apiErr(t, err)
	assert.Equal(t, 500, e.Code)
	assert.Equal(t, "Failed to create session", e.Message)

	// Row compensated away.
	assert.Empty(t, f.sessions.sessions)

	// Call hard-deleted during compensation.
	found := false
	for _, call := range f.gateway.calls {
		if strings.HasPrefix(call, "delete_call:") && strings.HasSuffix(call, "hard=true") {
			found = true
		}
	}
	assert.True(t, found, "expected a hard call delete, got %v", f.gateway.calls)

	// Report published for the archive pipeline.
	assert.Len(t, f.reports.messages, 1)
	assert.Equal(t, "create_rollback", f.reports.messages[0].Operation)
	assert.Equal(t, "create_chat_channel", f.reports.messages[0].Report.FailedStep)
}

func TestCreateSessionCallFailureRollsBackRowOnly(t *testing.T) {
	f := newFixture()
	host := f.addUser("Alice")
	f.gateway.failOn["create_call"] = errors.New("stream down")

	_, err := f.service.Create(context.Background(), host.Id, &dto.CreateSessionRequest{
		Problem:    "Graphs",
		Difficulty: "hard",
	})

	assert.Error(t, err)
	assert.Empty(t, f.sessions.sessions)
	for _, call := range f.gateway.calls {
		assert.False(t, strings.HasPrefix(call, "delete_call"), "call never created, must not be deleted: %v", f.gateway.calls)
	}
}

func TestJoinSessionAddsMemberThenClaimsSeat(t *testing.T) {
	f := newFixture()
	host := f.addUser("Alice")
	joiner := f.addUser("Bob")
	created, _ := f.service.Create(context.Background(), host.Id, &dto.CreateSessionRequest{Problem: "Two Sum", Difficulty: "easy"})

	res, err := f.service.Join(context.Background(), created.Id, joiner.Id)

	assert.NoError(t, err)
	assert.NotNil(t, res.ParticipantId)
	assert.Equal(t, joiner.Id, *res.ParticipantId)
	assert.Equal(t, joiner.Id, res.Participant.Id)

	assert.Contains(t, f.gateway.calls, "add_members:"+created.CallId+":"+joiner.ExternalId)

	// Host gets notified.
	assert.Len(t, f.events.published, 1)
	assert.Equal(t, events.TypeSessionJoined, f.events.published[0].EventType())
}

func TestJoinSessionPreconditions(t *testing.T) {
	f := newFixture()
	host := f.addUser("Alice")
	joiner := f.addUser("Bob")
	third := f.addUser("Carol")

	created, _ := f.service.Create(context.Background(), host.Id, &dto.CreateSessionRequest{Problem: "Two Sum", Difficulty: "easy"})

	t.Run("unknown session", func(t *testing.T) {
		_, err := f.service.Join(context.Background(), uuid.New(), joiner.Id)
		e := apiErr(t, err)
		assert.Equal(t, 404, e.Code)
		assert.Equal(t, "Session not found", e.Message)
	})

	t.Run("host self-join", func(t *testing.T) {
		_, err := f.service.Join(context.Background(), created.Id, host.Id)
		e := apiErr(t, err)
		assert.Equal(t, 400, e.Code)
		assert.Equal(t, "Host cannot join their own session as participant", e.Message)
	})

	t.Run("seat already taken", func(t *testing.T) {
		_, err := f.service.Join(context.Background(), created.Id, joiner.Id)
		assert.NoError(t, err)

		_, err = f.service.Join(context.Background(), created.Id, third.Id)
		e := apiErr(t, err)
		assert.Equal(t, 409, e.Code)
		assert.Equal(t, "Session is full", e.Message)
	})

	t.Run("completed session", func(t *testing.T) {
		_, err := f.service.End(context.Background(), created.Id, host.Id)
		assert.NoError(t, err)

		_, err = f.service.Join(context.Background(), created.Id, third.Id)
		e := apiErr(t, err)
		assert.Equal(t, 400, e.Code)
		assert.Equal(t, "Cannot join a completed session", e.Message)
	})
}

func TestJoinSessionGatewayFailureLeavesRowUnchanged(t *testing.T) {
	f := newFixture()
	host := f.addUser("Alice")
	joiner := f.addUser("Bob")
	created, _ := f.service.Create(context.Background(), host.Id, &dto.CreateSessionRequest{Problem: "Two Sum", Difficulty: "easy"})

	f.gateway.failOn["add_members"] = errors.New("stream down")

	_, err := f.service.Join(context.Background(), created.Id, joiner.Id)
	e := apiErr(t, err)
	assert.Equal(t, 500, e.Code)

	stored := f.sessions.sessions[created.Id]
	assert.Nil(t, stored.ParticipantId)
}

func TestJoinSessionLostClaimReturnsConflict(t *testing.T) {
	f := newFixture()
	host := f.addUser("Alice")
	joiner := f.addUser("Bob")
	created, _ := f.service.Create(context.Background(), host.Id, &dto.CreateSessionRequest{Problem: "Two Sum", Difficulty: "easy"})

	f.sessions.forceLoseClaim = true

	_, err := f.service.Join(context.Background(), created.Id, joiner.Id)
	e := apiErr(t, err)
	assert.Equal(t, 409, e.Code)
	assert.Equal(t, "Session is full", e.Message)
}

func TestEndSessionPreconditions(t *testing.T) {
	f := newFixture()
	host := f.addUser("Alice")
	other := f.addUser("Bob")
	created, _ := f.service.Create(context.Background(), host.Id, &dto.CreateSessionRequest{Problem: "Two Sum", Difficulty: "easy"})

	t.Run("unknown session", func(t *testing.T) {
		_, err := f.service.End(context.Background(), uuid.New(), host.Id)
		e := apiErr(t, err)
		assert.Equal(t, 404, e.Code)
	})

	t.Run("non-host", func(t *testing.T) {
		_, err := f.service.End(context.Background(), created.Id, other.Id)
		e := apiErr(t, err)
		assert.Equal(t, 403, e.Code)
		assert.Equal(t, "Only the host can end the session", e.Message)

		// Status untouched.
		assert.Equal(t, entity.SessionStatusActive, f.sessions.sessions[created.Id].Status)
	})

	t.Run("already completed", func(t *testing.T) {
		_, err := f.service.End(context.Background(), created.Id, host.Id)
		assert.NoError(t, err)

		_, err = f.service.End(context.Background(), created.Id, host.Id)
		e := apiErr(t, err)
		assert.Equal(t, 400, e.Code)
		assert.Equal(t, "Session is already completed", e.Message)
	})
}

func TestEndSessionTeardownFailureStillCompletes(t *testing.T) {
	f := newFixture()
	host := f.addUser("Alice")
	created, _ := f.service.Create(context.Background(), host.Id, &dto.CreateSessionRequest{Problem: "Two Sum", Difficulty: "easy"})

	f.gateway.failOn["delete_call"] = errors.New("stream down")
	f.gateway.failOn["delete_channel"] = errors.New("stream down")

	res, err := f.service.End(context.Background(), created.Id, host.Id)

	assert.NoError(t, err)
	assert.Equal(t, "completed", res.Status)

	// Both deletes attempted despite failures.
	assert.Contains(t, f.gateway.calls, fmt.Sprintf("delete_call:%s:hard=true", created.CallId))
	assert.Contains(t, f.gateway.calls, "delete_channel:"+created.CallId)

	// Failed teardown archived.
	assert.Len(t, f.reports.messages, 1)
	assert.Equal(t, "end_teardown", f.reports.messages[0].Operation)
}

func TestListActiveAndMine(t *testing.T) {
	f := newFixture()
	host := f.addUser("Alice")
	joiner := f.addUser("Bob")

	first, _ := f.service.Create(context.Background(), host.Id, &dto.CreateSessionRequest{Problem: "Two Sum", Difficulty: "easy"})
	second, _ := f.service.Create(context.Background(), host.Id, &dto.CreateSessionRequest{Problem: "Graphs", Difficulty: "hard"})

	active, err := f.service.GetActive(context.Background())
	assert.NoError(t, err)
	assert.Len(t, active, 2)

	// Completed sessions show up in "mine" for host and participant.
	_, err = f.service.Join(context.Background(), first.Id, joiner.Id)
	assert.NoError(t, err)
	_, err = f.service.End(context.Background(), first.Id, host.Id)
	assert.NoError(t, err)

	active, _ = f.service.GetActive(context.Background())
	assert.Len(t, active, 1)
	assert.Equal(t, second.Id, active[0].Id)

	mineHost, _ := f.service.GetMine(context.Background(), host.Id)
	assert.Len(t, mineHost, 1)
	assert.Equal(t, first.Id, mineHost[0].Id)

	mineJoiner, _ := f.service.GetMine(context.Background(), joiner.Id)
	assert.Len(t, mineJoiner, 1)
}

// Scenario: create as U1, join as U2, join as U3 conflicts, end as U2
// forbidden, end as U1 completes, second end rejected.
func TestSessionLifecycleScenario(t *testing.T) {
	f := newFixture()
	u1 := f.addUser("U1")
	u2 := f.addUser("U2")
	u3 := f.addUser("U3")

	created, err := f.service.Create(context.Background(), u1.Id, &dto.CreateSessionRequest{Problem: "Two Sum", Difficulty: "easy"})
	assert.NoError(t, err)
	assert.Equal(t, "active", created.Status)
	assert.Nil(t, created.ParticipantId)

	joined, err := f.service.Join(context.Background(), created.Id, u2.Id)
	assert.NoError(t, err)
	assert.Equal(t, u2.Id, *joined.ParticipantId)

	_, err = f.service.Join(context.Background(), created.Id, u3.Id)
	assert.Equal(t, 409, apiErr(t, err).Code)

	_, err = f.service.End(context.Background(), created.Id, u2.Id)
	assert.Equal(t, 403, apiErr(t, err).Code)

	ended, err := f.service.End(context.Background(), created.Id, u1.Id)
	assert.NoError(t, err)
	assert.Equal(t, "completed", ended.Status)

	_, err = f.service.End(context.Background(), created.Id, u1.Id)
	assert.Equal(t, 400, apiErr(t, err).Code)
}

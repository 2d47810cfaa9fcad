package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"docnotify/internal/notification/models"
	"docnotify/internal/notification/policy"
	"docnotify/internal/notification/ports/mocks"
	"docnotify/internal/notification/store/directory"
	"docnotify/internal/notification/store/preference"
	"docnotify/internal/notification/store/view"
	id "docnotify/pkg/domain"
	dErrors "docnotify/pkg/domain-errors"
)

// =============================================================================
// Resolver Test Suite
// =============================================================================
// Every stage is exercised against in-memory collaborators so the pipeline
// can be checked without any backing store.

type ResolverSuite struct {
	suite.Suite
	ctx context.Context

	directory   *directory.InMemoryStore
	preferences *preference.InMemoryStore
	oracle      *policy.StaticOracle
	views       *view.InMemoryStore
	resolver    *Resolver

	teamID       id.TeamID
	collectionID id.CollectionID
	documentID   id.DocumentID
	updatedAt    time.Time
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.ctx = context.Background()
	s.directory = directory.NewInMemoryStore()
	s.preferences = preference.NewInMemoryStore()
	s.oracle = policy.NewStaticOracle()
	s.views = view.NewInMemoryStore()

	s.teamID = id.TeamID(uuid.New())
	s.collectionID = id.CollectionID(uuid.New())
	s.documentID = id.DocumentID(uuid.New())
	s.updatedAt = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	var err error
	s.resolver, err = New(s.directory, s.directory, s.preferences, s.oracle, s.views,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithConcurrency(4),
	)
	s.Require().NoError(err)
}

// newMember adds a team member with read access to the collection.
func (s *ResolverSuite) newMember(name string) id.UserID {
	userID := id.UserID(uuid.New())
	s.Require().NoError(s.directory.PutUser(s.ctx, models.User{ID: userID, TeamID: s.teamID, Name: name}))
	s.oracle.Grant(userID, models.CollectionResource(s.collectionID), models.Capabilities{Read: true})
	return userID
}

func (s *ResolverSuite) enable(userID id.UserID, event models.EventType) {
	s.Require().NoError(s.preferences.Enable(s.ctx, models.Preference{UserID: userID, TeamID: s.teamID, Event: event}))
}

func (s *ResolverSuite) putDocument(lastEditor id.UserID, collaborators ...id.UserID) {
	s.Require().NoError(s.directory.PutDocument(s.ctx, models.Document{
		ID:               s.documentID,
		TeamID:           s.teamID,
		CollectionID:     s.collectionID,
		Title:            "Quarterly plan",
		LastModifiedByID: lastEditor,
		UpdatedAt:        s.updatedAt,
		CollaboratorIDs:  collaborators,
	}))
}

func (s *ResolverSuite) event(name models.EventType, actor id.UserID) models.Event {
	return models.Event{
		ID:           id.NewEventID(),
		Name:         name,
		DocumentID:   s.documentID,
		CollectionID: s.collectionID,
		TeamID:       s.teamID,
		ActorID:      actor,
		CreatedAt:    s.updatedAt,
	}
}

func (s *ResolverSuite) resolve(event models.Event) *models.Resolution {
	res, err := s.resolver.Resolve(s.ctx, event)
	s.Require().NoError(err)
	return res
}

func (s *ResolverSuite) suppressedAt(res *models.Resolution, userID id.UserID) models.Stage {
	for _, sup := range res.Suppressed {
		if sup.UserID == userID {
			return sup.Stage
		}
	}
	return ""
}

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *ResolverSuite) TestNew() {
	s.Run("nil collaborators are rejected", func() {
		_, err := New(nil, s.directory, s.preferences, s.oracle, s.views)
		s.ErrorContains(err, "team roster is required")

		_, err = New(s.directory, nil, s.preferences, s.oracle, s.views)
		s.ErrorContains(err, "document store is required")

		_, err = New(s.directory, s.directory, nil, s.oracle, s.views)
		s.ErrorContains(err, "preference store is required")

		_, err = New(s.directory, s.directory, s.preferences, nil, s.views)
		s.ErrorContains(err, "access policy is required")

		_, err = New(s.directory, s.directory, s.preferences, s.oracle, nil)
		s.ErrorContains(err, "recency store is required")
	})
}

// =============================================================================
// documents.publish
// =============================================================================

func (s *ResolverSuite) TestPublish() {
	s.Run("author is never notified about their own publish", func() {
		s.SetupTest()
		author := s.newMember("author")
		s.enable(author, models.EventDocumentPublish)
		s.putDocument(author)

		res := s.resolve(s.event(models.EventDocumentPublish, author))

		s.Empty(res.Recipients)
		s.Equal(models.StageActor, s.suppressedAt(res, author))
	})

	s.Run("teammate with opt-in and access is notified", func() {
		s.SetupTest()
		author := s.newMember("author")
		teammate := s.newMember("teammate")
		s.enable(teammate, models.EventDocumentPublish)
		s.putDocument(author)

		res := s.resolve(s.event(models.EventDocumentPublish, author))

		s.Equal([]id.UserID{teammate}, res.Recipients)
	})

	s.Run("teammate without collection access is dropped", func() {
		s.SetupTest()
		author := s.newMember("author")
		teammate := s.newMember("teammate")
		s.enable(teammate, models.EventDocumentPublish)
		s.oracle.Revoke(teammate, models.CollectionResource(s.collectionID))
		s.putDocument(author)

		res := s.resolve(s.event(models.EventDocumentPublish, author))

		s.Empty(res.Recipients)
		s.Equal(models.StageAccess, s.suppressedAt(res, teammate))
	})

	s.Run("update-only capability without read is dropped", func() {
		s.SetupTest()
		author := s.newMember("author")
		teammate := s.newMember("teammate")
		s.enable(teammate, models.EventDocumentPublish)
		s.oracle.Grant(teammate, models.CollectionResource(s.collectionID), models.Capabilities{Update: true})
		s.putDocument(author)

		res := s.resolve(s.event(models.EventDocumentPublish, author))

		s.Empty(res.Recipients)
	})

	s.Run("missing preference record means opted out", func() {
		s.SetupTest()
		author := s.newMember("author")
		teammate := s.newMember("teammate")
		s.putDocument(author)

		res := s.resolve(s.event(models.EventDocumentPublish, author))

		s.Empty(res.Recipients)
		s.Equal(models.StagePreference, s.suppressedAt(res, teammate))
	})

	s.Run("preference for a different event type does not count", func() {
		s.SetupTest()
		author := s.newMember("author")
		teammate := s.newMember("teammate")
		s.enable(teammate, models.EventDocumentUpdate)
		s.putDocument(author)

		res := s.resolve(s.event(models.EventDocumentPublish, author))

		s.Empty(res.Recipients)
	})

	s.Run("publish ignores collaborators and views", func() {
		s.SetupTest()
		author := s.newMember("author")
		teammate := s.newMember("teammate")
		s.enable(teammate, models.EventDocumentPublish)
		s.putDocument(author, author)
		s.Require().NoError(s.views.Touch(s.ctx, s.documentID, teammate, s.updatedAt.Add(time.Hour)))

		res := s.resolve(s.event(models.EventDocumentPublish, author))

		s.Equal([]id.UserID{teammate}, res.Recipients)
	})

	s.Run("event without collection skips the access stage", func() {
		s.SetupTest()
		author := s.newMember("author")
		teammate := s.newMember("teammate")
		s.enable(teammate, models.EventDocumentPublish)
		s.oracle.Revoke(teammate, models.CollectionResource(s.collectionID))
		s.putDocument(author)

		event := s.event(models.EventDocumentPublish, author)
		event.CollectionID = id.CollectionID{}
		res := s.resolve(event)

		s.Equal([]id.UserID{teammate}, res.Recipients)
	})

	s.Run("event without actor skips actor exclusion", func() {
		s.SetupTest()
		author := s.newMember("author")
		s.enable(author, models.EventDocumentPublish)
		s.putDocument(author)

		res := s.resolve(s.event(models.EventDocumentPublish, id.UserID{}))

		s.Equal([]id.UserID{author}, res.Recipients)
	})
}

// =============================================================================
// revisions.create
// =============================================================================

func (s *ResolverSuite) TestRevision() {
	s.Run("collaborator with documents.update opt-in is notified", func() {
		s.SetupTest()
		editor := s.newMember("editor")
		collaborator := s.newMember("collaborator")
		s.enable(collaborator, models.EventDocumentUpdate)
		s.putDocument(editor, collaborator)

		res := s.resolve(s.event(models.EventRevisionCreate, id.UserID{}))

		s.Equal([]id.UserID{collaborator}, res.Recipients)
	})

	s.Run("collaborator who viewed after the change is suppressed", func() {
		s.SetupTest()
		editor := s.newMember("editor")
		collaborator := s.newMember("collaborator")
		s.enable(collaborator, models.EventDocumentUpdate)
		s.putDocument(editor, collaborator)
		s.Require().NoError(s.views.Touch(s.ctx, s.documentID, collaborator, s.updatedAt.Add(time.Minute)))

		res := s.resolve(s.event(models.EventRevisionCreate, id.UserID{}))

		s.Empty(res.Recipients)
		s.Equal(models.StageFreshness, s.suppressedAt(res, collaborator))
	})

	s.Run("view at the exact modification instant suppresses", func() {
		s.SetupTest()
		editor := s.newMember("editor")
		collaborator := s.newMember("collaborator")
		s.enable(collaborator, models.EventDocumentUpdate)
		s.putDocument(editor, collaborator)
		s.Require().NoError(s.views.Touch(s.ctx, s.documentID, collaborator, s.updatedAt))

		res := s.resolve(s.event(models.EventRevisionCreate, id.UserID{}))

		s.Empty(res.Recipients)
	})

	s.Run("view before the change does not suppress", func() {
		s.SetupTest()
		editor := s.newMember("editor")
		collaborator := s.newMember("collaborator")
		s.enable(collaborator, models.EventDocumentUpdate)
		s.putDocument(editor, collaborator)
		s.Require().NoError(s.views.Touch(s.ctx, s.documentID, collaborator, s.updatedAt.Add(-time.Second)))

		res := s.resolve(s.event(models.EventRevisionCreate, id.UserID{}))

		s.Equal([]id.UserID{collaborator}, res.Recipients)
	})

	s.Run("last editor is excluded even without acting on the event", func() {
		s.SetupTest()
		editor := s.newMember("editor")
		s.enable(editor, models.EventDocumentUpdate)
		s.putDocument(editor, editor)

		res := s.resolve(s.event(models.EventRevisionCreate, id.UserID{}))

		s.Empty(res.Recipients)
		s.Equal(models.StageLastEditor, s.suppressedAt(res, editor))
	})

	s.Run("teammate outside the collaborator set is dropped", func() {
		s.SetupTest()
		editor := s.newMember("editor")
		outsider := s.newMember("outsider")
		s.enable(outsider, models.EventDocumentUpdate)
		s.putDocument(editor, editor)

		res := s.resolve(s.event(models.EventRevisionCreate, id.UserID{}))

		s.Empty(res.Recipients)
		s.Equal(models.StageCollaborators, s.suppressedAt(res, outsider))
	})

	s.Run("actor exclusion runs before collaborator scope", func() {
		s.SetupTest()
		editor := s.newMember("editor")
		actor := s.newMember("actor")
		s.enable(actor, models.EventDocumentUpdate)
		s.putDocument(editor, actor)

		res := s.resolve(s.event(models.EventRevisionCreate, actor))

		s.Empty(res.Recipients)
		s.Equal(models.StageActor, s.suppressedAt(res, actor))
	})

	s.Run("collaborator who left the team is not a candidate", func() {
		s.SetupTest()
		editor := s.newMember("editor")
		formerMember := id.UserID(uuid.New())
		s.enable(formerMember, models.EventDocumentUpdate)
		s.putDocument(editor, formerMember)

		res := s.resolve(s.event(models.EventRevisionCreate, id.UserID{}))

		s.Empty(res.Recipients)
	})
}

// =============================================================================
// Cross-cutting properties
// =============================================================================

func (s *ResolverSuite) TestProperties() {
	s.Run("recipients are a duplicate-free subset of the roster", func() {
		s.SetupTest()
		author := s.newMember("author")
		var members []id.UserID
		for i := 0; i < 20; i++ {
			u := s.newMember("member")
			members = append(members, u)
			if i%2 == 0 {
				s.enable(u, models.EventDocumentPublish)
			}
		}
		s.putDocument(author)

		res := s.resolve(s.event(models.EventDocumentPublish, author))

		s.Len(res.Recipients, 10)
		seen := make(map[id.UserID]bool)
		for _, u := range res.Recipients {
			s.False(seen[u], "duplicate recipient")
			seen[u] = true
			s.Contains(members, u)
			s.NotEqual(author, u)
		}
		s.Len(res.Suppressed, 11)
	})

	s.Run("resolution is idempotent", func() {
		s.SetupTest()
		author := s.newMember("author")
		for i := 0; i < 8; i++ {
			s.enable(s.newMember("member"), models.EventDocumentPublish)
		}
		s.putDocument(author)
		event := s.event(models.EventDocumentPublish, author)

		first := s.resolve(event)
		second := s.resolve(event)

		s.Equal(first.Recipients, second.Recipients)
		s.Equal(first.Suppressed, second.Suppressed)
	})

	s.Run("suspended members are not candidates", func() {
		s.SetupTest()
		author := s.newMember("author")
		suspended := s.newMember("suspended")
		s.enable(suspended, models.EventDocumentPublish)
		s.Require().NoError(s.directory.Suspend(s.ctx, suspended))
		s.putDocument(author)

		res := s.resolve(s.event(models.EventDocumentPublish, author))

		s.Empty(res.Recipients)
	})

	s.Run("deleted document resolves to nobody", func() {
		s.SetupTest()
		author := s.newMember("author")
		teammate := s.newMember("teammate")
		s.enable(teammate, models.EventDocumentPublish)

		res := s.resolve(s.event(models.EventDocumentPublish, author))

		s.Empty(res.Recipients)
		s.Nil(res.Document)
		s.Equal(models.StageDocument, s.suppressedAt(res, teammate))
	})

	s.Run("non-notifiable event is rejected", func() {
		s.SetupTest()
		_, err := s.resolver.Resolve(s.ctx, s.event(models.EventViewCreate, id.UserID{}))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("event without team is rejected", func() {
		s.SetupTest()
		event := s.event(models.EventDocumentPublish, id.UserID{})
		event.TeamID = id.TeamID{}
		_, err := s.resolver.Resolve(s.ctx, event)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

// =============================================================================
// Collaborator failures
// =============================================================================

func (s *ResolverSuite) TestCollaboratorFailures() {
	storeDown := errors.New("connection refused")

	s.Run("roster failure aborts resolution", func() {
		s.SetupTest()
		ctrl := gomock.NewController(s.T())
		roster := mocks.NewMockTeamRoster(ctrl)
		roster.EXPECT().TeamMembers(gomock.Any(), s.teamID).Return(nil, storeDown)

		r, err := New(roster, s.directory, s.preferences, s.oracle, s.views)
		s.Require().NoError(err)

		_, err = r.Resolve(s.ctx, s.event(models.EventDocumentPublish, id.UserID{}))
		var stageErr *StageError
		s.Require().ErrorAs(err, &stageErr)
		s.Equal(models.StageRoster, stageErr.Stage)
		s.ErrorIs(err, storeDown)
	})

	s.Run("preference failure aborts resolution", func() {
		s.SetupTest()
		author := s.newMember("author")
		s.newMember("teammate")
		s.putDocument(author)

		ctrl := gomock.NewController(s.T())
		prefs := mocks.NewMockPreferenceStore(ctrl)
		prefs.EXPECT().IsEnabled(gomock.Any(), gomock.Any(), s.teamID, models.EventDocumentPublish).
			Return(false, storeDown).MinTimes(1)

		r, err := New(s.directory, s.directory, prefs, s.oracle, s.views)
		s.Require().NoError(err)

		_, err = r.Resolve(s.ctx, s.event(models.EventDocumentPublish, author))
		var stageErr *StageError
		s.Require().ErrorAs(err, &stageErr)
		s.Equal(models.StagePreference, stageErr.Stage)
	})

	s.Run("oracle failure aborts resolution", func() {
		s.SetupTest()
		author := s.newMember("author")
		teammate := s.newMember("teammate")
		s.enable(teammate, models.EventDocumentPublish)
		s.putDocument(author)

		ctrl := gomock.NewController(s.T())
		oracle := mocks.NewMockAccessPolicy(ctrl)
		oracle.EXPECT().Abilities(gomock.Any(), teammate, models.CollectionResource(s.collectionID)).
			Return(models.Capabilities{}, storeDown)

		r, err := New(s.directory, s.directory, s.preferences, oracle, s.views)
		s.Require().NoError(err)

		_, err = r.Resolve(s.ctx, s.event(models.EventDocumentPublish, author))
		var stageErr *StageError
		s.Require().ErrorAs(err, &stageErr)
		s.Equal(models.StageAccess, stageErr.Stage)
	})

	s.Run("recency failure aborts resolution", func() {
		s.SetupTest()
		editor := s.newMember("editor")
		collaborator := s.newMember("collaborator")
		s.enable(collaborator, models.EventDocumentUpdate)
		s.putDocument(editor, collaborator)

		ctrl := gomock.NewController(s.T())
		recency := mocks.NewMockRecencyStore(ctrl)
		recency.EXPECT().LastViewed(gomock.Any(), s.documentID, collaborator).
			Return(time.Time{}, false, storeDown)

		r, err := New(s.directory, s.directory, s.preferences, s.oracle, recency)
		s.Require().NoError(err)

		_, err = r.Resolve(s.ctx, s.event(models.EventRevisionCreate, id.UserID{}))
		var stageErr *StageError
		s.Require().ErrorAs(err, &stageErr)
		s.Equal(models.StageFreshness, stageErr.Stage)
	})

	s.Run("document store failure aborts resolution", func() {
		s.SetupTest()
		s.newMember("teammate")

		ctrl := gomock.NewController(s.T())
		docs := mocks.NewMockDocumentStore(ctrl)
		docs.EXPECT().Document(gomock.Any(), s.documentID).Return(nil, storeDown)

		r, err := New(s.directory, docs, s.preferences, s.oracle, s.views)
		s.Require().NoError(err)

		_, err = r.Resolve(s.ctx, s.event(models.EventDocumentPublish, id.UserID{}))
		var stageErr *StageError
		s.Require().ErrorAs(err, &stageErr)
		s.Equal(models.StageDocument, stageErr.Stage)
	})

	s.Run("stages after an empty pool issue no queries", func() {
		s.SetupTest()
		author := s.newMember("author")
		s.putDocument(author)

		ctrl := gomock.NewController(s.T())
		oracle := mocks.NewMockAccessPolicy(ctrl)

		r, err := New(s.directory, s.directory, s.preferences, oracle, s.views)
		s.Require().NoError(err)

		res, err := r.Resolve(s.ctx, s.event(models.EventDocumentPublish, author))
		s.Require().NoError(err)
		s.Empty(res.Recipients)
	})
}

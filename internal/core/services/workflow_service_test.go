package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/stretchr/testify/suite"
)

type WorkflowTestSuite struct {
	suite.Suite
	f   *ledgerFixture
	ctx context.Context
}

func TestWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowTestSuite))
}

func (suite *WorkflowTestSuite) SetupTest() {
	suite.f = newLedgerFixture(suite.T())
	suite.ctx = context.Background()
}

func (suite *WorkflowTestSuite) TestApprovalPath() {
	j := suite.f.draft(suite.T(), cashSale("120"))
	wf := suite.f.svc.Workflow

	submitted, err := wf.Submit(suite.ctx, suite.f.accountant, j.JournalID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusAwaitingApproval, submitted.Status)

	approved, err := wf.Approve(suite.ctx, suite.f.approver, j.JournalID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, approved.Status)
	suite.Require().NotNil(approved.ApprovedBy)
	suite.Equal("u-approver", *approved.ApprovedBy)
	suite.False(approved.IsLocked)

	posted, err := wf.Post(suite.ctx, suite.f.accountant, j.JournalID, "")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPosted, posted.Status)
	suite.True(posted.IsLocked)

	suite.Equal([]domain.JournalEventType{domain.EventNeedsApproval, domain.EventApproved, domain.EventPosted}, suite.f.publisher.types())

	events, err := suite.f.store.ListAuditEvents(suite.ctx, orgID, domain.SubjectJournal, j.JournalID)
	suite.Require().NoError(err)
	actions := make([]domain.AuditAction, 0, len(events))
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	suite.Equal([]domain.AuditAction{
		domain.AuditJournalCreated,
		domain.AuditJournalTransition,
		domain.AuditJournalTransition,
		domain.AuditJournalPosted,
	}, actions)
}

func (suite *WorkflowTestSuite) TestRejectRequiresReasonAndRecordsIt() {
	j := suite.f.draft(suite.T(), cashSale("120"))
	_, err := suite.f.svc.Workflow.Submit(suite.ctx, suite.f.accountant, j.JournalID)
	suite.Require().NoError(err)

	_, err = suite.f.svc.Workflow.Reject(suite.ctx, suite.f.approver, j.JournalID, "")
	suite.ErrorIs(err, apperrors.ErrValidation)

	rejected, err := suite.f.svc.Workflow.Reject(suite.ctx, suite.f.approver, j.JournalID, "wrong account")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusRejected, rejected.Status)
	suite.Equal("wrong account", rejected.RejectionReason)

	draft, err := suite.f.svc.Workflow.ReturnToDraft(suite.ctx, suite.f.accountant, j.JournalID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusDraft, draft.Status)
}

func (suite *WorkflowTestSuite) TestPermissionBoundToTargetState() {
	j := suite.f.draft(suite.T(), cashSale("120"))
	_, err := suite.f.svc.Workflow.Submit(suite.ctx, suite.f.accountant, j.JournalID)
	suite.Require().NoError(err)

	_, err = suite.f.svc.Workflow.Approve(suite.ctx, suite.f.accountant, j.JournalID)
	suite.ErrorIs(err, apperrors.ErrPermissionDenied)

	_, err = suite.f.svc.Workflow.Submit(suite.ctx, suite.f.reader, j.JournalID)
	suite.ErrorIs(err, apperrors.ErrPermissionDenied)

	stored, err := suite.f.store.FindJournalByID(suite.ctx, orgID, j.JournalID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusAwaitingApproval, stored.Status)
}

func (suite *WorkflowTestSuite) TestInvalidTransitionsAreNeverCoerced() {
	j := suite.f.draft(suite.T(), cashSale("120"))

	_, err := suite.f.svc.Workflow.Approve(suite.ctx, suite.f.admin, j.JournalID)

	var le *apperrors.LedgerError
	suite.Require().ErrorAs(err, &le)
	suite.Equal(apperrors.KindInvalidStatusTransition, le.Kind)
	suite.Equal(string(domain.StatusDraft), le.Current)
	suite.Equal(string(domain.StatusApproved), le.Requested)

	_, err = suite.f.svc.Workflow.Reverse(suite.ctx, suite.f.admin, j.JournalID)
	suite.ErrorIs(err, apperrors.ErrReversalNotAllowed)
}

func (suite *WorkflowTestSuite) TestPostedJournalIsImmutable() {
	j := suite.f.posted(suite.T(), cashSale("120"))

	_, err := suite.f.svc.Workflow.ReturnToDraft(suite.ctx, suite.f.admin, j.JournalID)
	suite.ErrorIs(err, apperrors.ErrInvalidStatusTransition)

	_, err = suite.f.svc.Journal.UpdateDraft(suite.ctx, suite.f.admin, j.JournalID, cashSale("1"))
	suite.ErrorIs(err, apperrors.ErrJournalLocked)

	stored, err := suite.f.store.FindJournalByID(suite.ctx, orgID, j.JournalID)
	suite.Require().NoError(err)
	suite.True(stored.TotalDebit.Equal(amt("120")))
}

func (suite *WorkflowTestSuite) TestTransitionDispatch() {
	j := suite.f.draft(suite.T(), cashSale("30"))

	got, err := suite.f.svc.Workflow.Transition(suite.ctx, suite.f.admin, j.JournalID, domain.StatusPosted, portssvc.TransitionOptions{IdempotencyKey: "t-1"})
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPosted, got.Status)

	rev, err := suite.f.svc.Workflow.Transition(suite.ctx, suite.f.admin, j.JournalID, domain.StatusReversed, portssvc.TransitionOptions{})
	suite.Require().NoError(err)
	suite.True(rev.IsReversal)

	_, err = suite.f.svc.Workflow.Transition(suite.ctx, suite.f.admin, j.JournalID, domain.JournalStatus("ARCHIVED"), portssvc.TransitionOptions{})
	suite.ErrorIs(err, apperrors.ErrInvalidStatusTransition)
}

func (suite *WorkflowTestSuite) TestTransition_UnknownTargetNamesCurrentStatus() {
	j := suite.f.draft(suite.T(), cashSale("30"))

	_, err := suite.f.svc.Workflow.Transition(suite.ctx, suite.f.admin, j.JournalID, domain.JournalStatus("ARCHIVED"), portssvc.TransitionOptions{})

	var le *apperrors.LedgerError
	suite.Require().True(errors.As(err, &le))
	suite.Equal(apperrors.KindInvalidStatusTransition, le.Kind)
	suite.Equal(string(domain.StatusDraft), le.Current)
	suite.Equal("ARCHIVED", le.Requested)
	suite.Equal(j.JournalID, le.JournalID)

	_, err = suite.f.svc.Workflow.Transition(suite.ctx, suite.f.admin, "no-such-journal", domain.JournalStatus("ARCHIVED"), portssvc.TransitionOptions{})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *WorkflowTestSuite) TestUpdateDraftKeepsStatusAndRecomputesTotals() {
	j := suite.f.draft(suite.T(), cashSale("10"))
	_, err := suite.f.svc.Workflow.Submit(suite.ctx, suite.f.accountant, j.JournalID)
	suite.Require().NoError(err)

	updated, err := suite.f.svc.Journal.UpdateDraft(suite.ctx, suite.f.accountant, j.JournalID, cashSale("15.25"))

	suite.Require().NoError(err)
	suite.Equal(domain.StatusAwaitingApproval, updated.Status)
	suite.True(updated.TotalDebit.Equal(amt("15.25")))
	suite.True(updated.TotalCredit.Equal(amt("15.25")))
	suite.Equal(j.CreatedAt, updated.CreatedAt)
}

func (suite *WorkflowTestSuite) TestGetAndListJournals() {
	first := suite.f.draft(suite.T(), cashSale("10"))
	suite.f.posted(suite.T(), cashSale("20"))

	got, err := suite.f.svc.Journal.GetJournal(suite.ctx, suite.f.reader, first.JournalID)
	suite.Require().NoError(err)
	suite.Len(got.Lines, 2)

	other := domain.NewActor("u-x", otherOrgID, domain.PermJournalRead)
	_, err = suite.f.svc.Journal.GetJournal(suite.ctx, other, first.JournalID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	posted := domain.StatusPosted
	page, err := suite.f.svc.Journal.ListJournals(suite.ctx, suite.f.reader, dtoListParams(&posted))
	suite.Require().NoError(err)
	suite.Len(page.Journals, 1)
}

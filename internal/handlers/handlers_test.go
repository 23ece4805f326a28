package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"github.com/SscSPs/ledger_posting_engine/internal/handlers"
	"github.com/SscSPs/ledger_posting_engine/internal/platform/config"
	"github.com/SscSPs/ledger_posting_engine/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testIssuer = "ledger-test"
	testOrg    = "org-1"
)

type HandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	journals *MockJournalService
	workflow *MockWorkflowService
	periods  *MockPeriodService
	rates    *MockExchangeRateService
	ledger   *MockLedgerService
	types    *MockJournalTypeService
}

func (suite *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterValidators())
}

func (suite *HandlerTestSuite) SetupTest() {
	suite.journals = new(MockJournalService)
	suite.workflow = new(MockWorkflowService)
	suite.periods = new(MockPeriodService)
	suite.rates = new(MockExchangeRateService)
	suite.ledger = new(MockLedgerService)
	suite.types = new(MockJournalTypeService)

	cfg := &config.Config{
		IsProduction:       true,
		JWTSecret:          testSecret,
		JWTIssuer:          testIssuer,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
	container := &portssvc.ServiceContainer{
		Journal:      suite.journals,
		Workflow:     suite.workflow,
		Period:       suite.periods,
		ExchangeRate: suite.rates,
		Ledger:       suite.ledger,
		JournalType:  suite.types,
	}
	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, container, nil)
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.journals.AssertExpectations(suite.T())
	suite.workflow.AssertExpectations(suite.T())
	suite.periods.AssertExpectations(suite.T())
	suite.rates.AssertExpectations(suite.T())
	suite.ledger.AssertExpectations(suite.T())
	suite.types.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) token(userID string, role domain.Role) string {
	tok, err := utils.GenerateJWT(userID, testOrg, string(role), nil, testSecret, time.Hour, testIssuer)
	suite.Require().NoError(err)
	return tok
}

func (suite *HandlerTestSuite) do(method, path, userID string, role domain.Role, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+suite.token(userID, role))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func actorFor(userID string) any {
	return mock.MatchedBy(func(a domain.Actor) bool {
		return a.UserID == userID && a.OrganizationID == testOrg
	})
}

func (suite *HandlerTestSuite) decodeError(w *httptest.ResponseRecorder) dto.ErrorResponse {
	var resp dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func sampleJournal(status domain.JournalStatus) *domain.Journal {
	return &domain.Journal{
		JournalID:      "jrn-1",
		OrganizationID: testOrg,
		JournalTypeID:  "type-jv",
		JournalDate:    time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		CurrencyCode:   "USD",
		ExchangeRate:   decimal.NewFromInt(1),
		TotalDebit:     decimal.NewFromInt(100),
		TotalCredit:    decimal.NewFromInt(100),
		Status:         status,
		Lines: []domain.JournalLine{
			{LineID: "l1", LineNumber: 1, AccountID: "acc-cash", DebitAmount: decimal.NewFromInt(100), CreditAmount: decimal.Zero},
			{LineID: "l2", LineNumber: 2, AccountID: "acc-sales", DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromInt(100)},
		},
	}
}

func createBody() map[string]any {
	return map[string]any{
		"journalTypeID": "type-jv",
		"journalDate":   "2026-10-05T00:00:00Z",
		"currencyCode":  "USD",
		"description":   "Cash sale",
		"lines": []map[string]any{
			{"accountID": "acc-cash", "debitAmount": "100.00"},
			{"accountID": "acc-sales", "creditAmount": "100.00"},
		},
	}
}

// --- Journals ---

func (suite *HandlerTestSuite) TestCreateDraft_Success() {
	suite.journals.On("CreateDraft", mock.Anything, actorFor("user-1"),
		mock.MatchedBy(func(req dto.CreateJournalRequest) bool {
			return len(req.Lines) == 2 && req.Lines[0].DebitAmount.Equal(decimal.NewFromInt(100))
		}),
	).Return(sampleJournal(domain.StatusDraft), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals", "user-1", domain.RoleAccountant, createBody())

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("jrn-1", resp.JournalID)
	suite.Equal(domain.StatusDraft, resp.Status)
	suite.Len(resp.Lines, 2)
}

func (suite *HandlerTestSuite) TestCreateDraft_RejectsBadCurrencyAndNegativeAmount() {
	body := createBody()
	body["currencyCode"] = "usd"
	w := suite.do(http.MethodPost, "/api/v1/journals", "user-1", domain.RoleAccountant, body)
	suite.Equal(http.StatusBadRequest, w.Code)

	body = createBody()
	body["lines"] = []map[string]any{
		{"accountID": "acc-cash", "debitAmount": "-5"},
		{"accountID": "acc-sales", "creditAmount": "5"},
	}
	w = suite.do(http.MethodPost, "/api/v1/journals", "user-1", domain.RoleAccountant, body)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestRequiresBearerToken() {
	w := suite.do(http.MethodGet, "/api/v1/journals/jrn-1", "", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestPostJournal_PassesIdempotencyKey() {
	posted := sampleJournal(domain.StatusPosted)
	posted.JournalNumber = "JV-2026-10-000001"
	suite.journals.On("PostJournal", mock.Anything, actorFor("user-1"), mock.AnythingOfType("dto.CreateJournalRequest"), "key-123").
		Return(posted, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/post", "user-1", domain.RoleAccountant, createBody(), "Idempotency-Key", " key-123 ")

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("JV-2026-10-000001", resp.JournalNumber)
}

func (suite *HandlerTestSuite) TestPostJournal_LedgerErrorsMapToStatus() {
	tests := []struct {
		name   string
		err    error
		status int
		kind   apperrors.Kind
	}{
		{"imbalanced", apperrors.NewLedgerError(apperrors.KindImbalancedJournal, "debits 100 != credits 90"), http.StatusUnprocessableEntity, apperrors.KindImbalancedJournal},
		{"period closed", apperrors.NewLedgerError(apperrors.KindPeriodClosed, "no open period"), http.StatusUnprocessableEntity, apperrors.KindPeriodClosed},
		{"missing dimension", apperrors.NewLedgerError(apperrors.KindMissingDimension, "department required").ForLine(2, "departmentID"), http.StatusBadRequest, apperrors.KindMissingDimension},
		{"conflict", apperrors.NewPostingConflictError("", nil), http.StatusConflict, apperrors.KindPostingConflict},
		{"permission", apperrors.NewPermissionDeniedError("user-1", "journal.post"), http.StatusForbidden, apperrors.KindPermissionDenied},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.journals.On("PostJournal", mock.Anything, mock.Anything, mock.Anything, "").Return(nil, tt.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/journals/post", "user-1", domain.RoleAccountant, createBody())

			suite.Equal(tt.status, w.Code)
			suite.Equal(string(tt.kind), suite.decodeError(w).Kind)
		})
	}
}

func (suite *HandlerTestSuite) TestMissingDimensionReportsLine() {
	err := apperrors.NewLedgerError(apperrors.KindMissingDimension, "department required").ForLine(2, "departmentID").ForJournal("jrn-1")
	suite.journals.On("PostJournal", mock.Anything, mock.Anything, mock.Anything, "").Return(nil, err).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/post", "user-1", domain.RoleAccountant, createBody())

	resp := suite.decodeError(w)
	suite.Equal(2, resp.Line)
	suite.Equal("departmentID", resp.Field)
	suite.Equal("jrn-1", resp.JournalID)
}

func (suite *HandlerTestSuite) TestInternalErrorsAreNotExposed() {
	suite.journals.On("GetJournal", mock.Anything, mock.Anything, "jrn-1").
		Return(nil, fmt.Errorf("failed to find journal: %w", apperrors.NewAppError(500, "driver", fmt.Errorf("connection reset by peer")))).Once()

	w := suite.do(http.MethodGet, "/api/v1/journals/jrn-1", "user-1", domain.RoleReadOnly, nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "connection reset")
}

func (suite *HandlerTestSuite) TestGetJournal_NotFound() {
	suite.journals.On("GetJournal", mock.Anything, mock.Anything, "missing").
		Return(nil, apperrors.NewNotFoundError("journal missing not found")).Once()

	w := suite.do(http.MethodGet, "/api/v1/journals/missing", "user-1", domain.RoleReadOnly, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestListJournals_BindsQuery() {
	next := "tok-2"
	suite.journals.On("ListJournals", mock.Anything, mock.Anything,
		mock.MatchedBy(func(p dto.ListJournalsParams) bool {
			return p.Limit == 10 && p.Status != nil && *p.Status == domain.StatusPosted
		}),
	).Return(&dto.ListJournalsResponse{Journals: []dto.JournalResponse{{JournalID: "jrn-1"}}, NextToken: &next}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/journals?status=POSTED&limit=10", "user-1", domain.RoleReadOnly, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListJournalsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Journals, 1)
	suite.Equal("tok-2", *resp.NextToken)

	w = suite.do(http.MethodGet, "/api/v1/journals?limit=1000", "user-1", domain.RoleReadOnly, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestValidate_ReportsFindingAsResult() {
	finding := apperrors.NewLedgerError(apperrors.KindAccountTypeMismatch, "INCOME not allowed").ForLine(2, "accountID")
	suite.journals.On("Validate", mock.Anything, mock.Anything, "jrn-1").Return(finding).Once()
	suite.journals.On("Validate", mock.Anything, mock.Anything, "jrn-2").Return(nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/jrn-1/validate", "user-1", domain.RoleAccountant, nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ValidationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.Valid)
	suite.Equal(string(apperrors.KindAccountTypeMismatch), resp.Kind)
	suite.Equal(2, resp.Line)

	w = suite.do(http.MethodPost, "/api/v1/journals/jrn-2/validate", "user-1", domain.RoleAccountant, nil)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Valid)
}

func (suite *HandlerTestSuite) TestValidate_NotFoundIsAnError() {
	suite.journals.On("Validate", mock.Anything, mock.Anything, "missing").Return(apperrors.NewNotFoundError("journal missing not found")).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/missing/validate", "user-1", domain.RoleAccountant, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Workflow ---

func (suite *HandlerTestSuite) TestApprove_Success() {
	suite.workflow.On("Approve", mock.Anything, actorFor("approver-1"), "jrn-1").
		Return(sampleJournal(domain.StatusApproved), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/jrn-1/approve", "approver-1", domain.RoleApprover, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.JournalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.StatusApproved, resp.Status)
}

func (suite *HandlerTestSuite) TestInvalidTransitionNamesStates() {
	err := apperrors.NewInvalidTransitionError("jrn-1", string(domain.StatusPosted), string(domain.StatusDraft))
	suite.workflow.On("ReturnToDraft", mock.Anything, mock.Anything, "jrn-1").Return(nil, err).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/jrn-1/return-to-draft", "user-1", domain.RoleAccountant, nil)

	suite.Equal(http.StatusConflict, w.Code)
	resp := suite.decodeError(w)
	suite.Equal("POSTED", resp.Current)
	suite.Equal("DRAFT", resp.Requested)
}

func (suite *HandlerTestSuite) TestReject_RequiresReason() {
	w := suite.do(http.MethodPost, "/api/v1/journals/jrn-1/reject", "approver-1", domain.RoleApprover, map[string]string{})
	suite.Equal(http.StatusBadRequest, w.Code)

	rejected := sampleJournal(domain.StatusRejected)
	rejected.RejectionReason = "wrong account"
	suite.workflow.On("Reject", mock.Anything, mock.Anything, "jrn-1", "wrong account").Return(rejected, nil).Once()

	w = suite.do(http.MethodPost, "/api/v1/journals/jrn-1/reject", "approver-1", domain.RoleApprover, map[string]string{"reason": "wrong account"})
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestReverse_ReturnsReversal() {
	reversal := sampleJournal(domain.StatusPosted)
	reversal.JournalID = "jrn-rev"
	reversal.IsReversal = true
	original := "jrn-1"
	reversal.ReversalOfID = &original
	suite.workflow.On("Reverse", mock.Anything, mock.Anything, "jrn-1").Return(reversal, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/jrn-1/reverse", "admin-1", domain.RoleAdmin, nil)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.IsReversal)
	suite.Equal("jrn-1", *resp.ReversalOfID)
}

func (suite *HandlerTestSuite) TestReverse_AlreadyReversed() {
	suite.workflow.On("Reverse", mock.Anything, mock.Anything, "jrn-1").
		Return(nil, apperrors.NewLedgerError(apperrors.KindReversalAlreadyExists, "already reversed")).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/jrn-1/reverse", "admin-1", domain.RoleAdmin, nil)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestTransition_ForwardsTargetAndKey() {
	suite.workflow.On("Transition", mock.Anything, mock.Anything, "jrn-1", domain.StatusPosted,
		portssvc.TransitionOptions{IdempotencyKey: "k-1"},
	).Return(sampleJournal(domain.StatusPosted), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/jrn-1/transition", "user-1", domain.RoleAccountant,
		map[string]string{"status": "POSTED"}, "Idempotency-Key", "k-1")
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/journals/jrn-1/transition", "user-1", domain.RoleAccountant,
		map[string]string{"status": "ARCHIVED"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

// --- Periods ---

func (suite *HandlerTestSuite) TestClosePeriod_AlreadyClosed() {
	suite.periods.On("ClosePeriod", mock.Anything, mock.Anything, "p-1").
		Return(nil, apperrors.NewAppError(http.StatusConflict, "period 2026-10 is already closed", apperrors.ErrConflict)).Once()

	w := suite.do(http.MethodPost, "/api/v1/periods/p-1/close", "admin-1", domain.RoleAdmin, nil)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestPeriodStatus() {
	day := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	suite.periods.On("IsOpen", mock.Anything, testOrg, mock.MatchedBy(func(t time.Time) bool {
		return domain.DateOnly(t).Equal(day)
	})).Return(true, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/periods/status?date=2026-10-05", "user-1", domain.RoleReadOnly, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.PeriodOpenResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Open)
}

func (suite *HandlerTestSuite) TestCurrentPeriod_NoneOpen() {
	suite.periods.On("GetCurrent", mock.Anything, testOrg).Return(nil, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/periods/current", "user-1", domain.RoleReadOnly, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Exchange rates ---

func (suite *HandlerTestSuite) TestCreateExchangeRate() {
	suite.rates.On("CreateExchangeRate", mock.Anything, mock.Anything, mock.MatchedBy(func(r domain.ExchangeRate) bool {
		return r.FromCurrencyCode == "EUR" && r.ToCurrencyCode == "USD" && r.Rate.Equal(decimal.RequireFromString("1.1"))
	})).Return(&domain.ExchangeRate{ExchangeRateID: "rate-1", FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: decimal.RequireFromString("1.1")}, nil).Once()

	body := map[string]any{"fromCurrencyCode": "EUR", "toCurrencyCode": "USD", "rate": "1.1", "rateDate": "2026-10-01T00:00:00Z"}
	w := suite.do(http.MethodPost, "/api/v1/exchange-rates", "user-1", domain.RoleAccountant, body)
	suite.Equal(http.StatusCreated, w.Code)

	body["rate"] = "0"
	w = suite.do(http.MethodPost, "/api/v1/exchange-rates", "user-1", domain.RoleAccountant, body)
	suite.Equal(http.StatusBadRequest, w.Code)

	body["rate"] = "1.1"
	body["toCurrencyCode"] = "EUR"
	w = suite.do(http.MethodPost, "/api/v1/exchange-rates", "user-1", domain.RoleAccountant, body)
	suite.Equal(http.StatusBadRequest, w.Code, "same currency on both sides")
}

func (suite *HandlerTestSuite) TestResolveExchangeRate() {
	asOf := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	suite.rates.On("Resolve", mock.Anything, testOrg, "EUR", "USD", asOf).Return(decimal.RequireFromString("1.1"), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/exchange-rates/resolve?from=EUR&to=USD&asOf=2026-10-05", "user-1", domain.RoleReadOnly, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ResolvedRateResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Rate.Equal(decimal.RequireFromString("1.1")))
}

func (suite *HandlerTestSuite) TestResolveExchangeRate_StrictMiss() {
	suite.rates.On("Resolve", mock.Anything, testOrg, "GBP", "USD", mock.Anything).
		Return(decimal.Zero, apperrors.NewLedgerError(apperrors.KindExchangeRateNotFound, "no GBP/USD rate")).Once()

	w := suite.do(http.MethodGet, "/api/v1/exchange-rates/resolve?from=GBP&to=USD&asOf=2026-10-05", "user-1", domain.RoleReadOnly, nil)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

// --- Ledger ---

func (suite *HandlerTestSuite) TestAccountBalance() {
	suite.ledger.On("GetAccountBalance", mock.Anything, mock.Anything, "acc-sales").Return(&domain.AccountBalance{
		AccountID: "acc-sales", Nature: domain.Income, Balance: decimal.NewFromInt(-250), EntryCount: 2,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-sales/balance", "user-1", domain.RoleReadOnly, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Balance.Equal(decimal.NewFromInt(-250)))
	suite.Equal(int64(2), resp.EntryCount)
}

func (suite *HandlerTestSuite) TestListLedgerEntries_PassesToken() {
	token := "seq-9"
	suite.ledger.On("ListLedgerEntries", mock.Anything, mock.Anything, "acc-cash", 5,
		mock.MatchedBy(func(t *string) bool { return t != nil && *t == token }),
	).Return([]domain.GeneralLedgerEntry{{EntryID: "e-1", Sequence: 8}}, nil, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-cash/entries?limit=5&nextToken=seq-9", "user-1", domain.RoleReadOnly, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListLedgerEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Entries, 1)
	suite.Nil(resp.NextToken)
}

func (suite *HandlerTestSuite) TestTrialBalance() {
	suite.ledger.On("TrialBalance", mock.Anything, mock.Anything).Return(&domain.TrialBalance{
		OrganizationID: testOrg,
		Rows: []domain.TrialBalanceRow{
			{AccountID: "acc-cash", AccountCode: "1000", Nature: domain.Asset, Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
			{AccountID: "acc-sales", AccountCode: "4000", Nature: domain.Income, Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
		},
		TotalDebit:  decimal.NewFromInt(100),
		TotalCredit: decimal.NewFromInt(100),
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/trial-balance", "user-1", domain.RoleReadOnly, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TrialBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Balanced)
	suite.Len(resp.Rows, 2)
}

// --- Journal types ---

func (suite *HandlerTestSuite) TestApplyJournalTypes() {
	suite.types.On("ApplyJournalTypes", mock.Anything, mock.Anything, mock.MatchedBy(func(ts []domain.JournalType) bool {
		return len(ts) == 1 && ts[0].Code == "PV" && len(ts[0].Rules) == 1 && ts[0].IsActive
	})).Return([]domain.JournalType{{JournalTypeID: "type-pv", Code: "PV", Kind: domain.KindPayment, IsActive: true}}, nil).Once()

	body := map[string]any{"types": []map[string]any{{
		"code": "PV", "name": "Payment Voucher", "kind": "PAYMENT",
		"rules": []map[string]any{{"kind": "MAX_AMOUNT", "amount": "5000"}},
	}}}
	w := suite.do(http.MethodPut, "/api/v1/journal-types", "admin-1", domain.RoleAdmin, body)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestApplyJournalTypes_UnknownRuleIsBadRequest() {
	body := map[string]any{"types": []map[string]any{{
		"code": "PV", "name": "Payment Voucher", "kind": "PAYMENT",
		"rules": []map[string]any{{"kind": "NO_SUCH_RULE"}},
	}}}
	w := suite.do(http.MethodPut, "/api/v1/journal-types", "admin-1", domain.RoleAdmin, body)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

package treasury

import (
	"testing"
	"time"

	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/buildcore/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers

func approverActor() Actor {
	return NewActor(uuid.New(), PermApprove)
}

func payerActor() Actor {
	return NewActor(uuid.New(), PermPay)
}

func fullActor() Actor {
	return NewActor(uuid.New(), PermApprove, PermPay)
}

func createTestExpense(t *testing.T) *Transaction {
	tx, err := NewTransaction(
		"TXN-202601-00001",
		time.Now(),
		TransactionTypeExpense,
		valueobject.NewMoneyVNDFromInt(5_000_000),
		ScopeProject,
		"Vật tư",
		"Mua xi măng đợt 1",
	)
	require.NoError(t, err)
	return tx
}

func createTestIncome(t *testing.T) *Transaction {
	tx, err := NewTransaction(
		"TXN-202601-00002",
		time.Now(),
		TransactionTypeIncome,
		valueobject.NewMoneyVNDFromInt(30_000_000),
		ScopeProject,
		"Thu hợp đồng",
		"Thanh toán giai đoạn 1",
	)
	require.NoError(t, err)
	return tx
}

func submittedExpense(t *testing.T) *Transaction {
	tx := createTestExpense(t)
	require.NoError(t, tx.Submit(uuid.New()))
	return tx
}

func approvedExpense(t *testing.T) *Transaction {
	tx := submittedExpense(t)
	require.NoError(t, tx.Approve(approverActor()))
	return tx
}

// ============================================
// TransactionStatus Tests
// ============================================

func TestTransactionStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  TransactionStatus
		isValid bool
	}{
		{TransactionStatusDraft, true},
		{TransactionStatusSubmitted, true},
		{TransactionStatusApproved, true},
		{TransactionStatusPaid, true},
		{TransactionStatusRejected, true},
		{TransactionStatus("INVALID"), false},
		{TransactionStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestTransactionStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status     TransactionStatus
		isTerminal bool
	}{
		{TransactionStatusDraft, false},
		{TransactionStatusSubmitted, false},
		{TransactionStatusApproved, false},
		{TransactionStatusPaid, true},
		{TransactionStatusRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isTerminal, tt.status.IsTerminal())
		})
	}
}

func TestTransactionStatus_CanConfirmIncome(t *testing.T) {
	tests := []struct {
		status     TransactionStatus
		canCollect bool
	}{
		{TransactionStatusDraft, false},
		{TransactionStatusSubmitted, true},
		{TransactionStatusApproved, true},
		{TransactionStatusPaid, false},
		{TransactionStatusRejected, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.canCollect, tt.status.CanConfirmIncome())
		})
	}
}

// ============================================
// Creation Tests
// ============================================

func TestNewTransaction(t *testing.T) {
	tx := createTestExpense(t)

	assert.Equal(t, TransactionStatusDraft, tx.Status)
	assert.Equal(t, TransactionTypeExpense, tx.Type)
	assert.Nil(t, tx.TargetAccountID)
	assert.Equal(t, 1, tx.Version)
	assert.Len(t, tx.GetDomainEvents(), 1)
	assert.Equal(t, "TransactionCreated", tx.GetDomainEvents()[0].EventType())
}

func TestNewTransaction_Validation(t *testing.T) {
	amount := valueobject.NewMoneyVNDFromInt(1000)

	_, err := NewTransaction("", time.Now(), TransactionTypeExpense, amount, ScopeProject, "Vật tư", "")
	assert.Error(t, err)

	_, err = NewTransaction("TXN-1", time.Now(), TransactionType("TRANSFER"), amount, ScopeProject, "Vật tư", "")
	assert.Error(t, err)

	_, err = NewTransaction("TXN-1", time.Now(), TransactionTypeExpense, valueobject.NewMoneyVNDFromInt(-1), ScopeProject, "Vật tư", "")
	assert.Error(t, err)

	_, err = NewTransaction("TXN-1", time.Now(), TransactionTypeExpense, amount, ScopeProject, "", "")
	assert.Error(t, err)
}

// ============================================
// Submit / Approve / Reject Tests
// ============================================

func TestTransaction_Submit(t *testing.T) {
	tx := createTestExpense(t)
	submitter := uuid.New()

	err := tx.Submit(submitter)

	require.NoError(t, err)
	assert.Equal(t, TransactionStatusSubmitted, tx.Status)
	assert.Equal(t, submitter, *tx.SubmittedBy)
	assert.NotNil(t, tx.SubmittedAt)
}

func TestTransaction_Submit_NotDraft(t *testing.T) {
	tx := submittedExpense(t)

	err := tx.Submit(uuid.New())

	assertDomainCode(t, err, "INVALID_STATE")
}

func TestTransaction_Approve(t *testing.T) {
	tx := submittedExpense(t)
	actor := approverActor()

	err := tx.Approve(actor)

	require.NoError(t, err)
	assert.Equal(t, TransactionStatusApproved, tx.Status)
	assert.Equal(t, actor.ID, *tx.ApprovedBy)
	assert.NotNil(t, tx.ApprovedAt)
}

func TestTransaction_Approve_PermissionDenied(t *testing.T) {
	tx := submittedExpense(t)

	err := tx.Approve(payerActor())

	assertDomainCode(t, err, "PERMISSION_DENIED")
	assert.Equal(t, TransactionStatusSubmitted, tx.Status)
}

func TestTransaction_Approve_InvalidState(t *testing.T) {
	tests := []struct {
		name string
		tx   func(t *testing.T) *Transaction
	}{
		{"draft", createTestExpense},
		{"approved", approvedExpense},
		{"paid", func(t *testing.T) *Transaction {
			tx := approvedExpense(t)
			require.NoError(t, tx.Pay(payerActor(), uuid.New()))
			return tx
		}},
		{"rejected", func(t *testing.T) *Transaction {
			tx := submittedExpense(t)
			require.NoError(t, tx.Reject(approverActor(), "thiếu chứng từ"))
			return tx
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := tt.tx(t)
			err := tx.Approve(approverActor())
			assertDomainCode(t, err, "INVALID_STATE")
		})
	}
}

func TestTransaction_Reject(t *testing.T) {
	tx := submittedExpense(t)
	actor := approverActor()

	err := tx.Reject(actor, "sai hạng mục chi")

	require.NoError(t, err)
	assert.Equal(t, TransactionStatusRejected, tx.Status)
	assert.Equal(t, "sai hạng mục chi", tx.RejectionReason)
	assert.Equal(t, actor.ID, *tx.RejectedBy)
}

func TestTransaction_Reject_EmptyReason(t *testing.T) {
	tx := submittedExpense(t)

	err := tx.Reject(approverActor(), "")

	assertDomainCode(t, err, "VALIDATION_ERROR")
	assert.Equal(t, TransactionStatusSubmitted, tx.Status)
}

func TestTransaction_Reject_PermissionDenied(t *testing.T) {
	tx := submittedExpense(t)

	err := tx.Reject(payerActor(), "reason")

	assertDomainCode(t, err, "PERMISSION_DENIED")
}

// ============================================
// Pay / ConfirmIncome Tests
// ============================================

func TestTransaction_Pay(t *testing.T) {
	tx := approvedExpense(t)
	actor := payerActor()
	accountID := uuid.New()

	err := tx.Pay(actor, accountID)

	require.NoError(t, err)
	assert.Equal(t, TransactionStatusPaid, tx.Status)
	assert.Equal(t, accountID, *tx.TargetAccountID)
	assert.Equal(t, actor.ID, *tx.ConfirmedBy)
	assert.NotNil(t, tx.ConfirmedAt)
}

func TestTransaction_Pay_SkippingApprovalDisallowed(t *testing.T) {
	tx := submittedExpense(t)

	err := tx.Pay(payerActor(), uuid.New())

	assertDomainCode(t, err, "INVALID_STATE")
	assert.Equal(t, TransactionStatusSubmitted, tx.Status)
}

func TestTransaction_Pay_EmptyAccount(t *testing.T) {
	tx := approvedExpense(t)

	err := tx.Pay(payerActor(), uuid.Nil)

	assertDomainCode(t, err, "VALIDATION_ERROR")
	assert.Equal(t, TransactionStatusApproved, tx.Status)
	assert.Nil(t, tx.TargetAccountID)
}

func TestTransaction_Pay_PermissionDenied(t *testing.T) {
	tx := approvedExpense(t)

	err := tx.Pay(approverActor(), uuid.New())

	assertDomainCode(t, err, "PERMISSION_DENIED")
}

func TestTransaction_Pay_IncomeDisallowed(t *testing.T) {
	tx := createTestIncome(t)
	require.NoError(t, tx.Submit(uuid.New()))
	require.NoError(t, tx.Approve(approverActor()))

	err := tx.Pay(payerActor(), uuid.New())

	assertDomainCode(t, err, "INVALID_STATE")
}

func TestTransaction_ConfirmIncome_FromSubmitted(t *testing.T) {
	tx := createTestIncome(t)
	require.NoError(t, tx.Submit(uuid.New()))
	actor := payerActor()
	accountID := uuid.New()

	err := tx.ConfirmIncome(actor, accountID)

	require.NoError(t, err)
	assert.Equal(t, TransactionStatusPaid, tx.Status)
	assert.Equal(t, accountID, *tx.TargetAccountID)
}

func TestTransaction_ConfirmIncome_FromApproved(t *testing.T) {
	tx := createTestIncome(t)
	require.NoError(t, tx.Submit(uuid.New()))
	require.NoError(t, tx.Approve(approverActor()))

	err := tx.ConfirmIncome(payerActor(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, TransactionStatusPaid, tx.Status)
}

func TestTransaction_ConfirmIncome_AlreadyPaid(t *testing.T) {
	tx := createTestIncome(t)
	require.NoError(t, tx.Submit(uuid.New()))
	require.NoError(t, tx.ConfirmIncome(payerActor(), uuid.New()))

	err := tx.ConfirmIncome(payerActor(), uuid.New())

	assertDomainCode(t, err, "INVALID_STATE")
}

func TestTransaction_ConfirmIncome_ExpenseDisallowed(t *testing.T) {
	tx := submittedExpense(t)

	err := tx.ConfirmIncome(payerActor(), uuid.New())

	assertDomainCode(t, err, "INVALID_STATE")
}

func TestTransaction_ConfirmIncome_EmptyAccount(t *testing.T) {
	tx := createTestIncome(t)
	require.NoError(t, tx.Submit(uuid.New()))

	err := tx.ConfirmIncome(payerActor(), uuid.Nil)

	assertDomainCode(t, err, "VALIDATION_ERROR")
}

// ============================================
// Terminal State Safety Tests
// ============================================

// No sequence of lifecycle calls may leave PAID or REJECTED.
func TestTransaction_TerminalStatesAreFinal(t *testing.T) {
	paid := approvedExpense(t)
	require.NoError(t, paid.Pay(payerActor(), uuid.New()))

	rejected := submittedExpense(t)
	require.NoError(t, rejected.Reject(approverActor(), "trùng phiếu chi"))

	for _, tx := range []*Transaction{paid, rejected} {
		before := tx.Status
		assert.Error(t, tx.Submit(uuid.New()))
		assert.Error(t, tx.Approve(fullActor()))
		assert.Error(t, tx.Reject(fullActor(), "reason"))
		if tx.Type == TransactionTypeExpense {
			assert.Error(t, tx.Pay(fullActor(), uuid.New()))
		}
		assert.Equal(t, before, tx.Status)
	}
}

// Amount is immutable once paid: Update is restricted to drafts.
func TestTransaction_Update_OnlyDraft(t *testing.T) {
	tx := createTestExpense(t)
	err := tx.Update(time.Now(), valueobject.NewMoneyVNDFromInt(7_000_000), ScopeCompanyFixed, "Văn phòng", "updated")
	require.NoError(t, err)
	assert.True(t, tx.Amount.Equal(valueobject.NewMoneyVNDFromInt(7_000_000).Amount()))

	paid := approvedExpense(t)
	require.NoError(t, paid.Pay(payerActor(), uuid.New()))
	amountBefore := paid.Amount

	err = paid.Update(time.Now(), valueobject.NewMoneyVNDFromInt(1), ScopeProject, "Vật tư", "")

	assertDomainCode(t, err, "INVALID_STATE")
	assert.True(t, amountBefore.Equal(paid.Amount))
}

func TestTransaction_SignedAmount(t *testing.T) {
	expense := createTestExpense(t)
	income := createTestIncome(t)

	assert.True(t, expense.SignedAmount().IsNegative())
	assert.True(t, income.SignedAmount().IsPositive())
}

// assertDomainCode asserts that err is a DomainError with the given code
func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

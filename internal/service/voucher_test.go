package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/flower_shop/internal/dbtest"
	"github.com/Skotchmaster/flower_shop/internal/models"
	"github.com/Skotchmaster/flower_shop/internal/repo"
)

func TestVoucherService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	gdb := dbtest.New(t)
	svc := &VoucherService{Repo: repo.New(gdb)}

	alice, _ := dbtest.User(t, gdb, "alice", models.RoleUser)
	dbtest.User(t, gdb, "gina", models.RoleGoogle)
	idle, _ := dbtest.User(t, gdb, "idle", models.RoleUser)
	require.NoError(t, svc.Repo.SetUserStatus(ctx, idle.ID, models.UserStatusInactive))
	dbtest.User(t, gdb, "boss", models.RoleAdmin)
	sellerUser, _ := dbtest.Seller(t, gdb, "shop", "Hanoi")

	in := VoucherInput{
		Code:       "SPRING10",
		Discount:   decimal.NewFromInt(10),
		StartDate:  fixedNow,
		EndDate:    fixedNow.Add(30 * 24 * time.Hour),
		UsageLimit: 2,
	}

	n, err := svc.IssueVoucher(ctx, sellerUser.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = svc.IssueVoucher(ctx, sellerUser.ID, in)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.IssueVoucher(ctx, alice.ID, in)
	assert.ErrorIs(t, err, ErrSellerNotFound)

	mine, err := svc.ListVouchers(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "SPRING10", mine[0].Code)
	assert.Equal(t, 2, mine[0].RemainingCount)
	assert.Equal(t, 0, mine[0].UsageCount)

	deleted, err := svc.DeleteVoucher(ctx, sellerUser.ID, "SPRING10")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = svc.DeleteVoucher(ctx, sellerUser.ID, "SPRING10")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVoucherInput_Validate(t *testing.T) {
	t.Parallel()

	valid := VoucherInput{
		Code:       "X",
		Discount:   decimal.NewFromInt(100),
		StartDate:  fixedNow,
		EndDate:    fixedNow.Add(time.Hour),
		UsageLimit: 1,
	}
	require.NoError(t, valid.validate())

	tests := []struct {
		name   string
		mutate func(in *VoucherInput)
	}{
		{name: "blank code", mutate: func(in *VoucherInput) { in.Code = " " }},
		{name: "zero discount", mutate: func(in *VoucherInput) { in.Discount = decimal.Zero }},
		{name: "discount over 100", mutate: func(in *VoucherInput) { in.Discount = decimal.RequireFromString("100.01") }},
		{name: "end before start", mutate: func(in *VoucherInput) { in.EndDate = in.StartDate }},
		{name: "no uses", mutate: func(in *VoucherInput) { in.UsageLimit = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			assert.ErrorIs(t, in.validate(), ErrValidation)
		})
	}
}

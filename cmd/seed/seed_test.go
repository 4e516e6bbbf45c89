package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/contacerta/backend/config"
	"github.com/contacerta/backend/internal/domain/valueobject"
	"github.com/contacerta/backend/internal/infra/db"
	"github.com/contacerta/backend/internal/integration/adapters"
)

func TestSeeder_Run(t *testing.T) {
	database, err := db.NewSQLiteConnection(&config.DatabaseConfig{URL: "file::memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.Migrate())

	s := newSeeder(database.DB(), valueobject.DefaultBillingPolicy(), adapters.NewPasswordService(bcrypt.MinCost, 8))
	s.now = func() time.Time { return time.Date(2024, time.March, 18, 12, 0, 0, 0, time.UTC) }

	ctx := context.Background()
	account := seedAccount{Email: "lucas@example.com", Password: "senha12345", FriendEmail: "maria@example.com"}

	summary, err := s.Run(ctx, account)
	require.NoError(t, err)
	assert.False(t, summary.AlreadySeeded)
	assert.Equal(t, 2, summary.Cards)
	assert.Equal(t, 4, summary.Categories)
	assert.Equal(t, len(seedExpenses)+2, summary.Expenses)

	remaining := make(map[string]string, len(summary.Limits))
	for _, limit := range summary.Limits {
		remaining[limit.Name] = limit.Remaining.StringFixed(2)
	}
	// Notebook and the payer's half of dinner on Nubank; Uber and Geladeira on Itaú
	assert.Equal(t, "3380.00", remaining["Nubank (1234)"])
	assert.Equal(t, "2767.10", remaining["Itaú (5678)"])

	again, err := s.Run(ctx, account)
	require.NoError(t, err)
	assert.True(t, again.AlreadySeeded)
}

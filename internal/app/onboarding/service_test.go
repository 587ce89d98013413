package onboarding

import (
	"context"
	"errors"
	"math/rand"
	"testing"
)

type mockAccounts struct {
	updates int
	lastDisplayName string
	err     error
}

func (m *mockAccounts) UpdateProfile(ctx context.Context, userID, username, displayName string) error {
	m.updates++
	m.lastDisplayName = displayName
	return m.err
}

type mockBonus struct {
	grants  int
	granted bool
	lastAmount int64
	err     error
}

func (m *mockBonus) GrantWelcomeBonusOnce(ctx context.Context, userID string, amount int64, metadata map[string]interface{}) (bool, error) {
	m.grants++
	m.lastAmount = amount
	return m.granted, m.err
}

func TestOnboardNewUser(t *testing.T) {
	accounts := &mockAccounts{}
	bonus := &mockBonus{granted: true}
	svc := NewService(accounts, bonus, rand.New(rand.NewSource(3)))

	result, err := svc.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("onboard error: %v", err)
	}
	if accounts.updates != 1 || bonus.grants != 1 {
		t.Fatalf("updates=%d grants=%d, want 1/1", accounts.updates, bonus.grants)
	}
	if accounts.lastDisplayName == "" {
		t.Fatalf("display name should be generated")
	}
	if bonus.lastAmount != defaultWelcomePrestige {
		t.Fatalf("amount = %d, want %d", bonus.lastAmount, defaultWelcomePrestige)
	}
	if !result.WelcomeBonusGranted {
		t.Fatalf("bonus should be reported as granted")
	}
}

func TestOnboardProfileFailureIsBestEffort(t *testing.T) {
	accounts := &mockAccounts{err: errors.New("profile busy")}
	bonus := &mockBonus{granted: true}
	svc := NewService(accounts, bonus, nil)

	result, err := svc.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("profile failure must not fail onboarding: %v", err)
	}
	if result.ProfileUpdateErr == nil {
		t.Fatalf("profile error should be surfaced in the result")
	}
	if bonus.grants != 1 {
		t.Fatalf("bonus grant should still run")
	}
}

func TestOnboardBonusFailure(t *testing.T) {
	accounts := &mockAccounts{}
	bonus := &mockBonus{err: errors.New("wallet down")}
	svc := NewService(accounts, bonus, nil)

	if _, err := svc.OnboardNewUser(context.Background(), "user-1"); err == nil {
		t.Fatalf("bonus failure must fail onboarding")
	}
}

func TestOnboardAlreadyGranted(t *testing.T) {
	svc := NewService(&mockAccounts{}, &mockBonus{granted: false}, nil)

	result, err := svc.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("onboard error: %v", err)
	}
	if result.WelcomeBonusGranted {
		t.Fatalf("repeat grant should be reported as not granted")
	}
}

func TestGeneratedNamesVary(t *testing.T) {
	svc := NewService(&mockAccounts{}, &mockBonus{granted: true}, rand.New(rand.NewSource(11)))

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		seen[svc.generateFriendlyName()] = true
	}
	if len(seen) < 2 {
		t.Fatalf("names should vary across calls")
	}
}

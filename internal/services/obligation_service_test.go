package services

import (
	"testing"
	"time"

	"fincoach/internal/models"
	"fincoach/internal/testutil"
)

func TestCreateObligation(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewObligationService(db)
		user := testutil.CreateTestUser(t, db)

		obligation, err := svc.CreateObligation(user.ID, "Rent", models.ObligationTypeUtility, 1500, time.Now().AddDate(0, 0, 10), models.FrequencyMonthly, "Acme Realty")
		testutil.AssertNoError(t, err)
		if obligation.ID == 0 {
			t.Fatal("expected non-zero obligation ID")
		}
		if obligation.LastPaidDate != nil {
			t.Error("expected no payment recorded on a new obligation")
		}
	})

	t.Run("rejects_bad_input", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewObligationService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateObligation(user.ID, "  ", models.ObligationTypeUtility, 100, time.Now(), models.FrequencyMonthly, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateObligation(user.ID, "Rent", models.ObligationTypeUtility, 0, time.Now(), models.FrequencyMonthly, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateObligation(user.ID, "Rent", models.ObligationTypeUtility, 100, time.Time{}, models.FrequencyMonthly, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserObligations(t *testing.T) {
	t.Run("ordered_by_due_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewObligationService(db)
		user := testutil.CreateTestUser(t, db)

		later := testutil.CreateTestObligation(t, db, user.ID, 100, time.Now().AddDate(0, 0, 20), models.FrequencyMonthly)
		sooner := testutil.CreateTestObligation(t, db, user.ID, 200, time.Now().AddDate(0, 0, 5), models.FrequencyMonthly)

		obligations, err := svc.GetUserObligations(user.ID)
		testutil.AssertNoError(t, err)
		if len(obligations) != 2 {
			t.Fatalf("expected 2 obligations, got %d", len(obligations))
		}
		if obligations[0].ID != sooner.ID || obligations[1].ID != later.ID {
			t.Error("expected obligations ordered by due date ascending")
		}
	})

	t.Run("scoped_to_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewObligationService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		testutil.CreateTestObligation(t, db, user1.ID, 100, time.Now(), models.FrequencyMonthly)

		obligations, err := svc.GetUserObligations(user2.ID)
		testutil.AssertNoError(t, err)
		if len(obligations) != 0 {
			t.Errorf("expected no obligations for other user, got %d", len(obligations))
		}
	})
}

func TestMarkPaid(t *testing.T) {
	t.Run("advances_schedule_to_next_occurrence", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewObligationService(db)
		user := testutil.CreateTestUser(t, db)

		due := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
		obligation := testutil.CreateTestObligation(t, db, user.ID, 300, due, models.FrequencyMonthly)

		paid, err := svc.MarkPaid(user.ID, obligation.ID, due)
		testutil.AssertNoError(t, err)
		if paid.LastPaidDate == nil || !paid.LastPaidDate.Equal(due) {
			t.Fatal("expected payment date recorded")
		}

		schedule, err := svc.Schedule(user.ID, due.AddDate(0, 0, 1))
		testutil.AssertNoError(t, err)
		if len(schedule) != 1 {
			t.Fatalf("expected 1 scheduled obligation, got %d", len(schedule))
		}
		next := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
		if !schedule[0].HasNextDue || !schedule[0].NextDue.Equal(next) {
			t.Errorf("expected next occurrence %s, got %s", next.Format("2006-01-02"), schedule[0].NextDue.Format("2006-01-02"))
		}
	})

	t.Run("early_payment_covers_the_pending_occurrence", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewObligationService(db)
		user := testutil.CreateTestUser(t, db)

		due := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
		obligation := testutil.CreateTestObligation(t, db, user.ID, 300, due, models.FrequencyMonthly)

		_, err := svc.MarkPaid(user.ID, obligation.ID, due.AddDate(0, 0, -4))
		testutil.AssertNoError(t, err)

		schedule, err := svc.Schedule(user.ID, due.AddDate(0, 0, 6))
		testutil.AssertNoError(t, err)
		next := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
		if !schedule[0].HasNextDue || !schedule[0].NextDue.Equal(next) {
			t.Errorf("expected next occurrence %s, got %s", next.Format("2006-01-02"), schedule[0].NextDue.Format("2006-01-02"))
		}
		if schedule[0].Overdue {
			t.Error("a bill paid ahead of its due date must not turn overdue")
		}
	})

	t.Run("paid_one_time_is_resolved", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewObligationService(db)
		user := testutil.CreateTestUser(t, db)

		due := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
		obligation := testutil.CreateTestObligation(t, db, user.ID, 500, due, models.FrequencyOneTime)

		_, err := svc.MarkPaid(user.ID, obligation.ID, due)
		testutil.AssertNoError(t, err)

		schedule, err := svc.Schedule(user.ID, due.AddDate(0, 1, 0))
		testutil.AssertNoError(t, err)
		if len(schedule) != 1 {
			t.Fatalf("expected 1 scheduled obligation, got %d", len(schedule))
		}
		if schedule[0].HasNextDue {
			t.Error("expected paid one-time obligation to be resolved")
		}
	})

	t.Run("rejects_backdated_payment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewObligationService(db)
		user := testutil.CreateTestUser(t, db)

		due := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
		obligation := testutil.CreateTestObligation(t, db, user.ID, 300, due, models.FrequencyMonthly)

		_, err := svc.MarkPaid(user.ID, obligation.ID, due)
		testutil.AssertNoError(t, err)

		_, err = svc.MarkPaid(user.ID, obligation.ID, due.AddDate(0, 0, -10))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewObligationService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.MarkPaid(user.ID, 9999, time.Now())
		testutil.AssertAppError(t, err, "OBLIGATION_NOT_FOUND")
	})
}

func TestDeleteObligation(t *testing.T) {
	t.Run("removes_from_schedule", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewObligationService(db)
		user := testutil.CreateTestUser(t, db)
		obligation := testutil.CreateTestObligation(t, db, user.ID, 100, time.Now().AddDate(0, 0, 5), models.FrequencyMonthly)

		err := svc.DeleteObligation(user.ID, obligation.ID)
		testutil.AssertNoError(t, err)

		schedule, err := svc.Schedule(user.ID, time.Now())
		testutil.AssertNoError(t, err)
		if len(schedule) != 0 {
			t.Errorf("expected empty schedule, got %d entries", len(schedule))
		}
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewObligationService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		obligation := testutil.CreateTestObligation(t, db, user1.ID, 100, time.Now(), models.FrequencyMonthly)

		err := svc.DeleteObligation(user2.ID, obligation.ID)
		testutil.AssertAppError(t, err, "OBLIGATION_NOT_FOUND")
	})
}

func TestSchedule(t *testing.T) {
	t.Run("flags_overdue", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewObligationService(db)
		user := testutil.CreateTestUser(t, db)

		asOf := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestObligation(t, db, user.ID, 100, asOf.AddDate(0, 0, -3), models.FrequencyMonthly)
		testutil.CreateTestObligation(t, db, user.ID, 200, asOf.AddDate(0, 0, 3), models.FrequencyMonthly)

		schedule, err := svc.Schedule(user.ID, asOf)
		testutil.AssertNoError(t, err)
		if len(schedule) != 2 {
			t.Fatalf("expected 2 scheduled obligations, got %d", len(schedule))
		}

		var overdueCount int
		for _, s := range schedule {
			if s.Overdue {
				overdueCount++
			}
		}
		if overdueCount != 1 {
			t.Errorf("expected exactly 1 overdue obligation, got %d", overdueCount)
		}
	})
}

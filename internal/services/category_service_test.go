package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"envelo/internal/models"
	"envelo/internal/testutil"
)

func newCategoryService(db *gorm.DB) CategoryServicer {
	monthSvc := NewMonthService(db)
	return NewCategoryService(db, monthSvc, NewAssignmentService(db, monthSvc))
}

func TestCreateCategoryGroup(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)

		group, err := svc.CreateCategoryGroup(user.ID, budget.ID, "Bills")
		testutil.AssertNoError(t, err)

		if group.Name != "Bills" {
			t.Errorf("expected name Bills, got %s", group.Name)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)

		_, err := svc.CreateCategoryGroup(user.ID, budget.ID, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestListCategoryGroups(t *testing.T) {
	t.Run("includes_categories", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		group := testutil.CreateTestGroup(t, db, user.ID, budget.ID)
		testutil.CreateTestCategory(t, db, user.ID, budget.ID, group.ID)
		testutil.CreateTestCategory(t, db, user.ID, budget.ID, group.ID)

		groups, err := svc.ListCategoryGroups(user.ID, budget.ID)
		testutil.AssertNoError(t, err)

		if len(groups) != 1 {
			t.Fatalf("expected 1 group, got %d", len(groups))
		}
		if len(groups[0].Categories) != 2 {
			t.Errorf("expected 2 categories in group, got %d", len(groups[0].Categories))
		}
	})
}

func TestCreateCategory(t *testing.T) {
	t.Run("seeds_current_month_detail", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		group := testutil.CreateTestGroup(t, db, user.ID, budget.ID)

		cat, err := svc.CreateCategory(user.ID, budget.ID, group.ID, "Groceries")
		testutil.AssertNoError(t, err)

		var detail models.MonthlyCategoryDetail
		err = db.Where("category_id = ?", cat.ID).First(&detail).Error
		testutil.AssertNoError(t, err)
		if !detail.AmountAssigned.IsZero() {
			t.Errorf("expected zero seeded assignment, got %s", detail.AmountAssigned)
		}
	})

	t.Run("group_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)

		_, err := svc.CreateCategory(user.ID, budget.ID, 9999, "Orphan")
		testutil.AssertAppError(t, err, "CATEGORY_GROUP_NOT_FOUND")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		group := testutil.CreateTestGroup(t, db, user.ID, budget.ID)

		_, err := svc.CreateCategory(user.ID, budget.ID, group.ID, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestListCategoriesWithDetails(t *testing.T) {
	t.Run("preloads_month_details_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		jan := testutil.CreateTestMonth(t, db, user.ID, budget.ID, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		feb := testutil.CreateTestMonth(t, db, user.ID, budget.ID, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
		group := testutil.CreateTestGroup(t, db, user.ID, budget.ID)
		cat := testutil.CreateTestCategory(t, db, user.ID, budget.ID, group.ID)

		testutil.CreateTestDetail(t, db, user.ID, jan.ID, cat.ID, decimal.NewFromInt(100))
		testutil.CreateTestDetail(t, db, user.ID, feb.ID, cat.ID, decimal.NewFromInt(200))

		categories, err := svc.ListCategoriesWithDetails(user.ID, budget.ID, jan.ID)
		testutil.AssertNoError(t, err)

		if len(categories) != 1 {
			t.Fatalf("expected 1 category, got %d", len(categories))
		}
		if len(categories[0].Details) != 1 {
			t.Fatalf("expected 1 detail for January, got %d", len(categories[0].Details))
		}
		if !categories[0].Details[0].AmountAssigned.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected January's assignment 100, got %s", categories[0].Details[0].AmountAssigned)
		}
	})
}

func TestRenameCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		group := testutil.CreateTestGroup(t, db, user.ID, budget.ID)
		cat := testutil.CreateTestCategory(t, db, user.ID, budget.ID, group.ID)

		renamed, err := svc.RenameCategory(user.ID, cat.ID, "Dining Out")
		testutil.AssertNoError(t, err)

		if renamed.Name != "Dining Out" {
			t.Errorf("expected name 'Dining Out', got %s", renamed.Name)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.RenameCategory(user.ID, 9999, "Nope")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestUpdateCategoryGoal(t *testing.T) {
	t.Run("sets_target_and_frequency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		group := testutil.CreateTestGroup(t, db, user.ID, budget.ID)
		cat := testutil.CreateTestCategory(t, db, user.ID, budget.ID, group.ID)

		target := decimal.NewFromInt(1200)
		freq := models.GoalFrequencyMonthly
		dueDay := 15
		_, err := svc.UpdateCategoryGoal(user.ID, cat.ID, CategoryGoalUpdate{
			TargetAmount: &target,
			Frequency:    &freq,
			DueDay:       &dueDay,
		})
		testutil.AssertNoError(t, err)

		var fetched models.Category
		testutil.AssertNoError(t, db.First(&fetched, cat.ID).Error)
		if fetched.TargetAmount == nil || !fetched.TargetAmount.Equal(target) {
			t.Errorf("expected target 1200, got %v", fetched.TargetAmount)
		}
		if fetched.Frequency == nil || *fetched.Frequency != models.GoalFrequencyMonthly {
			t.Errorf("expected monthly frequency, got %v", fetched.Frequency)
		}
		if fetched.DueDay == nil || *fetched.DueDay != 15 {
			t.Errorf("expected due day 15, got %v", fetched.DueDay)
		}
	})

	t.Run("nil_fields_left_unchanged", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		group := testutil.CreateTestGroup(t, db, user.ID, budget.ID)
		cat := testutil.CreateTestCategory(t, db, user.ID, budget.ID, group.ID)

		target := decimal.NewFromInt(500)
		_, err := svc.UpdateCategoryGoal(user.ID, cat.ID, CategoryGoalUpdate{TargetAmount: &target})
		testutil.AssertNoError(t, err)

		snoozed := true
		_, err = svc.UpdateCategoryGoal(user.ID, cat.ID, CategoryGoalUpdate{Snoozed: &snoozed})
		testutil.AssertNoError(t, err)

		var fetched models.Category
		testutil.AssertNoError(t, db.First(&fetched, cat.ID).Error)
		if fetched.TargetAmount == nil || !fetched.TargetAmount.Equal(target) {
			t.Errorf("expected target 500 to survive, got %v", fetched.TargetAmount)
		}
		if !fetched.Snoozed {
			t.Error("expected snoozed true")
		}
	})

	t.Run("negative_target", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		group := testutil.CreateTestGroup(t, db, user.ID, budget.ID)
		cat := testutil.CreateTestCategory(t, db, user.ID, budget.ID, group.ID)

		target := decimal.NewFromInt(-1)
		_, err := svc.UpdateCategoryGoal(user.ID, cat.ID, CategoryGoalUpdate{TargetAmount: &target})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("due_day_out_of_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		group := testutil.CreateTestGroup(t, db, user.ID, budget.ID)
		cat := testutil.CreateTestCategory(t, db, user.ID, budget.ID, group.ID)

		dueDay := 32
		_, err := svc.UpdateCategoryGoal(user.ID, cat.ID, CategoryGoalUpdate{DueDay: &dueDay})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

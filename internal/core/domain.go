package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// Expense categories. The set is fixed; storage rejects anything else.
	CategoryShopping       Category = "shopping"
	CategoryHousing        Category = "housing"
	CategoryUtility        Category = "utility"
	CategoryInsurance      Category = "insurance"
	CategoryMedical        Category = "medical"
	CategoryTransportation Category = "transportation"
	CategoryInvestingDebt  Category = "investing_debt"
	CategoryOther          Category = "other"

	TypeOneTime     ExpenseType = "one_time"
	TypeMonthlyBill ExpenseType = "monthly_bill"
)

type (
	Category    string
	ExpenseType string

	User struct {
		ID           int64
		Email        string
		Username     string
		PasswordHash string
		CreatedAt    time.Time
	}

	Budget struct {
		ID          int64
		UserID      int64
		Name        string
		Description string
		CreatedAt   time.Time
	}

	Income struct {
		ID            int64
		BudgetID      int64
		MonthlyAmount Money // normalized monthly equivalent, never the raw entry
		Description   string
		TaxPercent    float64 // 0..100
		CreatedAt     time.Time
	}

	Expense struct {
		ID              int64
		BudgetID        int64
		Description     string
		Amount          Money
		Category        Category
		Type            ExpenseType
		DueDay          int // 1..28 for monthly bills, 0 otherwise
		TransactionDate time.Time
		CreatedAt       time.Time
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDescription   = errors.New("empty description")
	ErrEmptyBudgetName    = errors.New("empty budget name")
	ErrInvalidCategory    = errors.New("invalid expense category")
	ErrInvalidExpenseType = errors.New("invalid expense type")
	ErrInvalidDueDay      = errors.New("due day must be between 1 and 28")
	ErrDueDayRequired     = errors.New("due day is required for monthly bills")
	ErrInvalidTaxPercent  = errors.New("tax percent must be between 0 and 100")
	ErrInvalidPayPeriod   = errors.New("invalid pay period")
	ErrMissingDate        = errors.New("transaction date is required")
)

// Categories returns the fixed category set in display order.
func Categories() []Category {
	return []Category{
		CategoryShopping,
		CategoryHousing,
		CategoryUtility,
		CategoryInsurance,
		CategoryMedical,
		CategoryTransportation,
		CategoryInvestingDebt,
		CategoryOther,
	}
}

var categoryLabels = map[Category]string{
	CategoryShopping:       "Shopping",
	CategoryHousing:        "Housing",
	CategoryUtility:        "Utility",
	CategoryInsurance:      "Insurance",
	CategoryMedical:        "Medical",
	CategoryTransportation: "Transportation",
	CategoryInvestingDebt:  "Saving, Investing, or Debt",
	CategoryOther:          "Other Expense",
}

// Label returns the human-readable name of a category, or "" for unknown ones.
func (c Category) Label() string {
	return categoryLabels[c]
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseCategory maps a submitted form value onto a known category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(strings.ToLower(s)))
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

func (t ExpenseType) Valid() bool {
	return t == TypeOneTime || t == TypeMonthlyBill
}

// Label returns the human-readable name of an expense type.
func (t ExpenseType) Label() string {
	switch t {
	case TypeOneTime:
		return "One Time"
	case TypeMonthlyBill:
		return "Monthly Bill"
	default:
		return ""
	}
}

func ParseExpenseType(s string) (ExpenseType, error) {
	t := ExpenseType(strings.TrimSpace(strings.ToLower(s)))
	if !t.Valid() {
		return "", ErrInvalidExpenseType
	}
	return t, nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyBudgetName
	}
	if len(b.Name) > 64 {
		return errors.New("budget name too long (max 64 characters)")
	}
	if len(b.Description) > 128 {
		return errors.New("budget description too long (max 128 characters)")
	}
	return nil
}

func (i Income) Validate() error {
	if len(strings.TrimSpace(i.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(i.Description) > 64 {
		return errors.New("income description too long (max 64 characters)")
	}
	if err := i.MonthlyAmount.Validate(); err != nil {
		return err
	}
	if i.TaxPercent < 0 || i.TaxPercent > 100 {
		return ErrInvalidTaxPercent
	}
	return nil
}

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 128 {
		return errors.New("expense description too long (max 128 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if !e.Type.Valid() {
		return ErrInvalidExpenseType
	}
	if e.TransactionDate.IsZero() {
		return ErrMissingDate
	}
	switch e.Type {
	case TypeMonthlyBill:
		if e.DueDay == 0 {
			return ErrDueDayRequired
		}
		if e.DueDay < 1 || e.DueDay > 28 {
			return ErrInvalidDueDay
		}
	default:
		if e.DueDay != 0 {
			return errors.New("due day only applies to monthly bills")
		}
	}
	return nil
}

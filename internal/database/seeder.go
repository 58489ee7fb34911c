package database

import (
	"context"
	"errors"
	"fmt"

	"mkc-office-backend/internal/logger"
	"mkc-office-backend/internal/model"
	"mkc-office-backend/internal/repository"
	"mkc-office-backend/internal/usecase"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type seedUser struct {
	Name     string
	Email    string
	Username string
	Role     string
}

var defaultUsers = []seedUser{
	{Name: "Managing Partner", Email: "partner@mkc.local", Username: "partner", Role: model.RolePartner},
	{Name: "Staff One", Email: "staff1@mkc.local", Username: "staff1", Role: model.RoleStaff},
	{Name: "Staff Two", Email: "staff2@mkc.local", Username: "staff2", Role: model.RoleStaff},
	{Name: "Article Assistant", Email: "article@mkc.local", Username: "article", Role: model.RoleArticle},
}

func rule(r model.FilingRule) datatypes.JSON {
	raw, _ := sonic.Marshal(r)
	return datatypes.JSON(raw)
}

var complianceCatalogue = []model.ComplianceItem{
	// Direct taxes
	{Category: model.CategoryDirectTax, Particular: "Advance Tax Payment", Description: "Quarterly advance tax payment", Frequency: model.FrequencyQuarterly,
		FilingDates: rule(model.FilingRule{Dates: []string{"15th June", "15th September", "15th December", "15th March"}})},
	{Category: model.CategoryDirectTax, Particular: "Corporate Income Tax Return (ITR-7 & ITR-6)", Description: "Return of Income (Form ITR-7 & Form ITR-6)", Frequency: model.FrequencyAnnual,
		FilingDates: rule(model.FilingRule{Date: "31st October", Conditional: "30th November if transfer pricing applicable"})},
	{Category: model.CategoryDirectTax, Particular: "Monthly TDS Deposit", Description: "TDS Deposit (Payment & Returns)", Frequency: model.FrequencyMonthly,
		FilingDates: rule(model.FilingRule{Day: "7"})},
	{Category: model.CategoryDirectTax, Particular: "TDS Return Filing (24Q, 26Q, 27Q)", Description: "Filing of TDS Return (Salary and Non Salary)", Frequency: model.FrequencyQuarterly,
		FilingDates: rule(model.FilingRule{Dates: []string{"31st July", "31st October", "31st January", "31st May"}})},
	{Category: model.CategoryDirectTax, Particular: "Form 16A", Description: "Tax Certificate (Non-Salary)", Frequency: model.FrequencyQuarterly,
		FilingDates: rule(model.FilingRule{Dates: []string{"15th August", "15th November", "15th February", "15th June"}})},
	{Category: model.CategoryDirectTax, Particular: "Form 16", Description: "Tax Certificate (Salary)", Frequency: model.FrequencyAnnual,
		FilingDates: rule(model.FilingRule{Date: "15th June"})},
	{Category: model.CategoryDirectTax, Particular: "Form 15CA/15CB", Description: "Certification for withdrawing taxes on foreign remittances", Frequency: model.FrequencyCustom,
		FilingDates: rule(model.FilingRule{Note: "At the time of foreign remittance"})},
	{Category: model.CategoryDirectTax, Particular: "Form 3CD + Tax Auditor Certificate (Form 3CB)", Description: "Tax Audit (applicable in case of turnover INR 1 crore)", Frequency: model.FrequencyAnnual,
		FilingDates: rule(model.FilingRule{Date: "30th September", Conditional: "30th November if transfer pricing applicable"})},
	{Category: model.CategoryDirectTax, Particular: "Form 3CEB", Description: "Transfer pricing (applicable in case of foreign related party transactions)", Frequency: model.FrequencyAnnual,
		FilingDates: rule(model.FilingRule{Date: "30th November"})},
	{Category: model.CategoryDirectTax, Particular: "Form 61A", Description: "Specified Financial transaction", Frequency: model.FrequencyAnnual,
		FilingDates: rule(model.FilingRule{Date: "31st May"})},

	// GST
	{Category: model.CategoryIndirectTax, Particular: "Form GSTR-1 (Details of Outward Supplies)", Description: "For registered persons having turnover exceeding 1.5 Crore", Frequency: model.FrequencyMonthly,
		FilingDates: rule(model.FilingRule{Day: "11"})},
	{Category: model.CategoryIndirectTax, Particular: "Form GSTR-1 (Quarterly)", Description: "For registered persons having turnover less than 1.5 crore", Frequency: model.FrequencyQuarterly,
		FilingDates: rule(model.FilingRule{Note: "Last day of succeeding month from the end of quarter"})},
	{Category: model.CategoryIndirectTax, Particular: "Form GSTR-3B (Monthly Return)", Description: "For registered person having aggregate turnover exceeding INR 5 crore", Frequency: model.FrequencyMonthly,
		FilingDates: rule(model.FilingRule{Day: "20"})},
	{Category: model.CategoryIndirectTax, Particular: "Form GSTR-6", Description: "Return for Input service distributor (Form GSTR-6)", Frequency: model.FrequencyMonthly,
		FilingDates: rule(model.FilingRule{Day: "13"})},
	{Category: model.CategoryIndirectTax, Particular: "Annual Return - Form GSTR-9", Description: "GST Audit (GSTR-9C) applicable if turnover is INR 2 Crore or more", Frequency: model.FrequencyAnnual,
		FilingDates: rule(model.FilingRule{Date: "31st December"})},
	{Category: model.CategoryIndirectTax, Particular: "Form GSTR-4", Description: "Annual Return under Composition Scheme", Frequency: model.FrequencyAnnual,
		FilingDates: rule(model.FilingRule{Date: "30th April"})},
	{Category: model.CategoryIndirectTax, Particular: "Form CMP-08", Description: "Quarterly Return under Composition Scheme", Frequency: model.FrequencyQuarterly,
		FilingDates: rule(model.FilingRule{Note: "18th day of succeeding month of the end of quarter"})},
	{Category: model.CategoryIndirectTax, Particular: "Form GSTR-7 (Return of TDS)", Description: "Return by Registered persons who are required to deduct tax", Frequency: model.FrequencyMonthly,
		FilingDates: rule(model.FilingRule{Day: "10"})},
	{Category: model.CategoryIndirectTax, Particular: "Form GSTR-8", Description: "Monthly Statement by E-Commerce Operator", Frequency: model.FrequencyMonthly,
		FilingDates: rule(model.FilingRule{Day: "10"})},
}

// SeedAll creates the default accounts and the compliance catalogue. Existing
// users keep their passwords; the catalogue is only loaded into an empty table.
func SeedAll(ctx context.Context, db *gorm.DB, password string) error {
	// 1. Users, registered only when the username is free
	users := repository.NewUserRepository(db)
	accounts := usecase.NewUserUsecase(users, nil, usecase.Calendar{})
	for _, u := range defaultUsers {
		_, err := users.GetByUsername(ctx, u.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		if _, err := accounts.Register(ctx, u.Name, u.Email, u.Username, password, u.Role); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		logger.Info("seed.user.created", "username", u.Username, "role", u.Role)
	}

	// 2. Compliance catalogue
	repo := repository.NewComplianceRepository(db)
	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Info("seed.compliance.skipped", "existing", count)
		return nil
	}

	for i := range complianceCatalogue {
		item := complianceCatalogue[i]
		item.IsActive = true
		if err := repo.Create(ctx, &item); err != nil {
			return fmt.Errorf("seed compliance %q: %w", item.Particular, err)
		}
	}
	logger.Info("seed.compliance.created", "count", len(complianceCatalogue))
	return nil
}

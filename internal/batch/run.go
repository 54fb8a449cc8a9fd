package batch

import (
	"context"
	"log/slog"

	"github.com/roach88/taxledger/internal/identity"
	"github.com/roach88/taxledger/internal/ledger"
	"github.com/roach88/taxledger/internal/relief"
	"github.com/roach88/taxledger/internal/tax"
)

// Outcome statuses.
const (
	StatusSaved      = "saved"
	StatusRejected   = "rejected"
	StatusAuthFailed = "auth_failed"
)

// Outcome reports what happened to one submission.
type Outcome struct {
	Index          int     `json:"index"`
	UserID         string  `json:"user_id"`
	IdentityNumber string  `json:"ic_number"`
	Status         string  `json:"status"`
	IsNew          bool    `json:"is_new,omitempty"`
	TotalRelief    float64 `json:"tax_relief,omitempty"`
	TaxPayable     float64 `json:"tax_payable,omitempty"`
}

// Result summarizes a batch run.
type Result struct {
	Name     string    `json:"name"`
	Outcomes []Outcome `json:"outcomes"`
	Saved    int       `json:"saved"`
	Failed   int       `json:"failed"`
}

// Run processes f's submissions in order against st.
// Gate failures are recorded per submission; a storage error stops the run
// and is returned with the outcomes collected so far.
func Run(ctx context.Context, f *File, st ledger.Store, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("batch", f.Name)

	res := &Result{Name: f.Name, Outcomes: make([]Outcome, 0, len(f.Submissions))}
	for i, sub := range f.Submissions {
		out, err := submit(ctx, st, sub)
		out.Index = i
		if err != nil {
			return res, err
		}
		res.Outcomes = append(res.Outcomes, out)
		if out.Status == StatusSaved {
			res.Saved++
		} else {
			res.Failed++
		}
		logger.Debug("submission processed", "index", i, "user_id", sub.UserID, "status", out.Status)
	}
	logger.Info("batch complete", "saved", res.Saved, "failed", res.Failed)
	return res, nil
}

func submit(ctx context.Context, st ledger.Store, sub Submission) (Outcome, error) {
	out := Outcome{UserID: sub.UserID, IdentityNumber: sub.IdentityNumber}

	if !identity.Verify(sub.IdentityNumber, sub.Password) {
		out.Status = StatusAuthFailed
		return out, nil
	}

	l, err := st.Load(ctx)
	if err != nil {
		return out, err
	}
	allowed, isNew := identity.CheckEntry(sub.UserID, sub.IdentityNumber, l)
	if !allowed {
		out.Status = StatusRejected
		return out, nil
	}

	total := relief.Aggregate(claimsFor(sub))
	rec := ledger.TaxRecord{
		UserID:         sub.UserID,
		IdentityNumber: sub.IdentityNumber,
		Income:         sub.Income,
		TotalRelief:    total,
		TaxPayable:     tax.Calculate(sub.Income, total),
	}
	if err := st.Upsert(ctx, rec); err != nil {
		return out, err
	}

	out.Status = StatusSaved
	out.IsNew = isNew
	out.TotalRelief = rec.TotalRelief
	out.TaxPayable = rec.TaxPayable
	return out, nil
}

// claimsFor copies the submission's claims and applies the spouse income
// rule.
func claimsFor(sub Submission) relief.Claims {
	claims := make(relief.Claims, len(sub.Claims)+1)
	for k, v := range sub.Claims {
		claims[k] = v
	}
	if sub.SpouseIncome != nil {
		if amount, ok := relief.SpouseRelief(*sub.SpouseIncome); ok {
			claims[relief.Spouse] = amount
		} else {
			delete(claims, relief.Spouse)
		}
	}
	return claims
}

package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/taxledger/internal/identity"
	"github.com/roach88/taxledger/internal/ledger"
	"github.com/roach88/taxledger/internal/money"
	"github.com/roach88/taxledger/internal/relief"
	"github.com/roach88/taxledger/internal/tax"
)

// MaxPasswordAttempts is the number of password tries before the session
// aborts.
const MaxPasswordAttempts = 3

var (
	// ErrInputClosed is returned when input ends before the flow completes.
	ErrInputClosed = errors.New("input closed before session completed")

	// ErrEntryRejected is returned when the user ID and IC number collide
	// with a different pairing already on record.
	ErrEntryRejected = errors.New("user ID and IC number do not match existing records")

	// ErrAuthFailed is returned after MaxPasswordAttempts wrong passwords.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNotANumber and ErrNegativeAmount are returned by ParseAmount.
	ErrNotANumber     = errors.New("not a number")
	ErrNegativeAmount = errors.New("amount is negative")
)

// Options configures a Session.
type Options struct {
	In    io.Reader
	Out   io.Writer
	Store ledger.Store

	// Registry defaults to relief.Default().
	Registry *relief.Registry

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// IDs defaults to UUIDv7Generator.
	IDs IDGenerator
}

// Result describes a completed session.
type Result struct {
	SessionID  string           `json:"session_id"`
	Record     ledger.TaxRecord `json:"record"`
	IsNew      bool             `json:"is_new"`
	Relief     relief.Summary   `json:"relief"`
	Assessment tax.Assessment   `json:"assessment"`
	Ledger     ledger.Ledger    `json:"ledger"`
}

// Session is a single interactive run. It is not safe for concurrent use.
type Session struct {
	in       *bufio.Scanner
	out      io.Writer
	store    ledger.Store
	registry *relief.Registry
	logger   *slog.Logger
	id       string
}

// New creates a session from opts.
func New(opts Options) *Session {
	registry := opts.Registry
	if registry == nil {
		registry = relief.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ids := opts.IDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	id := ids.Generate()

	return &Session{
		in:       bufio.NewScanner(opts.In),
		out:      opts.Out,
		store:    opts.Store,
		registry: registry,
		logger:   logger.With("session_id", id),
		id:       id,
	}
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// Run walks through the full flow and persists the resulting record.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	s.logger.Debug("session started")
	fmt.Fprintln(s.out, "Welcome to the income tax ledger.")

	userID, err := s.askNonEmpty("Enter your ID: ")
	if err != nil {
		return nil, err
	}

	ic, err := s.askIdentity()
	if err != nil {
		return nil, err
	}

	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	allowed, isNew := identity.CheckEntry(userID, ic, records)
	s.logger.Debug("entry checked", "user_id", userID, "allowed", allowed, "is_new", isNew)
	if !allowed {
		fmt.Fprintln(s.out, "The ID and IC number you entered do not match our records.")
		return nil, ErrEntryRejected
	}
	if isNew {
		fmt.Fprintf(s.out, "New user %s. The last %d characters of your IC number are your password.\n", userID, identity.PasswordLength)
	} else {
		fmt.Fprintf(s.out, "Welcome back, %s.\n", userID)
	}

	if err := s.authenticate(ic); err != nil {
		return nil, err
	}

	income, err := s.askAmount("Enter your annual income (RM): ")
	if err != nil {
		return nil, err
	}

	claims, err := s.collectClaims()
	if err != nil {
		return nil, err
	}

	summary := s.registry.Apply(claims)
	assessment := tax.Assess(income, summary.Total)
	s.printAssessment(summary, assessment)

	rec := ledger.TaxRecord{
		UserID:         userID,
		IdentityNumber: ic,
		Income:         income,
		TotalRelief:    summary.Total,
		TaxPayable:     assessment.Tax,
	}
	if err := s.store.Upsert(ctx, rec); err != nil {
		return nil, err
	}
	s.logger.Info("record saved", "user_id", userID, "tax_payable", assessment.Tax, "new", isNew)

	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Tax records:")
	if err := ledger.WriteTable(s.out, all); err != nil {
		return nil, err
	}

	rec.IdentityNumber = ledger.NormalizeIdentity(rec.IdentityNumber)
	return &Result{
		SessionID:  s.id,
		Record:     rec,
		IsNew:      isNew,
		Relief:     summary,
		Assessment: assessment,
		Ledger:     all,
	}, nil
}

func (s *Session) askIdentity() (string, error) {
	for {
		ic, err := s.ask(fmt.Sprintf("Enter your %d-digit IC number without hyphens: ", identity.Length))
		if err != nil {
			return "", err
		}
		if identity.ValidFormat(ic) {
			return ic, nil
		}
		fmt.Fprintf(s.out, "Invalid IC number: it must be exactly %d characters.\n", identity.Length)
	}
}

func (s *Session) authenticate(ic string) error {
	for attempt := 1; attempt <= MaxPasswordAttempts; attempt++ {
		pw, err := s.ask("Enter password: ")
		if err != nil {
			return err
		}
		if identity.Verify(ic, pw) {
			return nil
		}
		if left := MaxPasswordAttempts - attempt; left > 0 {
			fmt.Fprintf(s.out, "Incorrect password. %d attempt(s) left.\n", left)
		}
	}
	fmt.Fprintln(s.out, "Too many failed attempts.")
	s.logger.Warn("authentication failed", "attempts", MaxPasswordAttempts)
	return ErrAuthFailed
}

// collectClaims shows the relief menu and gathers a value for every valid
// selection. Invalid and repeated selections are reported and skipped.
func (s *Session) collectClaims() (relief.Claims, error) {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Available reliefs:")
	for i, c := range s.registry.Categories() {
		if c.Mode == relief.PerUnit {
			fmt.Fprintf(s.out, "%d. %s (%s each, up to %d)\n", i+1, c.Title(), money.Format(c.Cap), c.MaxUnits)
			continue
		}
		fmt.Fprintf(s.out, "%d. %s (max %s)\n", i+1, c.Title(), money.Format(c.Cap))
	}

	line, err := s.ask("Enter the numbers of the reliefs you can claim, separated by commas (blank for none): ")
	if err != nil {
		return nil, err
	}

	claims := relief.Claims{}
	for _, field := range strings.Split(line, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			fmt.Fprintf(s.out, "Invalid selection: %s\n", field)
			continue
		}
		c, ok := s.registry.At(n)
		if !ok {
			fmt.Fprintf(s.out, "Invalid selection: %d\n", n)
			continue
		}
		if _, dup := claims[c.Name]; dup {
			continue
		}

		switch {
		case c.Name == relief.Spouse:
			spouseIncome, err := s.askAmount("Enter your spouse's annual income (RM): ")
			if err != nil {
				return nil, err
			}
			amount, eligible := relief.SpouseRelief(spouseIncome)
			if !eligible {
				fmt.Fprintf(s.out, "Spouse income exceeds %s. Spouse relief not applicable.\n", money.Format(relief.SpouseIncomeLimit))
				continue
			}
			claims[c.Name] = amount
		case c.Mode == relief.PerUnit:
			units, err := s.askCount(fmt.Sprintf("Enter number for %s relief (max %d, %s each): ", c.Title(), c.MaxUnits, money.Format(c.Cap)))
			if err != nil {
				return nil, err
			}
			claims[c.Name] = float64(units)
		default:
			amount, err := s.askAmount(fmt.Sprintf("Enter amount for %s relief (max %s): ", c.Title(), money.Format(c.Cap)))
			if err != nil {
				return nil, err
			}
			claims[c.Name] = amount
		}
	}
	return claims, nil
}

func (s *Session) printAssessment(summary relief.Summary, a tax.Assessment) {
	fmt.Fprintln(s.out)
	fmt.Fprintf(s.out, "Base relief:     %s\n", money.Format(summary.Base))
	for _, line := range summary.Lines {
		fmt.Fprintf(s.out, "  %-14s %s\n", line.Category+":", money.Format(line.Allowed))
	}
	fmt.Fprintf(s.out, "Total relief:    %s\n", money.Format(summary.Total))
	fmt.Fprintf(s.out, "Taxable income:  %s\n", money.Format(a.Taxable))
	fmt.Fprintf(s.out, "Tax rate:        %.0f%%\n", a.Rate*100)
	fmt.Fprintf(s.out, "Your tax payable is: %s\n", money.Format(a.Tax))
}

// ask prints prompt and returns the next input line, trimmed.
func (s *Session) ask(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		fmt.Fprintln(s.out)
		return "", ErrInputClosed
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Session) askNonEmpty(prompt string) (string, error) {
	for {
		v, err := s.ask(prompt)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
		fmt.Fprintln(s.out, "A value is required.")
	}
}

// askAmount re-prompts until the answer is a finite, non-negative number.
func (s *Session) askAmount(prompt string) (float64, error) {
	for {
		v, err := s.ask(prompt)
		if err != nil {
			return 0, err
		}
		amount, err := ParseAmount(v)
		if errors.Is(err, ErrNegativeAmount) {
			fmt.Fprintln(s.out, "The amount cannot be negative.")
			continue
		}
		if err != nil {
			fmt.Fprintln(s.out, "Please enter a valid number.")
			continue
		}
		return amount, nil
	}
}

// askCount re-prompts until the answer is a non-negative whole number.
func (s *Session) askCount(prompt string) (int, error) {
	for {
		v, err := s.ask(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			fmt.Fprintln(s.out, "Please enter a whole number.")
			continue
		}
		if n < 0 {
			fmt.Fprintln(s.out, "The number cannot be negative.")
			continue
		}
		return n, nil
	}
}

// groupedAmount matches an amount written with comma thousands separators.
var groupedAmount = regexp.MustCompile(`^-?\d{1,3}(,\d{3})*(\.\d+)?$`)

// ParseAmount parses a currency amount typed by the user. Commas are accepted
// only as thousands separators; negative, NaN and infinite values are
// rejected.
func ParseAmount(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if strings.Contains(v, ",") {
		if !groupedAmount.MatchString(v) {
			return 0, ErrNotANumber
		}
		v = strings.ReplaceAll(v, ",", "")
	}
	amount, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrNotANumber
	}
	if amount < 0 {
		return 0, ErrNegativeAmount
	}
	return amount, nil
}

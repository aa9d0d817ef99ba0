package transfer

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"growvest-backend/internal/domain/apperr"
	domain "growvest-backend/internal/domain/goal"
	"growvest-backend/internal/domain/uow"
	"growvest-backend/internal/usecase/guard"
	"growvest-backend/pkg/currency"
	"growvest-backend/pkg/id"
)

type Usecase struct {
	uow uow.UnitOfWork
	cfg Config
	log *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, cfg Config, log *zap.Logger) *Usecase {
	if !cfg.Overflow.Valid() {
		cfg.Overflow = OverflowCap
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{uow: tx, cfg: cfg, log: log.Named("transfer")}
}

// Rebalance moves principal from one goal to another. Besides the input
// checks it can fail with PolicyRejectionTitle when cfg.MicroOnly excludes a
// macro goal or when the cap policy finds the target already full.
func (u *Usecase) Rebalance(ctx context.Context, in RebalanceInput) (*Result, error) {
	if strings.TrimSpace(in.SourceID) == "" || strings.TrimSpace(in.TargetID) == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "Error", "Source and target goals are required.")
	}
	if in.SourceID == in.TargetID {
		return nil, apperr.New(apperr.KindInvalidInput, "Error", "Source and target goals must be different.")
	}
	if !(in.Amount > 0) || math.IsInf(in.Amount, 1) {
		return nil, apperr.New(apperr.KindInvalidAmount, "Invalid Amount", "Please enter a valid amount greater than zero.")
	}

	var res Result
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		src, err := loadTransferable(ctx, r, in.SourceID)
		if err != nil {
			return err
		}
		dst, err := loadTransferable(ctx, r, in.TargetID)
		if err != nil {
			return err
		}
		if u.cfg.MicroOnly && (src.Size() != domain.SizeMicro || dst.Size() != domain.SizeMicro) {
			return apperr.New(apperr.KindInvalidInput, PolicyRejectionTitle,
				"This server is configured to rebalance only between micro goals.")
		}
		if in.Amount > src.CurrentAmount {
			return apperr.Newf(apperr.KindInvalidAmount, "Invalid Amount",
				"You can move at most %s from %s.", currency.Format(src.CurrentAmount), src.Title).
				WithLimit(src.CurrentAmount)
		}

		room := math.Max(0, dst.TargetAmount-dst.CurrentAmount)
		take := in.Amount
		if u.cfg.Overflow == OverflowCap {
			if room == 0 {
				return apperr.Newf(apperr.KindInvalidAmount, PolicyRejectionTitle,
					"%s is already fully funded and the cap overflow policy moves nothing into it.", dst.Title).WithLimit(0)
			}
			take = math.Min(in.Amount, room)
		}
		moved := math.Min(take, room)

		src.CurrentAmount = math.Max(0, src.CurrentAmount-take)
		dst.CurrentAmount += moved
		src.RefreshProgress()
		dst.RefreshProgress()

		// source first: a failure between the writes leaves less allocated, never more
		if err := r.Goals.Save(ctx, src); err != nil {
			return fmt.Errorf("save source goal: %w", err)
		}
		if err := r.Goals.Save(ctx, dst); err != nil {
			return fmt.Errorf("save target goal: %w", err)
		}
		res = Result{Goals: []domain.Goal{*src, *dst}, Moved: moved, Discarded: take - moved}
		return nil
	})
	if err != nil {
		u.log.Debug("rebalance rejected", zap.String("source", in.SourceID), zap.String("target", in.TargetID), zap.Error(err))
		return nil, err
	}
	if res.Discarded > 0 {
		u.log.Warn("rebalance discarded excess",
			zap.String("target", in.TargetID),
			zap.Float64("discarded", res.Discarded))
	}
	u.log.Info("rebalanced",
		zap.String("source", in.SourceID),
		zap.String("target", in.TargetID),
		zap.Float64("moved", res.Moved))
	return &res, nil
}

// UseEmergencyFund tops up a goal from savings not yet allocated to any goal.
// The profile's savings figure is left untouched.
func (u *Usecase) UseEmergencyFund(ctx context.Context, in EmergencyFundInput) (*Result, error) {
	if !(in.Amount > 0) || math.IsInf(in.Amount, 1) {
		return nil, apperr.New(apperr.KindInvalidAmount, "Invalid Amount", "Please enter a valid amount greater than zero.")
	}

	var res Result
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := guard.LoadProfile(ctx, r)
		if err != nil {
			return err
		}
		goals, err := r.Goals.List(ctx)
		if err != nil {
			return err
		}
		idx := guard.Index(goals, in.GoalID)
		if idx < 0 {
			return guard.GoalNotFound(in.GoalID)
		}
		g := goals[idx]

		available := math.Max(0, p.Savings-domain.TotalCurrent(goals))
		if in.Amount > available {
			return apperr.Newf(apperr.KindInsufficientEmergencyFund, "Insufficient Emergency Fund",
				"You only have %s available in your emergency fund.", currency.Format(available)).
				WithLimit(available)
		}
		needed := g.Remaining()
		if in.Amount > needed {
			return apperr.Newf(apperr.KindInvalidAmount, "Invalid Amount",
				"This goal only needs %s more to be complete.", currency.Format(needed)).
				WithLimit(needed)
		}

		g.CurrentAmount = math.Min(g.CurrentAmount+in.Amount, g.TargetAmount)
		g.RefreshProgress()
		if err := r.Goals.Save(ctx, &g); err != nil {
			return fmt.Errorf("save goal: %w", err)
		}
		res = Result{Goals: []domain.Goal{g}, Profile: p, Moved: in.Amount}
		return nil
	})
	if err != nil {
		u.log.Debug("emergency fund rejected", zap.String("goal_id", in.GoalID), zap.Error(err))
		return nil, err
	}
	u.log.Info("emergency fund used", zap.String("goal_id", in.GoalID), zap.Float64("amount", in.Amount))
	return &res, nil
}

// FinanceGoal completes a goal by taking a loan for what it still needs. The
// loan becomes a goal of its own and its repayment is taken out of the
// profile's savings and monthly capacity.
func (u *Usecase) FinanceGoal(ctx context.Context, in FinanceInput) (*Result, error) {
	if !(in.RemainingAmount > 0) || math.IsInf(in.RemainingAmount, 1) {
		return nil, apperr.New(apperr.KindInvalidAmount, "Invalid Amount", "The amount to finance must be greater than zero.")
	}

	var res Result
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := guard.LoadProfile(ctx, r)
		if err != nil {
			return err
		}
		goals, err := r.Goals.List(ctx)
		if err != nil {
			return err
		}
		idx := guard.Index(goals, in.GoalID)
		if idx < 0 {
			return guard.GoalNotFound(in.GoalID)
		}
		g := goals[idx]
		if g.IsLoan() {
			return apperr.New(apperr.KindInvalidInput, "Error", "A loan cannot be financed with another loan.")
		}
		if needed := g.Remaining(); in.RemainingAmount > needed {
			return apperr.Newf(apperr.KindInvalidAmount, "Invalid Amount",
				"This goal only needs %s more to be complete.", currency.Format(needed)).
				WithLimit(needed)
		}
		if in.RemainingAmount > p.Savings {
			return apperr.Newf(apperr.KindInsufficientFunds, "Insufficient Funds",
				"You need %s but only have %s in savings.",
				currency.Format(in.RemainingAmount), currency.Format(p.Savings)).
				WithLimit(p.Savings)
		}
		payment := math.Abs(in.RemainingAmount / (domain.LoanTimelineYears * 12))
		if err := guard.CheckCapacity(domain.TotalMonthly(goals), payment, p.MonthlyInvestmentCapacity, "Repaying this loan"); err != nil {
			return err
		}

		loan := domain.Goal{
			ID:                  id.New(),
			Title:               domain.LoanTitlePrefix + g.Title,
			TargetAmount:        in.RemainingAmount,
			Timeline:            domain.LoanTimelineYears,
			Category:            domain.CategoryOther,
			MonthlyContribution: payment,
			RiskLevel:           domain.RiskConservative,
			Description:         "Loan taken to finance " + g.Title,
		}
		loan.RefreshProgress()
		p.Savings -= in.RemainingAmount
		p.MonthlyInvestmentCapacity = math.Max(0, p.MonthlyInvestmentCapacity-payment)
		g.CurrentAmount = g.TargetAmount
		g.RefreshProgress()

		if err := r.Goals.Create(ctx, &loan); err != nil {
			return fmt.Errorf("create loan goal: %w", err)
		}
		if err := r.Profiles.Save(ctx, p); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		if err := r.Goals.Save(ctx, &g); err != nil {
			return fmt.Errorf("complete goal: %w", err)
		}
		res = Result{Goals: []domain.Goal{g, loan}, Profile: p, Moved: in.RemainingAmount}
		return nil
	})
	if err != nil {
		u.log.Debug("financing rejected", zap.String("goal_id", in.GoalID), zap.Error(err))
		return nil, err
	}
	u.log.Info("goal financed",
		zap.String("goal_id", in.GoalID),
		zap.String("loan_id", res.Goals[1].ID),
		zap.Float64("amount", in.RemainingAmount))
	return &res, nil
}

func loadTransferable(ctx context.Context, r uow.Repos, goalID string) (*domain.Goal, error) {
	g, err := guard.LoadGoal(ctx, r, goalID)
	if err != nil {
		return nil, err
	}
	if g.IsLoan() {
		return nil, guard.GoalNotFound(goalID)
	}
	return g, nil
}

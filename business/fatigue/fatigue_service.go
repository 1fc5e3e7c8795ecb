package fatigue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"adFatigue/domain"
	"adFatigue/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	defaultReportWindow   = 30 * 24 * time.Hour
	defaultHistoryLimit   = 20
	maxHistoryLimit       = 200
	recomputeConcurrency  = 4
	fallbackFirstTime     = "first_time_ratio"
	fallbackNoSnapshots   = "no_snapshots"
	fallbackUnknownFormat = "unknown_format"
)

// ---- Repository interfaces ----

type SnapshotRepository interface {
	FindByAd(ctx context.Context, adID string, from, to time.Time) ([]domain.MetricSnapshot, error)
	// FirstDelivery returns the earliest snapshot date of an ad, zero when it has none.
	FirstDelivery(ctx context.Context, adID string) (time.Time, error)
	ListActiveAds(ctx context.Context, since time.Time) ([]domain.AdRef, error)
}

type ReportRepository interface {
	SaveReport(ctx context.Context, report *domain.FatigueReport) error
	ListReports(ctx context.Context, adID string, limit int) ([]domain.FatigueReport, error)
}

// ---- Service ----

type FatigueService struct {
	snapshotRepo SnapshotRepository
	reportRepo   ReportRepository
	cfgRepo      ConfigRepository
	cfgCache     ConfigCache
	defaultCfg   Config
	now          func() time.Time
}

func NewFatigueService(
	snapshotRepo SnapshotRepository,
	reportRepo ReportRepository,
	cfgRepo ConfigRepository,
	cfgCache ConfigCache,
	defaultCfg Config,
) *FatigueService {
	return &FatigueService{
		snapshotRepo: snapshotRepo,
		reportRepo:   reportRepo,
		cfgRepo:      cfgRepo,
		cfgCache:     cfgCache,
		defaultCfg:   defaultCfg,
		now:          time.Now,
	}
}

// FormatFatigue scores delivery metrics against the account's format table.
func (s *FatigueService) FormatFatigue(ctx context.Context, accountID string, d domain.DeliveryMetrics) (domain.FormatFatigue, error) {
	if err := ctx.Err(); err != nil {
		return domain.FormatFatigue{}, fmt.Errorf("context error: %w", err)
	}
	return s.loadConfig(ctx, accountID).FormatFatigue(d)
}

func (s *FatigueService) InstagramValue(ctx context.Context, accountID string, m domain.InstagramMetrics) (domain.InstagramValueScore, error) {
	if err := ctx.Err(); err != nil {
		return domain.InstagramValueScore{}, fmt.Errorf("context error: %w", err)
	}
	return s.loadConfig(ctx, accountID).InstagramValue(m), nil
}

func (s *FatigueService) Blend(ctx context.Context, accountID string, req domain.BlendRequest) (domain.FatigueScore, error) {
	if err := ctx.Err(); err != nil {
		return domain.FatigueScore{}, fmt.Errorf("context error: %w", err)
	}
	return s.loadConfig(ctx, accountID).Blend(req.Base, req.Instagram, req.Delivery)
}

func (s *FatigueService) FirstTimeRatio(
	ctx context.Context,
	accountID string,
	snapshots []domain.MetricSnapshot,
	nonFollowerRate *float64,
) (domain.FirstTimeRatioEstimate, error) {
	if err := ctx.Err(); err != nil {
		return domain.FirstTimeRatioEstimate{}, fmt.Errorf("context error: %w", err)
	}

	est := s.loadConfig(ctx, accountID).EstimateFirstTimeRatio(snapshots, nonFollowerRate)
	if est.Fallback {
		s.logFirstTimeFallback(ctx, "", len(snapshots))
	}
	return est, nil
}

// Report loads the snapshot window of an ad, computes the full fatigue report
// and stores it in the report history.
func (s *FatigueService) Report(ctx context.Context, q domain.ReportQuery) (*domain.FatigueReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if q.AdID == "" {
		return nil, fmt.Errorf("%w: ad_id is required", ErrInvalidQuery)
	}

	if q.To.IsZero() {
		q.To = s.now()
	}
	if q.From.IsZero() {
		q.From = q.To.Add(-defaultReportWindow)
	}
	if q.From.After(q.To) {
		return nil, fmt.Errorf("%w: from must not be after to", ErrInvalidQuery)
	}

	snapshots, err := s.snapshotRepo.FindByAd(ctx, q.AdID, q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	if len(snapshots) == 0 {
		FatigueFallbacksTotal.WithLabelValues(fallbackNoSnapshots).Inc()
		return nil, fmt.Errorf("%w: no snapshots for ad %s", ErrInsufficientData, q.AdID)
	}
	owner := snapshots[0].AccountID
	if q.AccountID != "" && q.AccountID != owner {
		return nil, fmt.Errorf("%w: ad %s does not belong to account %s", ErrInvalidQuery, q.AdID, q.AccountID)
	}
	q.AccountID = owner

	firstDelivery, err := s.snapshotRepo.FirstDelivery(ctx, q.AdID)
	if err != nil {
		return nil, fmt.Errorf("load first delivery: %w", err)
	}

	cfg := s.loadConfig(ctx, q.AccountID)

	report, err := s.buildReport(ctx, cfg, q, snapshots, firstDelivery)
	if err != nil {
		return nil, err
	}

	if err := s.reportRepo.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save fatigue report: %w", err)
	}

	FatigueReportsTotal.
		WithLabelValues(string(report.Status), string(report.CreativeFormat)).
		Inc()

	return report, nil
}

func (s *FatigueService) buildReport(
	ctx context.Context,
	cfg Config,
	q domain.ReportQuery,
	snapshots []domain.MetricSnapshot,
	firstDelivery time.Time,
) (*domain.FatigueReport, error) {
	base, err := cfg.BaseScores(snapshots)
	if err != nil {
		return nil, err
	}

	detail := domain.ReportDetail{Base: base}

	delivery := DeliveryFromSnapshots(snapshots, firstDelivery)
	if delivery != nil && delivery.Format != "" {
		ff, err := cfg.FormatFatigue(*delivery)
		if err != nil {
			FatigueFallbacksTotal.WithLabelValues(fallbackUnknownFormat).Inc()
			return nil, err
		}
		detail.Delivery = delivery
		detail.FormatFatigue = &ff
	}

	ig := InstagramFromSnapshots(snapshots, q.NonFollowerRate)
	if ig != nil {
		value := cfg.InstagramValue(*ig)
		detail.InstagramValue = &value
	}

	detail.FirstTime = cfg.EstimateFirstTimeRatio(snapshots, q.NonFollowerRate)
	if detail.FirstTime.Fallback {
		s.logFirstTimeFallback(ctx, q.AdID, len(snapshots))
	}

	score, err := cfg.Blend(base, ig, detail.Delivery)
	if err != nil {
		return nil, err
	}
	detail.Score = score

	tid := TraceIDFromContext(ctx)
	logger.Debug("fatigue_report",
		"trace_id", tid,
		"account_id", q.AccountID,
		"ad_id", q.AdID,
		"snapshots", len(snapshots),
		"total", score.Total,
		"status", score.Status,
		"primary_issue", score.PrimaryIssue,
		"first_time_ratio", detail.FirstTime.Ratio,
	)

	raw, err := json.Marshal(detail)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report detail: %w", err)
	}

	report := &domain.FatigueReport{
		AccountID:           q.AccountID,
		AdID:                q.AdID,
		DateFrom:            q.From,
		DateTo:              q.To,
		SnapshotCount:       len(snapshots),
		Creative:            score.Creative,
		Audience:            score.Audience,
		Algorithm:           score.Algorithm,
		Total:               score.Total,
		Status:              score.Status,
		PrimaryIssue:        score.PrimaryIssue,
		FirstTimeRatio:      detail.FirstTime.Ratio,
		FirstTimeConfidence: detail.FirstTime.Confidence,
		DetailRaw:           raw,
		Detail:              &detail,
	}
	if delivery != nil {
		report.CreativeFormat = delivery.Format
	}
	if detail.InstagramValue != nil {
		v := detail.InstagramValue.TotalValueScore
		report.InstagramValue = &v
	}

	return report, nil
}

func (s *FatigueService) logFirstTimeFallback(ctx context.Context, adID string, n int) {
	FatigueFallbacksTotal.WithLabelValues(fallbackFirstTime).Inc()
	logger.Debug("first_time_ratio_fallback",
		"trace_id", TraceIDFromContext(ctx),
		"ad_id", adID,
		"snapshots", n,
	)
}

// History returns the latest stored reports of an ad, newest first.
func (s *FatigueService) History(ctx context.Context, adID string, limit int) ([]domain.FatigueReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if adID == "" {
		return nil, fmt.Errorf("%w: ad_id is required", ErrInvalidQuery)
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	reports, err := s.reportRepo.ListReports(ctx, adID, limit)
	if err != nil {
		return nil, fmt.Errorf("load fatigue reports: %w", err)
	}
	return reports, nil
}

// RecomputeActive refreshes the report of every ad with snapshots since the given
// time. Ads are scored concurrently; a failing ad is logged and skipped.
func (s *FatigueService) RecomputeActive(ctx context.Context, since time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	refs, err := s.snapshotRepo.ListActiveAds(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("list active ads: %w", err)
	}

	var done atomic.Int64
	to := s.now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(recomputeConcurrency)

	for _, ref := range refs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, err := s.Report(gctx, domain.ReportQuery{
				AccountID: ref.AccountID,
				AdID:      ref.AdID,
				From:      since,
				To:        to,
			})
			if err != nil {
				logger.Warn("fatigue_recompute_failed",
					"trace_id", TraceIDFromContext(ctx),
					"account_id", ref.AccountID,
					"ad_id", ref.AdID,
					"error", err,
				)
				return nil
			}
			done.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(done.Load()), fmt.Errorf("recompute interrupted: %w", err)
	}

	return int(done.Load()), nil
}

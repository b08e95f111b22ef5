package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"

	"reviewlens/internal/analytics"
	"reviewlens/internal/classifier"
	"reviewlens/internal/microservices/http-api/models"
	"reviewlens/internal/microservices/http-api/repository"
	"reviewlens/internal/usage"
)

// CallQuota is the daily AI call budget of an organization.
type CallQuota interface {
	Reserve(ctx context.Context, orgID string) error
	Today(ctx context.Context, orgID string) (int64, error)
	Limit() int64
}

// AIGateway fronts the classifier for one organization at a time. Every call is
// checked against the quota and recorded as a usage event plus an AI log, whether
// it succeeds or not. Classifier errors are returned unchanged.
type AIGateway struct {
	classifier classifier.Classifier
	quota      CallQuota
	usageRepo  repository.UsageRepository
	logger     *slog.Logger
}

func NewAIGateway(c classifier.Classifier, quota CallQuota, usageRepo repository.UsageRepository, logger *slog.Logger) *AIGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &AIGateway{classifier: c, quota: quota, usageRepo: usageRepo, logger: logger}
}

func (g *AIGateway) AnalyzeReview(ctx context.Context, orgID, text string) (*classifier.ReviewAnalysis, error) {
	if err := g.reserve(ctx, orgID); err != nil {
		return nil, err
	}

	result, err := g.classifier.AnalyzeReview(ctx, text)
	call := classifier.CallInfo{Prompt: text}
	if result != nil {
		call = result.Call
	}
	g.record(ctx, orgID, "analyze_review", call, err)

	return result, err
}

func (g *AIGateway) GenerateInsight(ctx context.Context, orgID string, texts []string, aspects []analytics.Aspect) (*classifier.InsightDraft, error) {
	if err := g.reserve(ctx, orgID); err != nil {
		return nil, err
	}

	draft, err := g.classifier.GenerateInsight(ctx, texts, aspects)
	var call classifier.CallInfo
	if draft != nil {
		call = draft.Call
	}
	g.record(ctx, orgID, "generate_insight", call, err)

	return draft, err
}

func (g *AIGateway) WeeklyReport(ctx context.Context, orgID string, in classifier.ReportInput) (*classifier.Report, error) {
	if err := g.reserve(ctx, orgID); err != nil {
		return nil, err
	}

	report, err := g.classifier.WeeklyReport(ctx, in)
	var call classifier.CallInfo
	if report != nil {
		call = report.Call
	}
	g.record(ctx, orgID, "weekly_report", call, err)

	return report, err
}

func (g *AIGateway) reserve(ctx context.Context, orgID string) error {
	if g.quota == nil {
		return nil
	}
	if err := g.quota.Reserve(ctx, orgID); err != nil {
		if errors.Is(err, usage.ErrLimitExceeded) {
			return ErrQuotaExceeded
		}
		// counting is best effort; an unreachable Redis must not block classification
		g.logger.WarnContext(ctx, "AI quota check failed", "org_id", orgID, "error", err)
	}
	return nil
}

// record never fails the call it describes
func (g *AIGateway) record(ctx context.Context, orgID, route string, call classifier.CallInfo, callErr error) {
	// the request context may already be cancelled after a timeout
	ctx = context.WithoutCancel(ctx)

	if callErr != nil {
		g.logger.WarnContext(ctx, "classifier call failed", "org_id", orgID, "route", route, "error", callErr)
	}

	sum := sha256.Sum256([]byte(call.Prompt))
	entry := &models.AILog{
		OrganizationID: orgID,
		Route:          route,
		PromptHash:     hex.EncodeToString(sum[:]),
		Prompt:         call.Prompt,
		Response:       call.Response,
		TokensIn:       call.TokensIn,
		TokensOut:      call.TokensOut,
		Success:        callErr == nil,
	}
	if err := g.usageRepo.LogAI(ctx, entry); err != nil {
		g.logger.ErrorContext(ctx, "failed to write AI log", "org_id", orgID, "route", route, "error", err)
	}

	tokens := call.TokensIn + call.TokensOut
	event := &models.UsageEvent{
		OrganizationID: orgID,
		Type:           models.UsageAICall,
		Tokens:         &tokens,
		MetaJSON:       map[string]interface{}{"route": route, "model": call.Model, "success": callErr == nil},
	}
	if err := g.usageRepo.LogEvent(ctx, event); err != nil {
		g.logger.ErrorContext(ctx, "failed to log usage event", "org_id", orgID, "route", route, "error", err)
	}
}
